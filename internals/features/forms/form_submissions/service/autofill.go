package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const lookupPath = "/impala/lookup"

// LookupKey menentukan field pencarian peserta lama.
type LookupKey string

const (
	LookupByNIK   LookupKey = "nik"
	LookupByEmail LookupKey = "email"
)

// ShouldLookup: NIK tepat 16 karakter, atau email yang mengandung "@".
func ShouldLookup(key LookupKey, value string) bool {
	value = strings.TrimSpace(value)
	switch key {
	case LookupByNIK:
		return len([]rune(value)) == 16
	case LookupByEmail:
		return strings.Contains(value, "@")
	}
	return false
}

// Participant adalah data peserta yang pernah mendaftar, dinormalisasi ke string.
type Participant map[string]string

// AutoFill mencari peserta lama. Semua kegagalan hanya di-log.
type AutoFill struct {
	api Backend
	log logrus.FieldLogger
}

func NewAutoFill(api Backend, log logrus.FieldLogger) *AutoFill {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AutoFill{api: api, log: log}
}

// Lookup mengembalikan nil jika tidak ditemukan atau gagal.
func (a *AutoFill) Lookup(ctx context.Context, key LookupKey, value string) Participant {
	if !ShouldLookup(key, value) {
		return nil
	}
	var raw map[string]any
	q := url.Values{string(key): {strings.TrimSpace(value)}}
	if err := a.api.Get(ctx, lookupPath, q, &raw); err != nil {
		a.log.WithError(err).WithField("by", string(key)).Debug("[AUTOFILL] lookup gagal")
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	out := Participant{}
	for k, v := range raw {
		if s := stringify(v); s != "" {
			out[k] = s
		}
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		// field multi-nilai disimpan backend sebagai array; draft memakai elemen pertama
		if len(x) == 0 {
			return ""
		}
		return stringify(x[0])
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
