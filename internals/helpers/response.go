package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationMessages mengubah validator.ValidationErrors jadi map field → pesan.
// Nama field memakai tag json (lihat NewValidator).
func ValidationMessages(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " wajib diisi"
	case "startswith":
		return fe.Field() + " harus diawali " + fe.Param()
	case "oneof":
		return fe.Field() + " harus salah satu dari: " + fe.Param()
	case "url":
		return fe.Field() + " harus berupa URL yang valid"
	default:
		return fe.Field() + " tidak valid (" + fe.Tag() + ")"
	}
}

// ValidationError: balas 422 dari error validator.v10
func ValidationError(c *fiber.Ctx, err error) error {
	return JsonValidationError(c, ValidationMessages(err))
}

// NewValidator memakai nama json sebagai nama field di pesan error.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
