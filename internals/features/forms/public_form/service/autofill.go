package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	schema "impala_backend/internals/features/forms/form_schema/model"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	locmodel "impala_backend/internals/features/forms/locations/model"
)

// triggerAutoFill menjalankan lookup di background. Hasilnya hanya mengisi
// field yang masih kosong; kegagalan hanya di-log.
func (r *Renderer) triggerAutoFill(key subsvc.LookupKey, value string) {
	if r.deps.AutoFill == nil || !subsvc.ShouldLookup(key, value) {
		return
	}
	r.bg.Add(1)
	go func() {
		defer r.bg.Done()
		// lookup tidak boleh ikut batal saat request HTTP yang memicunya selesai
		ctx, cancel := context.WithTimeout(context.Background(), r.deps.Timeout)
		defer cancel()

		p := r.deps.AutoFill.Lookup(ctx, key, value)
		if len(p) == 0 {
			return
		}
		if hydrate := r.mergeParticipant(key, p); hydrate != nil {
			hydrate(ctx)
		}
		r.persist(ctx)
	}()
}

// mergeParticipant mengisi field kosong dari data peserta. Wilayah diperlakukan
// sebagai satu rantai (lihat mergeLocationChain). Jika rantai wilayah terisi,
// fungsi hydrate untuk opsi wilayahnya dikembalikan.
func (r *Renderer) mergeParticipant(key subsvc.LookupKey, p subsvc.Participant) func(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state != StateReady {
		return nil
	}

	filled := make([]string, 0, len(p))
	for name, v := range p {
		if name == "category" || !r.knownField(name) {
			continue
		}
		if _, isLocation := locmodel.LevelForField(name); isLocation {
			continue
		}
		if r.draft.Value(name) != "" {
			continue
		}
		r.draft.Values[name] = v
		filled = append(filled, name)
	}
	chain := r.mergeLocationChain(p)
	filled = append(filled, chain...)
	r.draft.AutoFilled = append(r.draft.AutoFilled, filled...)

	if r.draft.Category == "" && r.adoptsCategory(key) {
		if c, ok := schema.ParseCategory(p["category"]); ok {
			r.draft.Category = c
		}
	}

	r.deps.Log.WithFields(logrus.Fields{"by": string(key), "filled": len(filled)}).Debug("[AUTOFILL] data peserta digabung")
	if len(chain) == 0 {
		return nil
	}
	return r.cascade.BeginHydrate(r.draft.Values)
}

// mergeLocationChain mengisi wilayah hanya jika provinsi masih kosong, dari
// provinsi ke bawah, dan berhenti di level pertama yang tidak ada di data
// peserta. Dipanggil dengan mu terkunci.
func (r *Renderer) mergeLocationChain(p subsvc.Participant) []string {
	if r.draft.Value(locmodel.LevelProvince.IDField()) != "" {
		return nil
	}
	var filled []string
	broken := false
	for _, l := range locmodel.Levels {
		id := strings.TrimSpace(p[l.IDField()])
		if !broken && id != "" && r.knownField(l.IDField()) {
			r.draft.Values[l.IDField()] = id
			delete(r.draft.Values, l.NameField())
			filled = append(filled, l.IDField())
			continue
		}
		if len(filled) == 0 {
			return nil
		}
		broken = true
		delete(r.draft.Values, l.IDField())
		delete(r.draft.Values, l.NameField())
	}
	return filled
}

func (r *Renderer) adoptsCategory(key subsvc.LookupKey) bool {
	switch r.deps.CategoryMode {
	case AutoFillCategoryBoth:
		return true
	case AutoFillCategoryNone:
		return false
	default:
		return key == subsvc.LookupByEmail
	}
}
