package service

import (
	"strings"

	schema "impala_backend/internals/features/forms/form_schema/model"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
	"impala_backend/internals/features/forms/form_submissions/model"
)

// SubmissionPayload adalah body POST /impala.
type SubmissionPayload map[string]any

// DisabilityStatusLegacyYes dipakai saat template lama hanya punya is_disability.
const DisabilityStatusLegacyYes = "Penyandang disabilitas"

// personalPayloadFields dikirim untuk semua kategori.
var personalPayloadFields = []string{
	"full_name", "nik", "email", "phone", "gender", "date_of_birth", "education",
	"address", "province_id", "regency_id", "district_id", "village_id",
	"postal_code", "reason",
}

// multiValueFields dikirim sebagai array satu elemen.
var multiValueFields = map[string]bool{
	"certifications":  true,
	"social_media":    true,
	"marketplace":     true,
	"website":         true,
	"core_competency": true,
}

// PrepareSubmissionPayload menyusun payload submit dari draft:
// nama wilayah diambil dari opsi cascade, field kategori hanya untuk kategori
// terpilih, dan semua nilai kosong dibuang.
func PrepareSubmissionPayload(draft model.Draft, category schema.Category, locations locsvc.Snapshot, programName string) SubmissionPayload {
	p := SubmissionPayload{}

	for _, name := range personalPayloadFields {
		p[name] = draft.Value(name)
	}
	for _, level := range locmodel.Levels {
		p[level.NameField()] = locmodel.FindLabel(locations.Options(level), draft.Value(level.IDField()))
	}

	status := disabilityStatus(draft)
	p[schema.FieldDisabilityStatus] = status
	if status != schema.DefaultDisabilityStatus {
		p[schema.FieldDisabilityType] = draft.Value(schema.FieldDisabilityType)
	}

	p["category"] = category.Label()
	p["program_name"] = strings.TrimSpace(programName)

	for _, name := range schema.CategoryFieldNames(category) {
		v := draft.Value(name)
		if multiValueFields[name] {
			if v != "" {
				p[name] = []string{v}
			}
			continue
		}
		p[name] = v
	}

	return stripEmpty(p)
}

func disabilityStatus(d model.Draft) string {
	if s := d.Value(schema.FieldDisabilityStatus); s != "" {
		return s
	}
	if legacy := d.Value(schema.FieldIsDisability); legacy != "" && schema.IndicatesDisability(legacy) {
		return DisabilityStatusLegacyYes
	}
	return schema.DefaultDisabilityStatus
}

func stripEmpty(p SubmissionPayload) SubmissionPayload {
	for k, v := range p {
		switch x := v.(type) {
		case nil:
			delete(p, k)
		case string:
			if strings.TrimSpace(x) == "" {
				delete(p, k)
			}
		case []string:
			if len(x) == 0 {
				delete(p, k)
			}
		}
	}
	return p
}
