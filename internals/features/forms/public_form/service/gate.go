package service

import (
	"strings"

	schema "impala_backend/internals/features/forms/form_schema/model"
	submodel "impala_backend/internals/features/forms/form_submissions/model"
)

const (
	TooltipNoCategory = "Pilih kategori pendaftar terlebih dahulu"
	TooltipNoTerms    = "Setujui syarat dan ketentuan terlebih dahulu"
	tooltipMissing    = "Lengkapi field wajib: "
)

// SubmitGate adalah status tombol kirim.
type SubmitGate struct {
	Disabled bool     `json:"disabled"`
	Tooltip  string   `json:"tooltip,omitempty"`
	Missing  []string `json:"missing,omitempty"`
}

// computeGate: tombol mati jika belum pilih kategori, belum setuju syarat,
// atau ada field wajib yang kosong/whitespace.
func computeGate(s schema.FormSchema, d submodel.Draft) SubmitGate {
	var missing []string
	for _, name := range schema.RequiredSubmitFields {
		if d.Value(name) == "" {
			missing = append(missing, name)
		}
	}

	switch {
	case d.Category == "":
		return SubmitGate{Disabled: true, Tooltip: TooltipNoCategory, Missing: missing}
	case !d.TermsAccepted:
		return SubmitGate{Disabled: true, Tooltip: TooltipNoTerms, Missing: missing}
	case len(missing) > 0:
		return SubmitGate{Disabled: true, Tooltip: tooltipMissing + strings.Join(labelsFor(s, missing), ", "), Missing: missing}
	}
	return SubmitGate{}
}

func labelsFor(s schema.FormSchema, names []string) []string {
	labels := make(map[string]string)
	for _, f := range s.PersonalFields() {
		labels[f.FieldName()] = f.Label
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if l := labels[n]; l != "" {
			out = append(out, l)
			continue
		}
		out = append(out, n)
	}
	return out
}
