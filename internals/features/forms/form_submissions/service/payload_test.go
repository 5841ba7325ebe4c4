package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "impala_backend/internals/features/forms/form_schema/model"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
	"impala_backend/internals/features/forms/form_submissions/model"
)

func filledDraft() model.Draft {
	d := model.NewDraft("beasiswa-2024", "Beasiswa 2024")
	for k, v := range map[string]string{
		"full_name":     "Siti Aminah",
		"email":         "siti@contoh.id",
		"phone":         "081234567890",
		"gender":        "Perempuan",
		"date_of_birth": "2001-04-12",
		"education":     "S1",
		"address":       "Jl. Merdeka 1",
		"province_id":   "32",
		"regency_id":    "3273",
		"district_id":   "3273010",
		"village_id":    "3273010001",
		"postal_code":   "40151",
	} {
		d.Values[k] = v
	}
	return d
}

func snapshot() locsvc.Snapshot {
	return locsvc.Snapshot{
		Provinces: []locmodel.LocationNode{{Value: "32", Label: "JAWA BARAT"}},
		Regencies: []locmodel.LocationNode{{Value: "3273", Label: "KOTA BANDUNG"}},
		Districts: []locmodel.LocationNode{{Value: "3273010", Label: "SUKASARI"}},
		Villages:  []locmodel.LocationNode{{Value: "3273010001", Label: "SARIJADI"}},
	}
}

// every category sets its first field so exclusivity can be checked both ways
func withAllCategoryValues(d model.Draft) model.Draft {
	for _, meta := range schema.CategoryCatalog {
		for _, name := range schema.CategoryFieldNames(meta.Key) {
			d.Values[name] = "isi-" + name
		}
	}
	return d
}

func TestPrepare_MahasiswaScenario(t *testing.T) {
	d := filledDraft()
	d.Values["institution"] = "UI"
	d.Values["major"] = "CS"
	d.Values["business_name"] = "Warung Siti"

	p := PrepareSubmissionPayload(d, schema.CategoryMahasiswa, snapshot(), "Beasiswa 2024")

	assert.Equal(t, "UI", p["institution"])
	assert.Equal(t, "CS", p["major"])
	assert.Equal(t, "Mahasiswa", p["category"])
	assert.Equal(t, "Beasiswa 2024", p["program_name"])
	assert.NotContains(t, p, "business_name")
	assert.Equal(t, "JAWA BARAT", p["province_name"])
	assert.Equal(t, "SARIJADI", p["village_name"])
}

func TestPrepare_DefaultDisabilityDropsType(t *testing.T) {
	d := filledDraft()
	d.Values["disability_status"] = schema.DefaultDisabilityStatus
	d.Values["disability_type"] = "Disabilitas Fisik"

	p := PrepareSubmissionPayload(d, schema.CategoryUmum, snapshot(), "Beasiswa 2024")

	assert.Equal(t, schema.DefaultDisabilityStatus, p["disability_status"])
	assert.NotContains(t, p, "disability_type")
}

func TestPrepare_MissingDisabilityStatusDefaults(t *testing.T) {
	d := filledDraft()
	d.Values["disability_type"] = "Disabilitas Fisik"

	p := PrepareSubmissionPayload(d, schema.CategoryUmum, snapshot(), "X")

	assert.Equal(t, schema.DefaultDisabilityStatus, p["disability_status"])
	assert.NotContains(t, p, "disability_type")
}

func TestPrepare_DisabilityTypeKeptWhenIndicated(t *testing.T) {
	d := filledDraft()
	d.Values["disability_status"] = "Penyandang disabilitas"
	d.Values["disability_type"] = "Disabilitas Fisik"

	p := PrepareSubmissionPayload(d, schema.CategoryUmum, snapshot(), "X")
	assert.Equal(t, "Disabilitas Fisik", p["disability_type"])
}

func TestPrepare_LegacyIsDisability(t *testing.T) {
	d := filledDraft()
	d.Values["is_disability"] = "Ya"
	d.Values["disability_type"] = "Disabilitas Mental"

	p := PrepareSubmissionPayload(d, schema.CategoryUmum, snapshot(), "X")
	assert.Equal(t, DisabilityStatusLegacyYes, p["disability_status"])
	assert.Equal(t, "Disabilitas Mental", p["disability_type"])
}

func TestPrepare_CategoryFieldsAreMutuallyExclusive(t *testing.T) {
	d := withAllCategoryValues(filledDraft())

	for _, meta := range schema.CategoryCatalog {
		p := PrepareSubmissionPayload(d, meta.Key, snapshot(), "X")
		for _, other := range schema.CategoryCatalog {
			for _, name := range schema.CategoryFieldNames(other.Key) {
				if other.Key == meta.Key {
					assert.Contains(t, p, name, "%s harus ada untuk %s", name, meta.Key)
				} else {
					assert.NotContains(t, p, name, "%s bocor ke %s", name, meta.Key)
				}
			}
		}
		assert.Equal(t, meta.Label, p["category"])
	}
}

func TestPrepare_UMKMNeverCarriesOtherCategoryKeys(t *testing.T) {
	p := PrepareSubmissionPayload(withAllCategoryValues(filledDraft()), schema.CategoryUMKM, snapshot(), "X")
	for _, k := range []string{"institution", "workplace", "community_name", "areas_interest"} {
		assert.NotContains(t, p, k)
	}
}

func TestPrepare_MultiValueFieldsWrapped(t *testing.T) {
	d := filledDraft()
	d.Values["business_name"] = "Warung"
	d.Values["marketplace"] = "Tokopedia"
	d.Values["website"] = ""

	p := PrepareSubmissionPayload(d, schema.CategoryUMKM, snapshot(), "X")

	assert.Equal(t, []string{"Tokopedia"}, p["marketplace"])
	assert.NotContains(t, p, "website")
	assert.NotContains(t, p, "social_media")
}

func TestPrepare_NeverContainsEmptyValues(t *testing.T) {
	d := model.NewDraft("s", "P")
	d.Values["full_name"] = "   "
	d.Values["province_id"] = "99" // tidak ada di opsi

	p := PrepareSubmissionPayload(d, schema.CategoryProfesional, locsvc.Snapshot{}, "P")

	for k, v := range p {
		switch x := v.(type) {
		case string:
			assert.NotEmpty(t, x, k)
		case []string:
			assert.NotEmpty(t, x, k)
		default:
			require.NotNil(t, v, k)
		}
	}
	assert.NotContains(t, p, "province_name")
	assert.NotContains(t, p, "full_name")
	assert.Equal(t, "Profesional", p["category"])
}
