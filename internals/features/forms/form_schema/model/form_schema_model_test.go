package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldIDs(fields []FieldDefinition) []string {
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestGetDefaultSchema_FixedSkeleton(t *testing.T) {
	s := GetDefaultSchema()

	assert.Equal(t, "", s.ProgramName)
	program := s.Sections[SectionProgramInfo].Fields
	require.Len(t, program, 1)
	assert.Equal(t, "program_name", program[0].ID)
	assert.Equal(t, FieldProgramDropdown, program[0].Type)
	assert.Empty(t, program[0].Options)
	assert.False(t, program[0].Loading)

	assert.Equal(t, []string{
		"full_name", "nik", "email", "phone", "gender", "date_of_birth", "education",
		"disability_status", "address", "province_id", "regency_id", "district_id",
		"village_id", "postal_code", "reason",
	}, fieldIDs(s.PersonalFields()))

	status, ok := s.Sections[SectionPersonalInfo].Find(FieldDisabilityStatus)
	require.True(t, ok)
	require.NotNil(t, status.Reveals)
	assert.Equal(t, FieldDisabilityType, status.Reveals.ID)

	assert.Len(t, s.Categories, 5)
	for _, m := range CategoryCatalog {
		sec, ok := s.Categories[m.Key]
		require.True(t, ok, m.Key)
		assert.Equal(t, m.Label, sec.Title)
		assert.NotEmpty(t, sec.Fields)
	}
	assert.Equal(t, DefaultAfterSubmitMessage, s.Settings.AfterSubmitMessage)
}

func TestUpdateField_SearchesSectionsAndCategories(t *testing.T) {
	s := GetDefaultSchema()
	label := "Nama Lengkap (sesuai KTP)"
	req := false

	updated, err := s.UpdateField(SectionPersonalInfo, "full_name", FieldPatch{Label: &label})
	require.NoError(t, err)
	f, _ := updated.Sections[SectionPersonalInfo].Find("full_name")
	assert.Equal(t, label, f.Label)
	assert.True(t, f.Required, "atribut lain tidak berubah")

	updated, err = updated.UpdateField("umkm", "business_name", FieldPatch{Required: &req})
	require.NoError(t, err)
	f, _ = updated.Categories[CategoryUMKM].Find("business_name")
	assert.False(t, f.Required)

	// schema asal tidak ikut berubah
	orig, _ := s.Sections[SectionPersonalInfo].Find("full_name")
	assert.Equal(t, "Nama Lengkap", orig.Label)
	origBiz, _ := s.Categories[CategoryUMKM].Find("business_name")
	assert.True(t, origBiz.Required)
}

func TestUpdateField_RevealedChild(t *testing.T) {
	label := "Jenis Disabilitas yang Dimiliki"
	updated, err := GetDefaultSchema().UpdateField(SectionPersonalInfo, FieldDisabilityType, FieldPatch{Label: &label})
	require.NoError(t, err)

	f, ok := updated.Sections[SectionPersonalInfo].Find(FieldDisabilityType)
	require.True(t, ok)
	assert.Equal(t, label, f.Label)
}

func TestUpdateField_UnknownField(t *testing.T) {
	s := GetDefaultSchema()
	out, err := s.UpdateField("umkm", "institution", FieldPatch{})
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.Equal(t, s, out)
}

func TestWithProgramOptions(t *testing.T) {
	s := GetDefaultSchema().WithProgramOptions([]string{"Beasiswa 2024", "Inkubasi"}, false)
	f, _ := s.Sections[SectionProgramInfo].Find("program_name")
	assert.Equal(t, []string{"Beasiswa 2024", "Inkubasi"}, f.Options)
}

func TestWithDefaults_LegacyConfig(t *testing.T) {
	raw := `{
		"programName": "Inkubasi",
		"sections": {
			"personalInfo": {"title": "Data Diri", "fields": [
				{"id": "full_name", "type": "text", "label": "Nama"},
				{"id": "is_disability", "type": "select", "label": "Disabilitas?", "options": ["Ya", "Tidak"]},
				{"id": "disability_type", "type": "select", "label": "Jenis"}
			]}
		},
		"settings": {}
	}`
	var s FormSchema
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	out := s.WithDefaults()

	assert.Equal(t, "Pendaftaran Program Inkubasi", out.Title)
	assert.Equal(t, []string{"full_name", "is_disability"}, fieldIDs(out.PersonalFields()))
	trigger, _ := out.Sections[SectionPersonalInfo].Find(FieldIsDisability)
	require.NotNil(t, trigger.Reveals)
	assert.Len(t, out.Categories, 5)
	assert.Len(t, out.Sections[SectionProgramInfo].Fields, 1)
	assert.Equal(t, DefaultAfterSubmitMessage, out.Settings.AfterSubmitMessage)
}

func TestIndicatesDisability(t *testing.T) {
	for _, v := range []string{"", "  ", DefaultDisabilityStatus, "tidak", "Tidak"} {
		assert.False(t, IndicatesDisability(v), v)
	}
	for _, v := range []string{"Penyandang disabilitas", "Lainnya", "Ya", "yes"} {
		assert.True(t, IndicatesDisability(v), v)
	}
}

func TestParseCategoryAndFieldNames(t *testing.T) {
	c, ok := ParseCategory("UMKM")
	assert.True(t, ok)
	assert.Equal(t, CategoryUMKM, c)
	_, ok = ParseCategory("pelajar")
	assert.False(t, ok)

	assert.Contains(t, CategoryFieldNames(CategoryMahasiswa), "institution")
	assert.NotContains(t, CategoryFieldNames(CategoryMahasiswa), "business_name")
	assert.Nil(t, CategoryFieldNames("lainnya"))
}
