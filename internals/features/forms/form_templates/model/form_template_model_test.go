package model

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "impala_backend/internals/features/forms/form_schema/model"
)

func TestFormTemplate_NumericIDAndSlugFallback(t *testing.T) {
	var tpl FormTemplate
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":7,"slug":"beasiswa","program_name":"Beasiswa"}`), &tpl))

	assert.Equal(t, TemplateID("7"), tpl.ID)
	assert.Equal(t, "beasiswa", tpl.PublicSlug())

	tpl.UniqueSlug = "beasiswa-x1y2"
	assert.Equal(t, "beasiswa-x1y2", tpl.PublicSlug())
}

func TestFormTemplate_SchemaFromStringConfig(t *testing.T) {
	raw := `{"id":"a1","program_name":"Beasiswa 2024","whatsapp_group_link":"https://chat.whatsapp.com/x",` +
		`"form_config":"{\"title\":\"Judul Lama\",\"sections\":{}}"}`
	var tpl FormTemplate
	require.NoError(t, sonic.Unmarshal([]byte(raw), &tpl))

	s, err := tpl.Schema()
	require.NoError(t, err)
	assert.Equal(t, "Judul Lama", s.Title)
	assert.Equal(t, "Beasiswa 2024", s.ProgramName)
	assert.Equal(t, "https://chat.whatsapp.com/x", s.Settings.WhatsappGroupLink)
	assert.Equal(t, schema.DefaultAfterSubmitMessage, s.Settings.AfterSubmitMessage)
	assert.NotEmpty(t, s.PersonalFields())
	assert.Len(t, s.Categories, len(schema.CategoryCatalog))
}

func TestFormTemplate_SchemaWithoutConfigFallsBackToDefault(t *testing.T) {
	s, err := FormTemplate{ProgramName: "Pelatihan UMKM"}.Schema()
	require.NoError(t, err)
	assert.Equal(t, schema.TitleFor("Pelatihan UMKM"), s.Title)
}
