package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	schema "impala_backend/internals/features/forms/form_schema/model"
)

// TemplateID menerima id berupa string maupun angka dari backend.
type TemplateID string

func (id *TemplateID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TemplateID(strings.TrimSpace(s))
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	*id = TemplateID(b)
	return nil
}

func (id TemplateID) String() string { return string(id) }

// FormTemplate adalah template form milik satu program.
type FormTemplate struct {
	ID                 TemplateID      `json:"id"`
	UniqueSlug         string          `json:"unique_slug,omitempty"`
	Slug               string          `json:"slug,omitempty"`
	ProgramName        string          `json:"program_name"`
	IsPublished        bool            `json:"is_published"`
	WhatsappGroupLink  string          `json:"whatsapp_group_link"`
	AfterSubmitMessage string          `json:"after_submit_message"`
	FormConfig         json.RawMessage `json:"form_config,omitempty"`
	CreatedAt          *time.Time      `json:"created_at,omitempty"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`
}

// PublicSlug adalah segmen URL publik: unique_slug, fallback ke slug.
func (t FormTemplate) PublicSlug() string {
	if s := strings.TrimSpace(t.UniqueSlug); s != "" {
		return s
	}
	return strings.TrimSpace(t.Slug)
}

// Schema mem-parse form_config. Backend kadang menyimpan form_config sebagai
// string JSON, jadi keduanya diterima. Kolom template (program, link WA, pesan)
// mengisi schema yang kosong, lalu struktur dilengkapi WithDefaults.
func (t FormTemplate) Schema() (schema.FormSchema, error) {
	var s schema.FormSchema
	raw := bytes.TrimSpace(t.FormConfig)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := sonic.Unmarshal(raw, &inner); err != nil {
			return schema.FormSchema{}, err
		}
		raw = []byte(inner)
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return schema.FormSchema{}, err
		}
	}
	if s.ProgramName == "" {
		s.ProgramName = t.ProgramName
	}
	if s.Settings.WhatsappGroupLink == "" {
		s.Settings.WhatsappGroupLink = t.WhatsappGroupLink
	}
	if s.Settings.AfterSubmitMessage == "" {
		s.Settings.AfterSubmitMessage = t.AfterSubmitMessage
	}
	return s.WithDefaults(), nil
}
