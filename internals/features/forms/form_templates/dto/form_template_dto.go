package dto

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"

	schema "impala_backend/internals/features/forms/form_schema/model"
)

// TemplateRequest: body POST /form-templates dan PUT /form-templates/:id
type TemplateRequest struct {
	ProgramName        string            `json:"program_name"`
	FormConfig         schema.FormSchema `json:"form_config"`
	WhatsappGroupLink  string            `json:"whatsapp_group_link"`
	AfterSubmitMessage string            `json:"after_submit_message"`
}

func NewTemplateRequest(s schema.FormSchema) TemplateRequest {
	return TemplateRequest{
		ProgramName:        strings.TrimSpace(s.ProgramName),
		FormConfig:         s,
		WhatsappGroupLink:  strings.TrimSpace(s.Settings.WhatsappGroupLink),
		AfterSubmitMessage: s.Settings.AfterSubmitMessage,
	}
}

// PublishInput divalidasi sebelum request apa pun dikirim.
type PublishInput struct {
	ProgramName       string `json:"program_name" validate:"required"`
	WhatsappGroupLink string `json:"whatsapp_group_link" validate:"omitempty,startswith=https://"`
}

func NewPublishInput(s schema.FormSchema) PublishInput {
	return PublishInput{
		ProgramName:       strings.TrimSpace(s.ProgramName),
		WhatsappGroupLink: strings.TrimSpace(s.Settings.WhatsappGroupLink),
	}
}

// ProgramOption adalah item dari /form-builder/program-name.
// Backend mengirim string atau objek {program_name}.
type ProgramOption struct {
	ProgramName string `json:"program_name"`
}

func (p *ProgramOption) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		p.ProgramName = strings.TrimSpace(s)
		return nil
	}
	var obj struct {
		ProgramName string `json:"program_name"`
	}
	if err := sonic.Unmarshal(b, &obj); err != nil {
		return err
	}
	p.ProgramName = strings.TrimSpace(obj.ProgramName)
	return nil
}

/* ===== Request admin builder ===== */

type SelectProgramRequest struct {
	ProgramName string `json:"program_name" validate:"required"`
}

type UpdateSettingsRequest struct {
	WhatsappGroupLink  *string `json:"whatsappGroupLink"`
	AfterSubmitMessage *string `json:"afterSubmitMessage"`
}

type UpdateFieldRequest struct {
	Section string            `json:"section" validate:"required"`
	FieldID string            `json:"field_id" validate:"required"`
	Patch   schema.FieldPatch `json:"patch"`
}

// Submission adalah satu baris pendaftar dari GET /impala.
type Submission map[string]any
