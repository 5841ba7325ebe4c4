package model

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	schema "impala_backend/internals/features/forms/form_schema/model"
)

// Status draft di tabel form_drafts.
const (
	DraftStatusOpen      = "open"
	DraftStatusSubmitted = "submitted"
)

// Draft adalah isian form publik yang belum (atau sudah) dikirim.
// Values memakai nama field sebagai key; nilai disimpan apa adanya.
type Draft struct {
	ID            uuid.UUID         `json:"id"`
	Slug          string            `json:"slug"`
	ProgramName   string            `json:"program_name"`
	Values        map[string]string `json:"values"`
	Category      schema.Category   `json:"category,omitempty"`
	TermsAccepted bool              `json:"terms_accepted"`
	AutoFilled    []string          `json:"auto_filled,omitempty"`
	Status        string            `json:"status"`
	SubmissionID  string            `json:"submission_id,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func NewDraft(slug, programName string) Draft {
	return Draft{
		ID:          uuid.New(),
		Slug:        slug,
		ProgramName: programName,
		Values:      map[string]string{},
		Status:      DraftStatusOpen,
	}
}

// Value mengembalikan nilai field yang sudah di-trim.
func (d Draft) Value(name string) string {
	return strings.TrimSpace(d.Values[name])
}

// Clone menyalin map dan slice supaya aman dipakai di goroutine lain.
func (d Draft) Clone() Draft {
	cp := d
	cp.Values = make(map[string]string, len(d.Values))
	for k, v := range d.Values {
		cp.Values[k] = v
	}
	cp.AutoFilled = append([]string(nil), d.AutoFilled...)
	return cp
}

// FormDraftModel: tabel form_drafts
type FormDraftModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string         `gorm:"type:varchar(160);not null;index" json:"slug"`
	ProgramName   string         `gorm:"type:varchar(255)" json:"program_name"`
	Values        datatypes.JSON `gorm:"column:form_values;type:jsonb;not null;default:'{}'" json:"values"`
	Category      string         `gorm:"type:varchar(32)" json:"category"`
	TermsAccepted bool           `gorm:"not null;default:false" json:"terms_accepted"`
	AutoFilled    pq.StringArray `gorm:"type:text[]" json:"auto_filled"`
	Status        string         `gorm:"type:varchar(16);not null;default:'open';index" json:"status"`
	SubmissionID  string         `gorm:"type:varchar(64)" json:"submission_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;index" json:"updated_at"`
}

func (FormDraftModel) TableName() string { return "form_drafts" }

func FromDraft(d Draft) (FormDraftModel, error) {
	values := d.Values
	if values == nil {
		values = map[string]string{}
	}
	raw, err := sonic.Marshal(values)
	if err != nil {
		return FormDraftModel{}, err
	}
	return FormDraftModel{
		ID:            d.ID,
		Slug:          d.Slug,
		ProgramName:   d.ProgramName,
		Values:        datatypes.JSON(raw),
		Category:      string(d.Category),
		TermsAccepted: d.TermsAccepted,
		AutoFilled:    pq.StringArray(d.AutoFilled),
		Status:        d.Status,
		SubmissionID:  d.SubmissionID,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func (m FormDraftModel) ToDraft() (Draft, error) {
	values := map[string]string{}
	if len(m.Values) > 0 {
		if err := sonic.Unmarshal(m.Values, &values); err != nil {
			return Draft{}, err
		}
	}
	return Draft{
		ID:            m.ID,
		Slug:          m.Slug,
		ProgramName:   m.ProgramName,
		Values:        values,
		Category:      schema.Category(m.Category),
		TermsAccepted: m.TermsAccepted,
		AutoFilled:    []string(m.AutoFilled),
		Status:        m.Status,
		SubmissionID:  m.SubmissionID,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}
