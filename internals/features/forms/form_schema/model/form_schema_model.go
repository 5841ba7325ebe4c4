package model

import (
	"errors"
	"strings"
)

// FieldType menentukan komponen input yang dirender untuk sebuah field.
type FieldType string

const (
	FieldText            FieldType = "text"
	FieldEmail           FieldType = "email"
	FieldPhone           FieldType = "phone"
	FieldNumber          FieldType = "number"
	FieldSelect          FieldType = "select"
	FieldTextarea        FieldType = "textarea"
	FieldDate            FieldType = "date"
	FieldProgramDropdown FieldType = "program_dropdown"
)

const (
	SectionProgramInfo  = "programInfo"
	SectionPersonalInfo = "personalInfo"
)

var ErrFieldNotFound = errors.New("field tidak ditemukan di section maupun kategori")

// FieldDefinition adalah satu field pada form config.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Name        string    `json:"name,omitempty"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options"`
	// Locked hanya petunjuk UI, tidak membatasi logic apa pun.
	Locked  bool     `json:"locked,omitempty"`
	Loading bool     `json:"loading,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	// Reveals adalah field anak yang hanya tampil (dan hanya dikirim) ketika
	// jawaban field ini menandakan kondisinya terpenuhi.
	Reveals *FieldDefinition `json:"reveals,omitempty"`
}

// FieldName adalah key penyimpanan nilai di draft; fallback ke ID.
func (f FieldDefinition) FieldName() string {
	if n := strings.TrimSpace(f.Name); n != "" {
		return n
	}
	return f.ID
}

func (f FieldDefinition) clone() FieldDefinition {
	cp := f
	if f.Options != nil {
		cp.Options = append([]string{}, f.Options...)
	}
	if f.Min != nil {
		v := *f.Min
		cp.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		cp.Max = &v
	}
	if f.Reveals != nil {
		child := f.Reveals.clone()
		cp.Reveals = &child
	}
	return cp
}

// Section dipakai untuk section tetap (programInfo, personalInfo) dan kategori.
type Section struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Locked      bool              `json:"locked"`
	Fields      []FieldDefinition `json:"fields"`
}

func (s Section) clone() Section {
	cp := s
	cp.Fields = make([]FieldDefinition, len(s.Fields))
	for i, f := range s.Fields {
		cp.Fields[i] = f.clone()
	}
	return cp
}

// Find mencari field berdasarkan ID, termasuk field anak (Reveals).
func (s Section) Find(fieldID string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.ID == fieldID {
			return f, true
		}
		if f.Reveals != nil && f.Reveals.ID == fieldID {
			return *f.Reveals, true
		}
	}
	return FieldDefinition{}, false
}

type Settings struct {
	WhatsappGroupLink  string `json:"whatsappGroupLink"`
	AfterSubmitMessage string `json:"afterSubmitMessage"`
}

// FormSchema adalah isi `form_config` sebuah template.
type FormSchema struct {
	ProgramName string               `json:"programName"`
	Title       string               `json:"title"`
	Sections    map[string]Section   `json:"sections"`
	Categories  map[Category]Section `json:"categories"`
	Settings    Settings             `json:"settings"`
}

// Clone membuat salinan dalam; schema hasil UpdateField tidak berbagi slice/map
// dengan schema asal.
func (s FormSchema) Clone() FormSchema {
	cp := s
	cp.Sections = make(map[string]Section, len(s.Sections))
	for k, sec := range s.Sections {
		cp.Sections[k] = sec.clone()
	}
	cp.Categories = make(map[Category]Section, len(s.Categories))
	for k, sec := range s.Categories {
		cp.Categories[k] = sec.clone()
	}
	return cp
}

// Section mencari di sections lalu di categories.
func (s FormSchema) Section(key string) (Section, bool) {
	if sec, ok := s.Sections[key]; ok {
		return sec, true
	}
	sec, ok := s.Categories[Category(key)]
	return sec, ok
}

// PersonalFields mengembalikan field data diri sesuai urutan tetap.
func (s FormSchema) PersonalFields() []FieldDefinition {
	return s.Sections[SectionPersonalInfo].Fields
}

// TitleFor membentuk judul form dari nama program.
func TitleFor(programName string) string {
	return "Pendaftaran Program " + strings.TrimSpace(programName)
}
