package service

import (
	schema "impala_backend/internals/features/forms/form_schema/model"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
)

// Control adalah komponen input hasil dispatch tipe field.
type Control string

const (
	ControlInput    Control = "input"
	ControlSelect   Control = "select"
	ControlTextarea Control = "textarea"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView adalah satu field siap render.
type FieldView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Control     Control  `json:"control"`
	InputType   string   `json:"input_type,omitempty"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Value       string   `json:"value"`
	Options     []Option `json:"options,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Disabled    bool     `json:"disabled,omitempty"`
	Loading     bool     `json:"loading,omitempty"`
}

type CategoryOption struct {
	schema.CategoryMeta
	Selected bool `json:"selected"`
}

// View adalah render tree form publik.
type View struct {
	DraftID            string                  `json:"draft_id"`
	Slug               string                  `json:"slug"`
	State              State                   `json:"state"`
	HasTimeout         bool                    `json:"has_timeout"`
	Error              string                  `json:"error,omitempty"`
	Title              string                  `json:"title,omitempty"`
	ProgramName        string                  `json:"program_name,omitempty"`
	PersonalFields     []FieldView             `json:"personal_fields,omitempty"`
	Categories         []CategoryOption        `json:"categories,omitempty"`
	SelectedCategory   schema.Category         `json:"selected_category,omitempty"`
	CategoryTitle      string                  `json:"category_title,omitempty"`
	CategoryFields     []FieldView             `json:"category_fields,omitempty"`
	TermsAccepted      bool                    `json:"terms_accepted"`
	Submit             SubmitGate              `json:"submit"`
	SubmitError        string                  `json:"submit_error,omitempty"`
	Success            *subsvc.SuccessSnapshot `json:"success,omitempty"`
	AfterSubmitMessage string                  `json:"after_submit_message,omitempty"`
	WhatsappGroupLink  string                  `json:"whatsapp_group_link,omitempty"`
}

// View membangun render tree dari state saat ini.
func (r *Renderer) View() View {
	snap := r.cascade.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		DraftID:    r.draft.ID.String(),
		Slug:       r.slug,
		State:      r.state,
		HasTimeout: r.hasTimeout,
		Error:      r.loadErr,
	}
	if r.state == StateLoading || r.state == StateError {
		return v
	}

	v.Title = r.schema.Title
	v.ProgramName = r.schema.ProgramName
	v.AfterSubmitMessage = r.schema.Settings.AfterSubmitMessage
	v.WhatsappGroupLink = r.schema.Settings.WhatsappGroupLink

	if r.state == StateSuccess {
		if r.success != nil {
			s := *r.success
			v.Success = &s
		}
		return v
	}

	values := r.draft.Values
	for _, f := range r.schema.PersonalFields() {
		v.PersonalFields = append(v.PersonalFields, fieldView(f, values, snap))
		if f.Reveals != nil && schema.IndicatesDisability(values[f.FieldName()]) {
			v.PersonalFields = append(v.PersonalFields, fieldView(*f.Reveals, values, snap))
		}
	}

	for _, meta := range schema.CategoryCatalog {
		v.Categories = append(v.Categories, CategoryOption{CategoryMeta: meta, Selected: meta.Key == r.draft.Category})
	}
	if sec, ok := r.schema.Categories[r.draft.Category]; ok {
		v.SelectedCategory = r.draft.Category
		v.CategoryTitle = sec.Title
		for _, f := range sec.Fields {
			v.CategoryFields = append(v.CategoryFields, fieldView(f, values, snap))
		}
	}

	v.TermsAccepted = r.draft.TermsAccepted
	v.Submit = computeGate(r.schema, r.draft)
	v.SubmitError = r.submitError
	if r.state == StateSubmitting {
		v.Submit.Disabled = true
	}
	return v
}

// fieldView memilih komponen murni dari type; tipe tak dikenal jadi input teks.
func fieldView(f schema.FieldDefinition, values map[string]string, snap locsvc.Snapshot) FieldView {
	name := f.FieldName()
	fv := FieldView{
		ID:          f.ID,
		Name:        name,
		Label:       f.Label,
		Required:    f.Required,
		Placeholder: f.Placeholder,
		Value:       values[name],
		Loading:     f.Loading,
	}

	switch f.Type {
	case schema.FieldText:
		fv.Control, fv.InputType = ControlInput, "text"
	case schema.FieldEmail:
		fv.Control, fv.InputType = ControlInput, "email"
	case schema.FieldPhone:
		fv.Control, fv.InputType = ControlInput, "tel"
	case schema.FieldNumber:
		fv.Control, fv.InputType = ControlInput, "number"
		fv.Min, fv.Max = f.Min, f.Max
	case schema.FieldDate:
		fv.Control, fv.InputType = ControlInput, "date"
	case schema.FieldTextarea:
		fv.Control = ControlTextarea
	case schema.FieldSelect, schema.FieldProgramDropdown:
		fv.Control = ControlSelect
		fv.Options = selectOptions(f.Label, f.Options)
	default:
		fv.Control, fv.InputType = ControlInput, "text"
	}

	if level, ok := locmodel.LevelForField(name); ok {
		fv.Control, fv.InputType = ControlSelect, ""
		fv.Options = locationOptions(f.Label, snap.Options(level))
		fv.Loading = snap.Loading[level.String()]
		parentEmpty := false
		if level != locmodel.LevelProvince {
			parent := locmodel.Levels[level-1]
			parentEmpty = values[parent.IDField()] == ""
		}
		fv.Disabled = fv.Loading || parentEmpty
	}
	return fv
}

func selectOptions(label string, opts []string) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, Option{Value: "", Label: "Pilih " + label})
	for _, o := range opts {
		out = append(out, Option{Value: o, Label: o})
	}
	return out
}

func locationOptions(label string, nodes []locmodel.LocationNode) []Option {
	out := make([]Option, 0, len(nodes)+1)
	out = append(out, Option{Value: "", Label: "Pilih " + label})
	for _, n := range nodes {
		out = append(out, Option{Value: n.Value, Label: n.Label})
	}
	return out
}
