package model

// FieldPatch berisi atribut yang ingin diubah; nil berarti tidak diubah.
type FieldPatch struct {
	Label       *string   `json:"label,omitempty"`
	Required    *bool     `json:"required,omitempty"`
	Placeholder *string   `json:"placeholder,omitempty"`
	Options     *[]string `json:"options,omitempty"`
	Locked      *bool     `json:"locked,omitempty"`
	Loading     *bool     `json:"loading,omitempty"`
	Name        *string   `json:"name,omitempty"`
}

func (p FieldPatch) apply(f FieldDefinition) FieldDefinition {
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Required != nil {
		f.Required = *p.Required
	}
	if p.Placeholder != nil {
		f.Placeholder = *p.Placeholder
	}
	if p.Options != nil {
		f.Options = append([]string{}, (*p.Options)...)
	}
	if p.Locked != nil {
		f.Locked = *p.Locked
	}
	if p.Loading != nil {
		f.Loading = *p.Loading
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	return f
}

// UpdateField mengembalikan schema baru dengan atribut field di-merge dangkal.
// sectionKey dicari di sections lalu di categories, karena pemanggil tidak selalu
// tahu field ada di bucket mana. Schema asal tidak diubah.
func (s FormSchema) UpdateField(sectionKey, fieldID string, patch FieldPatch) (FormSchema, error) {
	out := s.Clone()

	if sec, ok := out.Sections[sectionKey]; ok {
		if patchSection(&sec, fieldID, patch) {
			out.Sections[sectionKey] = sec
			return out, nil
		}
	}
	if sec, ok := out.Categories[Category(sectionKey)]; ok {
		if patchSection(&sec, fieldID, patch) {
			out.Categories[Category(sectionKey)] = sec
			return out, nil
		}
	}
	return s, ErrFieldNotFound
}

func patchSection(sec *Section, fieldID string, patch FieldPatch) bool {
	for i, f := range sec.Fields {
		if f.ID == fieldID {
			sec.Fields[i] = patch.apply(f)
			return true
		}
		if f.Reveals != nil && f.Reveals.ID == fieldID {
			child := patch.apply(*f.Reveals)
			sec.Fields[i].Reveals = &child
			return true
		}
	}
	return false
}

// WithProgramOptions mengisi opsi dropdown program_name.
func (s FormSchema) WithProgramOptions(names []string, loading bool) FormSchema {
	out, _ := s.UpdateField(SectionProgramInfo, "program_name", FieldPatch{
		Options: &names,
		Loading: &loading,
	})
	return out
}
