package view

import (
	"html/template"
	"io"
	"strconv"

	"impala_backend/internals/features/forms/public_form/service"
)

var funcs = template.FuncMap{
	"deref": func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	},
}

var page = template.Must(template.Must(template.New("layout").Funcs(funcs).Parse(Layout)).Parse(Form))

// Render menulis halaman HTML lengkap untuk v.
func Render(w io.Writer, v service.View) error {
	return page.ExecuteTemplate(w, "layout", v)
}
