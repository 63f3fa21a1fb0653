package tui

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// validate checks request structs against their `validate` tags. Field names
// in errors are the JSON names so they can be mapped to labels.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldLabels = map[string]string{
	"email":     "Email",
	"password":  "Password",
	"nim":       "NIM",
	"fakultas":  "Fakultas",
	"no_hp":     "No. HP",
	"nama":      "Nama",
	"alasan":    "Alasan",
	"deskripsi": "Deskripsi",
	"judul":     "Judul",
	"gambar":    "URL gambar",
	"link":      "Tautan",
	"urutan":    "Urutan",
	"produk_id": "Produk",
}

// validationMessage turns the first validation failure into a sentence.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " wajib diisi"
	case "email":
		return label + " harus alamat email yang valid"
	case "min":
		return fmt.Sprintf("%s minimal %s karakter", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s maksimal %s karakter", label, fe.Param())
	case "numeric":
		return label + " hanya boleh berisi angka"
	case "url":
		return label + " harus berupa URL"
	default:
		return label + " tidak valid"
	}
}

// formField is one input of a form. Fields with options are pickers cycled
// with left/right instead of typed into.
type formField struct {
	key         string
	label       string
	value       string
	placeholder string
	secret      bool
	options     []string
}

// form is a small vertical form: tab/shift+tab move focus, ctrl+s or enter
// on the last field submits.
type form struct {
	fields []formField
	focus  int
	err    string
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

// update applies a key press. submit is true when the user asked to send.
func (f form) update(key string) (form, bool) {
	f.err = ""
	cur := &f.fields[f.focus]
	switch key {
	case "ctrl+s":
		return f, true
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f, true
		}
		f.focus++
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "left", "right", "h", "l":
		if len(cur.options) > 0 {
			cur.value = cycle(cur.options, cur.value, key == "right" || key == "l")
			return f, false
		}
		cur.value = editRune(cur.value, key)
	default:
		if len(cur.options) == 0 {
			cur.value = editRune(cur.value, key)
		}
	}
	return f, false
}

func cycle(options []string, current string, forward bool) string {
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if forward {
		return options[(idx+1)%len(options)]
	}
	if idx <= 0 {
		return options[len(options)-1]
	}
	return options[idx-1]
}

// value returns the trimmed value of the field named key.
func (f form) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.value)
		}
	}
	return ""
}

func (f form) view() string {
	var b strings.Builder
	width := 0
	for _, fld := range f.fields {
		width = max(width, len(fld.label))
	}
	for i, fld := range f.fields {
		cursor := "  "
		labelStyle := metaStyle
		if i == f.focus {
			cursor = accentStyle.Render("▸") + " "
			labelStyle = selectedStyle
		}
		label := labelStyle.Render(fmt.Sprintf("%-*s", width, fld.label))
		var input string
		if len(fld.options) > 0 {
			v := fld.value
			if v == "" {
				v = "pilih"
			}
			input = dimStyle.Render("‹ ") + normalStyle.Render(v) + dimStyle.Render(" ›")
		} else {
			input = renderInput(fld.value, fld.placeholder, i == f.focus, fld.secret)
		}
		fmt.Fprintf(&b, " %s%s  %s\n", cursor, label, input)
	}
	if f.err != "" {
		b.WriteString("\n " + errorStyle.Render(f.err) + "\n")
	}
	return b.String()
}
