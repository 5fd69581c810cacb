package toast

import "github.com/a-h/templ"

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Icon        bool
	Dismissible bool
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-gray-200 bg-white text-gray-900",
	VariantSuccess: "border-green-200 bg-green-50 text-green-900",
	VariantError:   "border-red-200 bg-red-50 text-red-900",
}

var variantIcons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "!",
}

// Error is the common failure toast
func Error(description string) templ.Component {
	return Toast(Props{
		Title:       "Error",
		Description: description,
		Variant:     VariantError,
		Icon:        true,
		Dismissible: true,
	})
}

func Success(title, description string) templ.Component {
	return Toast(Props{
		Title:       title,
		Description: description,
		Variant:     VariantSuccess,
		Icon:        true,
		Dismissible: true,
	})
}
