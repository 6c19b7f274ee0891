package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/forms"
)

// textForm is a column of labelled text inputs with one focused field.
type textForm struct {
	labels  []string
	inputs  []textinput.Model
	focus   int
	err     string
	loading bool
}

type field struct {
	label       string
	placeholder string
	secret      bool
}

func newTextForm(fields ...field) textForm {
	f := textForm{}
	for _, fd := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fd.placeholder
		in.CharLimit = 256
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	return f
}

func newLoginForm() textForm {
	return newTextForm(
		field{label: "Email", placeholder: "you@example.com"},
		field{label: "Password", secret: true},
	)
}

func newSignupForm() textForm {
	return newTextForm(
		field{label: "Name"},
		field{label: "Username"},
		field{label: "Email", placeholder: "you@example.com"},
		field{label: "Password", secret: true},
	)
}

// fieldCount is the number of focusable fields.
func (f textForm) fieldCount() int {
	return len(f.inputs)
}

// focusField moves focus to field i, wrapping around.
func (f *textForm) focusField(i int) tea.Cmd {
	n := f.fieldCount()
	if n == 0 {
		return nil
	}
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
			continue
		}
		f.inputs[idx].Blur()
	}
	return cmd
}

// updateInput forwards msg to the focused input.
func (f *textForm) updateInput(msg tea.Msg) tea.Cmd {
	if f.focus < 0 || f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f textForm) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// rawValue is the input exactly as typed. Passwords use it.
func (f textForm) rawValue(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

func (f *textForm) setValue(i int, v string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(v)
	}
}

func (f *textForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.err = ""
	f.loading = false
}

func (f textForm) loginValues() forms.Login {
	return forms.Login{Email: f.value(0), Password: f.rawValue(1)}
}

func (f textForm) signupValues() forms.SignUp {
	return forms.SignUp{Name: f.value(0), Username: f.value(1), Email: f.value(2), Password: f.rawValue(3)}
}

// bookForm is the admin create form: three text fields then category,
// language and availability choosers.
type bookForm struct {
	textForm
	category  int // -1 until chosen
	language  int // -1 until chosen
	available bool
}

const (
	bookFieldCategory = iota + 3
	bookFieldLanguage
	bookFieldAvailable
	bookFieldCount
)

func newBookForm() bookForm {
	defaults := forms.NewBook()
	return bookForm{
		textForm: newTextForm(
			field{label: "Cover URL", placeholder: "https://..."},
			field{label: "Title"},
			field{label: "Author"},
		),
		category:  -1,
		language:  -1,
		available: defaults.Available,
	}
}

func (f bookForm) fieldCount() int {
	return bookFieldCount
}

// focusField moves focus across text inputs and choosers.
func (f *bookForm) focusField(i int) tea.Cmd {
	f.focus = ((i % bookFieldCount) + bookFieldCount) % bookFieldCount
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
			continue
		}
		f.inputs[idx].Blur()
	}
	return cmd
}

// onChooser reports whether focus is on a non-text field.
func (f bookForm) onChooser() bool {
	return f.focus >= len(f.inputs)
}

// cycle changes the focused chooser by delta.
func (f *bookForm) cycle(delta int) {
	switch f.focus {
	case bookFieldCategory:
		f.category = cycleIndex(f.category, delta, len(catalog.BookCategories))
	case bookFieldLanguage:
		f.language = cycleIndex(f.language, delta, len(catalog.Languages))
	case bookFieldAvailable:
		f.available = !f.available
	}
}

func cycleIndex(current, delta, n int) int {
	if current < 0 {
		if delta < 0 {
			return n - 1
		}
		return 0
	}
	return ((current+delta)%n + n) % n
}

func (f bookForm) categoryValue() string {
	if f.category < 0 || f.category >= len(catalog.BookCategories) {
		return ""
	}
	return catalog.BookCategories[f.category]
}

func (f bookForm) languageValue() string {
	if f.language < 0 || f.language >= len(catalog.Languages) {
		return ""
	}
	return catalog.Languages[f.language]
}

func (f bookForm) values() forms.Book {
	return forms.Book{
		CoverURL:  f.value(0),
		Title:     f.value(1),
		Author:    f.value(2),
		Category:  f.categoryValue(),
		Language:  f.languageValue(),
		Available: f.available,
	}
}

func (f *bookForm) reset() {
	f.textForm.reset()
	f.category = -1
	f.language = -1
	f.available = forms.NewBook().Available
}
