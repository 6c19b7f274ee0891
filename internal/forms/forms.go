// Package forms validates user input before anything is sent to the backend.
// A validation failure never issues a request.
package forms

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/five82/shelf/internal/catalog"
)

// Messages shown for validation failures.
const (
	MsgFillAll          = "Please fill in all fields."
	MsgNameTooShort     = "Name must be at least 2 characters."
	MsgUsernameTooShort = "Username must be at least 4 characters."
	MsgPasswordTooShort = "Password must be at least 6 characters."
	MsgInvalidEmail     = "Invalid email format."
	MsgInvalidCategory  = "Please choose a category."
	MsgInvalidLanguage  = "Please choose a language."
)

// Error is a validation failure with a user-facing message.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("bookcategory", func(fl validator.FieldLevel) bool {
		return catalog.Contains(catalog.BookCategories, fl.Field().String())
	})
	_ = v.RegisterValidation("booklanguage", func(fl validator.FieldLevel) bool {
		return catalog.Contains(catalog.Languages, fl.Field().String())
	})
	return v
}

// Login is the sign-in form.
type Login struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// SignUp is the registration form. Field order is the order checks are
// reported in.
type SignUp struct {
	Name     string `validate:"required,min=2"`
	Username string `validate:"required,min=4"`
	Password string `validate:"required,min=6"`
	Email    string `validate:"required,emailshape"`
}

// Input converts the form into the API payload.
func (s SignUp) Input() catalog.SignUpInput {
	return catalog.SignUpInput{Name: s.Name, Username: s.Username, Email: s.Email, Password: s.Password}
}

// Book is the admin create-book form.
type Book struct {
	CoverURL  string `validate:"required"`
	Title     string `validate:"required"`
	Author    string `validate:"required"`
	Category  string `validate:"required,bookcategory"`
	Language  string `validate:"required,booklanguage"`
	Available bool
}

// Input converts the form into the API payload.
func (b Book) Input() catalog.BookInput {
	return catalog.BookInput{
		CoverURL:  b.CoverURL,
		Title:     b.Title,
		Author:    b.Author,
		Category:  b.Category,
		Language:  b.Language,
		Available: b.Available,
	}
}

// NewBook returns the blank create form: available by default.
func NewBook() Book {
	return Book{Available: true}
}

// ValidateLogin checks the sign-in form.
func ValidateLogin(f Login) error {
	return check(f)
}

// ValidateSignUp checks the registration form.
func ValidateSignUp(f SignUp) error {
	return check(f)
}

// ValidateBook checks the create-book form.
func ValidateBook(f Book) error {
	return check(f)
}

// check runs the struct rules. Any missing field reports MsgFillAll first;
// otherwise the first failing field in declaration order wins.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &Error{Field: fe.Field(), Message: MsgFillAll}
		}
	}
	first := verrs[0]
	return &Error{Field: first.Field(), Message: messageFor(first)}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "emailshape":
		return MsgInvalidEmail
	case "bookcategory":
		return MsgInvalidCategory
	case "booklanguage":
		return MsgInvalidLanguage
	}
	switch fe.Field() {
	case "Name":
		return MsgNameTooShort
	case "Username":
		return MsgUsernameTooShort
	case "Password":
		return MsgPasswordTooShort
	}
	return fe.Error()
}
