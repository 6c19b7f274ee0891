package catalog

import "strings"

// AllBooks is the filter sentinel meaning "no category filter".
const AllBooks = "All Books"

// Categories is the filter list shown in the book list, sentinel first.
var Categories = []string{
	AllBooks,
	"Class 9",
	"Class 10",
	"Class 11",
	"Class 12",
	"Maths",
	"Physics",
	"Chemistry",
	"Biology",
	"Encyclopedia",
	"Reference Book",
	"Dictionary",
	"Hindi Novel",
	"English Novel",
	"Magazines",
	"Others",
}

// BookCategories are the categories offered when creating a book.
var BookCategories = []string{
	"Class 9",
	"Class 10",
	"Class 11",
	"Class 12",
	"Maths",
	"Physics",
	"Chemistry",
	"Biology",
	"Encyclopedia",
	"Reference Book",
	"Dictionary",
	"Others",
}

// Languages are the languages offered when creating a book.
var Languages = []string{"English", "Hindi"}

// IsFilterAll reports whether category means "unfiltered".
func IsFilterAll(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || c == AllBooks
}

// Contains reports whether list holds value exactly.
func Contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// Book mirrors a backend book record.
type Book struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CoverURL  string `json:"url"`
	Category  string `json:"category"`
	Language  string `json:"language"`
	Available bool   `json:"available"`
	AddedBy   string `json:"addedBy,omitempty"`
}

// BookInput is the create-book payload.
type BookInput struct {
	CoverURL  string `json:"url"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Language  string `json:"language"`
	Available bool   `json:"available"`
}

// BookPatch is a partial update; nil fields are left unchanged.
type BookPatch struct {
	CoverURL  *string `json:"url,omitempty"`
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Category  *string `json:"category,omitempty"`
	Language  *string `json:"language,omitempty"`
	Available *bool   `json:"available,omitempty"`
}

// AvailabilityPatch builds a patch that only sets availability.
func AvailabilityPatch(available bool) BookPatch {
	return BookPatch{Available: &available}
}

// SignUpInput is the sign-up payload.
type SignUpInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResult is returned by a successful sign-in.
type SignInResult struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Role  string `json:"role"`
}

const statusSuccess = "Success"

// envelope is the backend's response wrapper.
type envelope[T any] struct {
	Status  string `json:"status"`
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type signInResponse struct {
	SignInResult
	Message string `json:"message"`
}
