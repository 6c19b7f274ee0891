package devserver

import "github.com/five82/shelf/internal/catalog"

// sampleBooks is a small catalog for local development.
var sampleBooks = []catalog.BookInput{
	{Title: "Concepts of Physics Vol. 1", Author: "H C Verma", Category: "Physics", Language: "English", Available: true},
	{Title: "Mathematics Textbook for Class 10", Author: "NCERT", Category: "Class 10", Language: "English", Available: true},
	{Title: "Organic Chemistry", Author: "Morrison & Boyd", Category: "Chemistry", Language: "English", Available: false},
	{Title: "Trueman's Elementary Biology", Author: "K N Bhatia", Category: "Biology", Language: "English", Available: true},
	{Title: "Britannica Concise Encyclopedia", Author: "Encyclopaedia Britannica", Category: "Encyclopedia", Language: "English", Available: true},
	{Title: "Oxford Advanced Learner's Dictionary", Author: "A S Hornby", Category: "Dictionary", Language: "English", Available: true},
	{Title: "Godan", Author: "Munshi Premchand", Category: "Others", Language: "Hindi", Available: true},
	{Title: "Wings of Fire", Author: "A P J Abdul Kalam", Category: "Others", Language: "English", Available: false},
}

// Seed loads the sample catalog and a default admin account.
func (s *Server) Seed(adminEmail, adminPassword string) error {
	for _, b := range sampleBooks {
		in := b
		in.CoverURL = "https://covers.example.invalid/" + slug(b.Title) + ".jpg"
		s.AddBook(in)
	}
	if adminEmail == "" {
		return nil
	}
	_, err := s.AddUser(catalog.SignUpInput{
		Name:     "Librarian",
		Username: "librarian",
		Email:    adminEmail,
		Password: adminPassword,
	}, roleAdmin)
	return err
}

func slug(title string) string {
	out := make([]rune, 0, len(title))
	dash := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		case !dash && len(out) > 0:
			out = append(out, '-')
			dash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
