package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/shelf/internal/catalog"
)

var (
	errBookNotFound  = errors.New("book not found")
	errUserExists    = errors.New("user already exists")
	errBadCredential = errors.New("invalid email or password")
)

// recentLimit is how many books get-recent-books returns.
const recentLimit = 8

type bookRecord struct {
	catalog.Book
	addedAt time.Time
}

type userRecord struct {
	ID       string
	Name     string
	Username string
	Email    string
	Hash     []byte
	Role     string
}

// library is the in-memory book and account store.
type library struct {
	mu    sync.RWMutex
	now   func() time.Time
	books map[string]bookRecord
	users map[string]userRecord // by lower-cased email
}

func newLibrary(now func() time.Time) *library {
	return &library{
		now:   now,
		books: make(map[string]bookRecord),
		users: make(map[string]userRecord),
	}
}

// list returns books oldest first, filtered by category when given.
func (l *library) list(category string) []catalog.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := make([]bookRecord, 0, len(l.books))
	for _, b := range l.books {
		if category != "" && b.Category != category {
			continue
		}
		records = append(records, b)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].addedAt.Equal(records[j].addedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].addedAt.Before(records[j].addedAt)
	})
	out := make([]catalog.Book, len(records))
	for i, r := range records {
		out[i] = r.Book
	}
	return out
}

// recent returns the newest books, newest first.
func (l *library) recent() []catalog.Book {
	all := l.list("")
	out := make([]catalog.Book, 0, recentLimit)
	for i := len(all) - 1; i >= 0 && len(out) < recentLimit; i-- {
		out = append(out, all[i])
	}
	return out
}

func (l *library) get(id string) (catalog.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.books[id]
	if !ok {
		return catalog.Book{}, errors.Wrapf(errBookNotFound, "id %s", id)
	}
	return b.Book, nil
}

func (l *library) add(in catalog.BookInput, addedBy string) catalog.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := catalog.Book{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Author:    in.Author,
		CoverURL:  in.CoverURL,
		Category:  in.Category,
		Language:  in.Language,
		Available: in.Available,
		AddedBy:   addedBy,
	}
	l.books[b.ID] = bookRecord{Book: b, addedAt: l.now()}
	return b
}

func (l *library) update(id string, patch catalog.BookPatch) (catalog.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.books[id]
	if !ok {
		return catalog.Book{}, errors.Wrapf(errBookNotFound, "id %s", id)
	}
	b := &rec.Book
	if patch.CoverURL != nil {
		b.CoverURL = *patch.CoverURL
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.Language != nil {
		b.Language = *patch.Language
	}
	if patch.Available != nil {
		b.Available = *patch.Available
	}
	l.books[id] = rec
	return rec.Book, nil
}

func (l *library) remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.books[id]; !ok {
		return errors.Wrapf(errBookNotFound, "id %s", id)
	}
	delete(l.books, id)
	return nil
}

func (l *library) register(in catalog.SignUpInput, role string) (userRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return userRecord{}, errors.Wrap(err, "hash password")
	}

	key := strings.ToLower(strings.TrimSpace(in.Email))
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[key]; ok {
		return userRecord{}, errUserExists
	}
	for _, u := range l.users {
		if strings.EqualFold(u.Username, in.Username) {
			return userRecord{}, errUserExists
		}
	}
	u := userRecord{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Username: in.Username,
		Email:    key,
		Hash:     hash,
		Role:     role,
	}
	l.users[key] = u
	return u, nil
}

func (l *library) authenticate(email, password string) (userRecord, error) {
	l.mu.RLock()
	u, ok := l.users[strings.ToLower(strings.TrimSpace(email))]
	l.mu.RUnlock()
	if !ok {
		return userRecord{}, errBadCredential
	}
	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return userRecord{}, errBadCredential
	}
	return u, nil
}
