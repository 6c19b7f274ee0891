package state

import (
	"context"
	"fmt"

	"github.com/five82/shelf/internal/catalog"
)

// Fetcher loads a book list for a category ("" means all books).
type Fetcher func(ctx context.Context, category string) ([]catalog.Book, error)

// Feed couples a Store with the call that fills it.
type Feed struct {
	Name  string
	Store *Store
	Fetch Fetcher
}

// NewFeed returns a feed backed by a fresh Store.
func NewFeed(name string, fetch Fetcher) *Feed {
	return &Feed{Name: name, Store: &Store{}, Fetch: fetch}
}

// Refresh runs one fetch for the store's current category and records the
// result. A result superseded while in flight is discarded silently.
func (f *Feed) Refresh(ctx context.Context) error {
	if f == nil || f.Store == nil || f.Fetch == nil {
		return fmt.Errorf("feed not configured")
	}
	ticket := f.Store.BeginFetch()
	books, err := f.Fetch(ctx, ticket.Category)
	if err != nil {
		err = fmt.Errorf("refresh %s: %w", f.Name, err)
	}
	f.Store.Update(ticket, books, err)
	return err
}
