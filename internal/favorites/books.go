package favorites

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/shelf/internal/catalog"
)

// maxInFlight bounds concurrent detail requests.
const maxInFlight = 4

// BookGetter is the catalog call used to resolve favorite ids.
type BookGetter interface {
	GetBook(ctx context.Context, id string) (catalog.Book, error)
}

// Books resolves every favorite id to its record, in favorites order. Ids
// that fail to load are skipped and logged; only context cancellation is
// returned as an error.
func (c *Cache) Books(ctx context.Context, getter BookGetter, log *zap.Logger) ([]catalog.Book, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ids := c.List()
	results := make([]*catalog.Book, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			book, err := getter.GetBook(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				level := zap.WarnLevel
				if errors.Is(err, catalog.ErrNotFound) {
					level = zap.DebugLevel
				}
				log.Log(level, "skip favorite", zap.String("id", id), zap.Error(err))
				return nil
			}
			results[i] = &book
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(ids))
	for _, b := range results {
		if b != nil {
			books = append(books, *b)
		}
	}
	return books, nil
}
