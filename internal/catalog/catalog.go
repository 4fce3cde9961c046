// Package catalog coordinates the book store, the collection tracker and
// the filter into the operations the catalog and collection pages need.
package catalog

import (
	"context"
	"fmt"
	"slices"

	"crannies/internal/book"
	"crannies/internal/card"
	"crannies/internal/collection"
	"crannies/internal/filter"

	"go.uber.org/zap"
)

// Page is one rendered listing.
type Page struct {
	Cards     []card.View `json:"cards"`
	Total     int         `json:"total"`
	NoResults bool        `json:"no_results"`
	Filtered  bool        `json:"filtered"`
	// Collected is the collection size, for the badge.
	Collected int `json:"collected"`
}

type Service struct {
	books      *book.Store
	collection *collection.Tracker
	logger     *zap.Logger
}

func NewService(books *book.Store, tracker *collection.Tracker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{books: books, collection: tracker, logger: logger}
}

// Browse renders the catalog cards that pass state.
func (s *Service) Browse(ctx context.Context, state filter.State) Page {
	cat := s.books.Load(ctx)
	set := s.collection.Load(ctx)
	return render(cat, cat.Books(), state, set)
}

// CollectionBooks renders the collected books in catalog order, narrowed by
// a free-text query over title, author and genre and by genre.
func (s *Service) CollectionBooks(ctx context.Context, query, genre string) Page {
	cat := s.books.Load(ctx)
	set := s.collection.Load(ctx)

	collected := slices.DeleteFunc(cat.Books(), func(b book.Book) bool {
		return !set.Has(b.Title)
	})
	state := filter.State{SearchQuery: query, SearchBy: filter.SearchAll}
	if genre != "" {
		state.SelectedGenre = &genre
	}
	return render(cat, collected, state, set)
}

func render(cat book.Catalog, books []book.Book, state filter.State, set collection.Set) Page {
	res := filter.Apply(books, state)
	return Page{
		Cards:     card.RenderAll(cat, res.Books, set),
		Total:     res.Total,
		NoResults: res.NoResults(),
		Filtered:  res.Active(),
		Collected: set.Len(),
	}
}

// Card renders the book at pos.
func (s *Service) Card(ctx context.Context, pos int) (card.View, error) {
	cat := s.books.Load(ctx)
	b, ok := cat.At(pos)
	if !ok {
		return card.View{}, fmt.Errorf("%w: %d", book.ErrPositionOutOfRange, pos)
	}
	in := s.collection.Load(ctx).Has(b.Title)
	return card.Render(b, pos, in, cat.BuiltInCount()), nil
}

// Add appends a custom book and renders it.
func (s *Service) Add(ctx context.Context, b book.Book) (card.View, error) {
	cat, pos, err := s.books.Add(ctx, b)
	if err != nil {
		return card.View{}, err
	}
	in := s.collection.Load(ctx).Has(b.Title)
	return card.Render(b, pos, in, cat.BuiltInCount()), nil
}

// Update replaces the custom book at pos. A collected book keeps its
// membership under its new title.
func (s *Service) Update(ctx context.Context, pos int, b book.Book) (card.View, error) {
	cat, prev, err := s.books.Update(ctx, pos, b)
	if err != nil {
		return card.View{}, err
	}

	if prev.Title != b.Title {
		moved, err := s.collection.Rename(ctx, prev.Title, b.Title)
		if err != nil {
			return card.View{}, fmt.Errorf("move collection entry: %w", err)
		}
		if moved {
			s.logger.Debug("collection entry renamed",
				zap.String("from", prev.Title),
				zap.String("to", b.Title))
		}
	}

	in := s.collection.Load(ctx).Has(b.Title)
	return card.Render(b, pos, in, cat.BuiltInCount()), nil
}

// Delete removes the custom book at pos and its collection entry.
func (s *Service) Delete(ctx context.Context, pos int) (book.Book, error) {
	_, removed, err := s.books.Remove(ctx, pos)
	if err != nil {
		return book.Book{}, err
	}
	if _, err := s.collection.Remove(ctx, removed.Title); err != nil {
		return removed, fmt.Errorf("remove collection entry: %w", err)
	}
	return removed, nil
}

// Genres lists "All", the fixed genres, then any other genre present in the
// catalog in first-seen order.
func (s *Service) Genres(ctx context.Context) []string {
	out := make([]string, 0, len(book.GenreList)+2)
	out = append(out, book.GenreAll)
	out = append(out, book.GenreList...)
	for _, g := range book.UniqueGenres(s.books.Load(ctx).Books()) {
		if g == "" || slices.Contains(out, g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Book returns the raw book at pos, for prefilling the edit form.
func (s *Service) Book(ctx context.Context, pos int) (book.Book, error) {
	b, ok := s.books.Load(ctx).At(pos)
	if !ok {
		return book.Book{}, fmt.Errorf("%w: %d", book.ErrPositionOutOfRange, pos)
	}
	return b, nil
}
