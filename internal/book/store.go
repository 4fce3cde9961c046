package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"crannies/internal/events"
	"crannies/internal/store"

	"go.uber.org/zap"
)

// Catalog is an immutable snapshot of the built-in books followed by the
// custom books.
type Catalog struct {
	books   []Book
	builtIn int
}

func NewCatalog(builtIn, custom []Book) Catalog {
	books := make([]Book, 0, len(builtIn)+len(custom))
	books = append(books, builtIn...)
	books = append(books, custom...)
	return Catalog{books: books, builtIn: len(builtIn)}
}

// Books returns a copy of every book in catalog order.
func (c Catalog) Books() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

func (c Catalog) Len() int { return len(c.books) }

func (c Catalog) BuiltInCount() int { return c.builtIn }

// Custom returns a copy of the user-added portion, catalog[BuiltInCount:].
func (c Catalog) Custom() []Book {
	out := make([]Book, len(c.books)-c.builtIn)
	copy(out, c.books[c.builtIn:])
	return out
}

func (c Catalog) At(pos int) (Book, bool) {
	if pos < 0 || pos >= len(c.books) {
		return Book{}, false
	}
	return c.books[pos], true
}

// IsCustom reports whether pos lies in the mutable region.
func (c Catalog) IsCustom(pos int) bool {
	return pos >= c.builtIn && pos < len(c.books)
}

// IndexByTitle maps each title to its position. When titles repeat, the
// later position wins.
func (c Catalog) IndexByTitle() map[string]int {
	idx := make(map[string]int, len(c.books))
	for i, b := range c.books {
		idx[b.Title] = i
	}
	return idx
}

// Store merges the built-in list with the custom books persisted under
// store.KeyCustomBooks. Only the custom portion is ever written.
type Store struct {
	kv        Storage
	builtIn   []Book
	publisher events.Publisher
	logger    *zap.Logger

	mu sync.Mutex
}

func NewStore(kv Storage, builtIn []Book, publisher events.Publisher, logger *zap.Logger) *Store {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, builtIn: builtIn, publisher: publisher, logger: logger}
}

func (s *Store) BuiltInCount() int { return len(s.builtIn) }

// Load returns the current catalog. Unreadable custom books degrade to an
// empty custom list.
func (s *Store) Load(ctx context.Context) Catalog {
	custom, err := s.readCustom(ctx)
	if err != nil {
		s.logger.Error("could not read custom books", zap.Error(err))
		custom = nil
	}
	return NewCatalog(s.builtIn, custom)
}

// Add appends b to the custom books and returns its position.
func (s *Store) Add(ctx context.Context, b Book) (Catalog, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.readCustom(ctx)
	if err != nil {
		return Catalog{}, 0, err
	}
	custom = append(custom, b)
	if err := s.writeCustom(ctx, custom); err != nil {
		return Catalog{}, 0, err
	}
	cat := NewCatalog(s.builtIn, custom)
	return cat, cat.Len() - 1, nil
}

// Update replaces the custom book at pos and returns the previous value.
func (s *Store) Update(ctx context.Context, pos int, b Book) (Catalog, Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.readCustom(ctx)
	if err != nil {
		return Catalog{}, Book{}, err
	}
	i, err := s.customIndex(pos, len(custom))
	if err != nil {
		return Catalog{}, Book{}, err
	}

	previous := custom[i]
	custom[i] = b
	if err := s.writeCustom(ctx, custom); err != nil {
		return Catalog{}, Book{}, err
	}
	return NewCatalog(s.builtIn, custom), previous, nil
}

// Remove deletes the custom book at pos. Positions after it shift down by one.
func (s *Store) Remove(ctx context.Context, pos int) (Catalog, Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.readCustom(ctx)
	if err != nil {
		return Catalog{}, Book{}, err
	}
	i, err := s.customIndex(pos, len(custom))
	if err != nil {
		return Catalog{}, Book{}, err
	}

	removed := custom[i]
	custom = append(custom[:i], custom[i+1:]...)
	if err := s.writeCustom(ctx, custom); err != nil {
		return Catalog{}, Book{}, err
	}
	return NewCatalog(s.builtIn, custom), removed, nil
}

func (s *Store) customIndex(pos, customLen int) (int, error) {
	if pos >= 0 && pos < len(s.builtIn) {
		return 0, ErrBuiltInBook
	}
	i := pos - len(s.builtIn)
	if i < 0 || i >= customLen {
		return 0, fmt.Errorf("%w: %d", ErrPositionOutOfRange, pos)
	}
	return i, nil
}

// readCustom returns the persisted custom books. Missing or corrupt data is
// an empty list; only storage failures are errors.
func (s *Store) readCustom(ctx context.Context) ([]Book, error) {
	raw, err := s.kv.Get(ctx, store.KeyCustomBooks)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read custom books: %w", err)
	}

	var custom []Book
	if err := json.Unmarshal(raw, &custom); err != nil {
		s.logger.Warn("could not load custom books", zap.Error(err))
		return nil, nil
	}
	return custom, nil
}

func (s *Store) writeCustom(ctx context.Context, custom []Book) error {
	if custom == nil {
		custom = []Book{}
	}
	raw, err := json.Marshal(custom)
	if err != nil {
		return fmt.Errorf("encode custom books: %w", err)
	}
	if err := s.kv.Set(ctx, store.KeyCustomBooks, raw); err != nil {
		return fmt.Errorf("write custom books: %w", err)
	}
	s.publisher.Publish(events.Change{
		Key:    store.KeyCustomBooks,
		Count:  len(custom),
		Origin: events.OriginFrom(ctx),
	})
	return nil
}
