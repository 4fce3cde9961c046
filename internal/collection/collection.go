// Package collection tracks which catalog titles the reader has saved.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"crannies/internal/events"
	"crannies/internal/store"

	"go.uber.org/zap"
)

// Storage is the slice of store.KV the tracker needs.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Set is an insertion-ordered set of titles. The zero value is empty.
type Set struct {
	titles []string
	index  map[string]struct{}
}

func NewSet(titles ...string) Set {
	var s Set
	for _, t := range titles {
		s.add(t)
	}
	return s
}

func (s Set) Has(title string) bool {
	_, ok := s.index[title]
	return ok
}

func (s Set) Len() int { return len(s.titles) }

// Titles returns a copy of the members in insertion order.
func (s Set) Titles() []string {
	out := make([]string, len(s.titles))
	copy(out, s.titles)
	return out
}

func (s *Set) add(title string) bool {
	if s.Has(title) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[title] = struct{}{}
	s.titles = append(s.titles, title)
	return true
}

func (s *Set) remove(title string) bool {
	if !s.Has(title) {
		return false
	}
	delete(s.index, title)
	s.titles = slices.DeleteFunc(s.titles, func(t string) bool { return t == title })
	return true
}

func (s Set) clone() Set {
	return NewSet(s.titles...)
}

type ToggleResult struct {
	InCollection bool
	Set          Set
}

// Tracker persists the collection under store.KeyCollection as a JSON array
// of titles. Read-modify-write cycles are serialized within the process;
// across processes the last write wins.
type Tracker struct {
	kv        Storage
	publisher events.Publisher
	logger    *zap.Logger

	mu sync.Mutex
}

func NewTracker(kv Storage, publisher events.Publisher, logger *zap.Logger) *Tracker {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{kv: kv, publisher: publisher, logger: logger}
}

// Load returns the persisted set. Missing, corrupt or unreadable data is an
// empty set.
func (t *Tracker) Load(ctx context.Context) Set {
	set, err := t.read(ctx)
	if err != nil {
		t.logger.Error("could not read collection", zap.Error(err))
		return Set{}
	}
	return set
}

func (t *Tracker) Count(ctx context.Context) int {
	return t.Load(ctx).Len()
}

// Toggle removes title if it is collected and adds it otherwise, then
// persists the whole set.
func (t *Tracker) Toggle(ctx context.Context, title string) (ToggleResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.read(ctx)
	if err != nil {
		return ToggleResult{}, err
	}

	in := set.add(title)
	if !in {
		set.remove(title)
	}
	if err := t.write(ctx, set); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{InCollection: in, Set: set.clone()}, nil
}

// Rename moves membership from oldTitle to newTitle. It reports whether
// oldTitle was collected; nothing is written when it was not.
func (t *Tracker) Rename(ctx context.Context, oldTitle, newTitle string) (bool, error) {
	if oldTitle == newTitle {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.read(ctx)
	if err != nil {
		return false, err
	}
	if !set.remove(oldTitle) {
		return false, nil
	}
	set.add(newTitle)
	return true, t.write(ctx, set)
}

// Remove drops title from the collection. It reports whether it was present.
func (t *Tracker) Remove(ctx context.Context, title string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.read(ctx)
	if err != nil {
		return false, err
	}
	if !set.remove(title) {
		return false, nil
	}
	return true, t.write(ctx, set)
}

func (t *Tracker) read(ctx context.Context) (Set, error) {
	raw, err := t.kv.Get(ctx, store.KeyCollection)
	if errors.Is(err, store.ErrNotFound) {
		return Set{}, nil
	}
	if err != nil {
		return Set{}, fmt.Errorf("read collection: %w", err)
	}

	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil {
		t.logger.Warn("could not load collection", zap.Error(err))
		return Set{}, nil
	}
	return NewSet(titles...), nil
}

func (t *Tracker) write(ctx context.Context, set Set) error {
	titles := set.titles
	if titles == nil {
		titles = []string{}
	}
	raw, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := t.kv.Set(ctx, store.KeyCollection, raw); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	t.publisher.Publish(events.Change{
		Key:    store.KeyCollection,
		Count:  set.Len(),
		Origin: events.OriginFrom(ctx),
	})
	return nil
}
