package catalog

import (
	"context"
	"errors"
	"testing"

	"crannies/internal/book"
	"crannies/internal/collection"
	"crannies/internal/filter"
	"crannies/internal/store"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeBuiltIns() []book.Book {
	return []book.Book{
		{Title: "A", Author: "Ann", Genre: "Classic", BestSeller: true},
		{Title: "B", Author: "Bob", Genre: "Mystery"},
		{Title: "C", Author: "Cat", Genre: "Horror", Trending: true},
	}
}

func newService(kv store.KV) (*Service, *collection.Tracker) {
	tracker := collection.NewTracker(kv, nil, nil)
	return NewService(book.NewStore(kv, threeBuiltIns(), nil, nil), tracker, nil), tracker
}

func TestService_ToggleScenario(t *testing.T) {
	ctx := context.Background()
	_, tracker := newService(store.NewMemoryKV())

	res, err := tracker.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.Set.Titles())

	res, err = tracker.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.Empty(t, res.Set.Titles())
}

func TestService_AddThenDeleteScenario(t *testing.T) {
	ctx := context.Background()
	svc, tracker := newService(store.NewMemoryKV())

	view, err := svc.Add(ctx, book.Book{Title: "Z", Author: "Zed"})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Index)
	assert.True(t, view.Editable)

	_, err = tracker.Toggle(ctx, "Z")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Z", removed.Title)

	page := svc.Browse(ctx, filter.State{})
	assert.Len(t, page.Cards, 3)
	assert.False(t, tracker.Load(ctx).Has("Z"))
	assert.Equal(t, 0, page.Collected)
}

func TestService_TitleEditMovesMembership(t *testing.T) {
	ctx := context.Background()
	svc, tracker := newService(store.NewMemoryKV())

	_, err := svc.Add(ctx, book.Book{Title: "Old"})
	require.NoError(t, err)
	_, err = tracker.Toggle(ctx, "Old")
	require.NoError(t, err)

	view, err := svc.Update(ctx, 3, book.Book{Title: "New"})
	require.NoError(t, err)
	assert.True(t, view.InCollection)
	assert.Equal(t, []string{"New"}, tracker.Load(ctx).Titles())
}

func TestService_EditWithoutMembership(t *testing.T) {
	ctx := context.Background()
	svc, tracker := newService(store.NewMemoryKV())

	_, err := svc.Add(ctx, book.Book{Title: "Old"})
	require.NoError(t, err)

	view, err := svc.Update(ctx, 3, book.Book{Title: "New"})
	require.NoError(t, err)
	assert.False(t, view.InCollection)
	assert.Equal(t, 0, tracker.Count(ctx))
}

func TestService_BuiltInsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(store.NewMemoryKV())

	_, err := svc.Update(ctx, 0, book.Book{Title: "X"})
	assert.ErrorIs(t, err, book.ErrBuiltInBook)

	_, err = svc.Delete(ctx, 2)
	assert.ErrorIs(t, err, book.ErrBuiltInBook)

	view, err := svc.Card(ctx, 1)
	require.NoError(t, err)
	assert.False(t, view.Editable)

	_, err = svc.Card(ctx, 7)
	assert.ErrorIs(t, err, book.ErrPositionOutOfRange)
}

func TestService_Browse(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(store.NewMemoryKV())

	page := svc.Browse(ctx, filter.State{SearchBy: filter.SearchBestSellers})
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "A", page.Cards[0].Title)
	assert.True(t, page.Filtered)
	assert.False(t, page.NoResults)

	page = svc.Browse(ctx, filter.State{SearchQuery: "nothing matches"})
	assert.True(t, page.NoResults)
	assert.Equal(t, 3, page.Total)
}

func TestService_CollectionBooks(t *testing.T) {
	ctx := context.Background()
	svc, tracker := newService(store.NewMemoryKV())

	for _, title := range []string{"C", "A"} {
		_, err := tracker.Toggle(ctx, title)
		require.NoError(t, err)
	}

	page := svc.CollectionBooks(ctx, "", "")
	require.Len(t, page.Cards, 2)
	assert.Equal(t, "A", page.Cards[0].Title, "catalog order, not collection order")
	assert.Equal(t, "C", page.Cards[1].Title)
	assert.True(t, page.Cards[0].InCollection)

	page = svc.CollectionBooks(ctx, "cat", "")
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "C", page.Cards[0].Title)

	page = svc.CollectionBooks(ctx, "", "Classic")
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "A", page.Cards[0].Title)

	page = svc.CollectionBooks(ctx, "", book.GenreAll)
	assert.Len(t, page.Cards, 2)
}

func TestService_Genres(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(store.NewMemoryKV())
	_, err := svc.Add(ctx, book.Book{Title: "Z", Genre: "Sci-Fi"})
	require.NoError(t, err)

	genres := svc.Genres(ctx)
	assert.Equal(t, book.GenreAll, genres[0])
	assert.Equal(t, book.GenreList, genres[1:len(book.GenreList)+1])
	assert.Equal(t, "Sci-Fi", genres[len(genres)-1])
	assert.Len(t, genres, len(book.GenreList)+2)
}

func TestService_CascadeFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)
	boom := errors.New("io")

	gomock.InOrder(
		kv.EXPECT().Get(gomock.Any(), store.KeyCustomBooks).Return([]byte(`[{"title":"Z"}]`), nil),
		kv.EXPECT().Set(gomock.Any(), store.KeyCustomBooks, []byte(`[]`)).Return(nil),
		kv.EXPECT().Get(gomock.Any(), store.KeyCollection).Return(nil, boom),
	)

	svc, _ := newService(kv)
	removed, err := svc.Delete(ctx, 3)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Z", removed.Title)
}

func TestRecommendedSites(t *testing.T) {
	sites := RecommendedSites()
	require.Len(t, sites, 7)
	assert.Equal(t, "Project Gutenberg", sites[0].Label)
	assert.Equal(t, "https://librivox.org", sites[6].URL)

	sites[0].Label = "changed"
	assert.Equal(t, "Project Gutenberg", RecommendedSites()[0].Label)
}
