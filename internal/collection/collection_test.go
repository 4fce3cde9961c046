package collection

import (
	"context"
	"errors"
	"testing"

	"crannies/internal/events"
	"crannies/internal/store"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(c events.Change) {
	m.Called(c)
}

func TestTracker_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	tr := NewTracker(kv, nil, nil)

	res, err := tr.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.True(t, res.InCollection)
	assert.Equal(t, []string{"B"}, res.Set.Titles())

	res, err = tr.Toggle(ctx, "B")
	require.NoError(t, err)
	assert.False(t, res.InCollection)
	assert.Equal(t, 0, res.Set.Len())

	raw, err := kv.Get(ctx, store.KeyCollection)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestTracker_PersistsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	tr := NewTracker(kv, nil, nil)

	for _, title := range []string{"C", "A", "B"} {
		_, err := tr.Toggle(ctx, title)
		require.NoError(t, err)
	}

	raw, err := kv.Get(ctx, store.KeyCollection)
	require.NoError(t, err)
	assert.JSONEq(t, `["C","A","B"]`, string(raw))
	assert.Equal(t, 3, tr.Count(ctx))

	set := NewTracker(kv, nil, nil).Load(ctx)
	assert.True(t, set.Has("A"))
	assert.False(t, set.Has("D"))
}

func TestTracker_Load(t *testing.T) {
	ctx := context.Background()

	for name, raw := range map[string]string{
		"corrupt":      `["A",`,
		"not an array": `"A"`,
		"wrong types":  `[1,2]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Set(ctx, store.KeyCollection, []byte(raw)))
			assert.Equal(t, 0, NewTracker(kv, nil, nil).Count(ctx))
		})
	}

	t.Run("duplicates collapse", func(t *testing.T) {
		kv := store.NewMemoryKV()
		require.NoError(t, kv.Set(ctx, store.KeyCollection, []byte(`["A","B","A"]`)))
		assert.Equal(t, []string{"A", "B"}, NewTracker(kv, nil, nil).Load(ctx).Titles())
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		kv := store.NewMockKV(ctrl)
		kv.EXPECT().Get(gomock.Any(), store.KeyCollection).Return(nil, errors.New("io"))
		assert.Equal(t, 0, NewTracker(kv, nil, nil).Load(ctx).Len())
	})
}

func TestTracker_Rename(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(store.NewMemoryKV(), nil, nil)
	_, err := tr.Toggle(ctx, "Old")
	require.NoError(t, err)

	moved, err := tr.Rename(ctx, "Old", "New")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"New"}, tr.Load(ctx).Titles())

	moved, err = tr.Rename(ctx, "Missing", "Other")
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, []string{"New"}, tr.Load(ctx).Titles())
}

func TestTracker_RenameOntoCollectedTitle(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(store.NewMemoryKV(), nil, nil)
	for _, title := range []string{"A", "B"} {
		_, err := tr.Toggle(ctx, title)
		require.NoError(t, err)
	}

	_, err := tr.Rename(ctx, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, tr.Load(ctx).Titles())
}

func TestTracker_Remove(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)

	kv.EXPECT().Get(gomock.Any(), store.KeyCollection).Return([]byte(`["A","B"]`), nil)
	kv.EXPECT().Set(gomock.Any(), store.KeyCollection, []byte(`["B"]`)).Return(nil)

	removed, err := NewTracker(kv, nil, nil).Remove(ctx, "A")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestTracker_RemoveAbsentWritesNothing(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)

	kv.EXPECT().Get(gomock.Any(), store.KeyCollection).Return([]byte(`["B"]`), nil)

	removed, err := NewTracker(kv, nil, nil).Remove(ctx, "A")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTracker_PublishesChange(t *testing.T) {
	ctx := events.WithOrigin(context.Background(), "tab-1")
	pub := new(mockPublisher)
	pub.On("Publish", mock.MatchedBy(func(c events.Change) bool {
		return c.Key == store.KeyCollection && c.Count == 1 && c.Origin == "tab-1"
	})).Return().Once()

	_, err := NewTracker(store.NewMemoryKV(), pub, nil).Toggle(ctx, "A")
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestTracker_WriteFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)
	pub := new(mockPublisher)
	boom := errors.New("full")

	kv.EXPECT().Get(gomock.Any(), store.KeyCollection).Return(nil, store.ErrNotFound)
	kv.EXPECT().Set(gomock.Any(), store.KeyCollection, gomock.Any()).Return(boom)

	_, err := NewTracker(kv, pub, nil).Toggle(ctx, "A")
	assert.ErrorIs(t, err, boom)
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSet(t *testing.T) {
	var zero Set
	assert.False(t, zero.Has("A"))
	assert.Equal(t, 0, zero.Len())
	assert.Empty(t, zero.Titles())

	s := NewSet("A", "B")
	titles := s.Titles()
	titles[0] = "changed"
	assert.True(t, s.Has("A"))
}
