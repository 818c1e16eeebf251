package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/events"
)

func TestSavedDraftSurvivesSwitchingHotels(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetField("name", "Taj Palace Deluxe"))
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.Open(ctx, "grand-luxury-resort"))
	assert.False(t, s.HasPendingChanges())

	require.NoError(t, s.Open(ctx, "taj-palace"))
	assert.Equal(t, "Taj Palace Deluxe", s.Editing().Name)
	assert.Equal(t, "Taj Palace Deluxe", s.Original().Name)
	assert.Equal(t, Change{Old: "Taj Palace", New: "Taj Palace Deluxe"}, s.PendingChanges()["name"])
	assert.Equal(t, StateClean, s.State())
	assert.NotNil(t, s.Snapshot().LastSavedAt)
	assert.Equal(t, "Taj Palace", f.published(t, 4).Name)

	require.NoError(t, s.Publish(ctx))
	assert.Equal(t, "Taj Palace Deluxe", f.published(t, 4).Name)
	assert.Equal(t, 0, f.deps.Drafts.Count())

	require.NoError(t, s.Open(ctx, "grand-luxury-resort"))
	require.NoError(t, s.Open(ctx, "taj-palace"))
	assert.False(t, s.HasPendingChanges())
	assert.Equal(t, f.published(t, 4).Version, s.Snapshot().BaseVersion)
}

func TestSavedDraftOutlivesItsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	st := NewSessionStore(f.deps, 0)

	a, err := st.Create()
	require.NoError(t, err)
	require.NoError(t, a.Open(ctx, "taj-palace"))
	require.NoError(t, a.AddAmenity("Spa"))
	require.NoError(t, a.Save(ctx))
	require.True(t, st.Delete(ctx, a.ID()))

	assert.True(t, st.HasSavedDraft(4))
	assert.False(t, st.HasSavedDraft(1))
	drafts := st.SavedDrafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, int64(4), drafts[0].HotelID)
	assert.Equal(t, a.ID(), drafts[0].SessionID)
	assert.Equal(t, []string{"amenities"}, drafts[0].Fields)

	b, err := st.Create()
	require.NoError(t, err)
	require.NoError(t, b.Open(ctx, "4"))
	assert.Equal(t, []string{"WiFi", "Spa"}, b.Editing().Amenities)
	assert.True(t, b.HasPendingChanges())

	// the restored copy is private to b
	require.NoError(t, b.AddAmenity("Pool"))
	d, ok := st.deps.Drafts.Get(4)
	require.True(t, ok)
	assert.Equal(t, []string{"WiFi", "Spa"}, d.Hotel.Amenities)
}

func TestSaveBackToPublishedDropsDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetField("city", "New Delhi"))
	require.NoError(t, s.Save(ctx))
	require.True(t, f.deps.Drafts.Has(4))

	require.NoError(t, s.SetField("city", ""))
	require.NoError(t, s.Save(ctx))
	assert.False(t, s.HasPendingChanges())
	assert.False(t, f.deps.Drafts.Has(4))
}

func TestRevertDropsSavedDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetField("name", "Taj Palace Deluxe"))
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.SetField("city", "New Delhi"))

	require.NoError(t, s.Revert(ctx))
	assert.Equal(t, "Taj Palace", s.Editing().Name)
	assert.Empty(t, s.Editing().City)
	assert.Empty(t, s.Changes())
	assert.False(t, s.HasPendingChanges())
	assert.Nil(t, s.Snapshot().LastSavedAt)
	assert.False(t, f.deps.Drafts.Has(4))

	s.Close(ctx)
	err := s.Revert(ctx)
	assert.True(t, errs.Is(err, errs.ErrInvalidState))
}

func TestStaleSavedDraftStillConflictsOnPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.open(t, "taj-palace")
	require.NoError(t, a.SetField("name", "Saved By A"))
	require.NoError(t, a.Save(ctx))
	a.Close(ctx)

	h := f.published(t, 4)
	h.City = "Agra"
	_, err := f.catalog.Upsert(ctx, h)
	require.NoError(t, err)

	require.NoError(t, a.Open(ctx, "taj-palace"))
	assert.Equal(t, "Saved By A", a.Editing().Name)
	err = a.Publish(ctx)
	assert.True(t, errs.Is(err, errs.ErrStaleOverwrite))
}

// gatedEvents holds the append of one event type until released.
type gatedEvents struct {
	*events.MemoryStore
	gate    string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedEvents) Append(ctx context.Context, evs ...events.Event) error {
	for _, e := range evs {
		if e.Type == g.gate {
			g.entered <- struct{}{}
			<-g.release
		}
	}
	return g.MemoryStore.Append(ctx, evs...)
}

func TestEventsFollowOperationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gated := &gatedEvents{
		MemoryStore: events.NewMemoryStore(),
		gate:        events.TypeDraftSaved,
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	deps := f.deps
	deps.Events = gated
	s := NewSession("s", deps)
	require.NoError(t, s.Open(ctx, "taj-palace"))
	require.NoError(t, s.SetField("name", "Taj Palace Deluxe"))

	saved := make(chan error, 1)
	go func() { saved <- s.Save(ctx) }()
	<-gated.entered

	published := make(chan error, 1)
	go func() { published <- s.Publish(ctx) }()
	select {
	case <-published:
		t.Fatal("publish completed while the save event was still being recorded")
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.release)
	require.NoError(t, <-saved)
	require.NoError(t, <-published)

	evs, err := gated.ListByHotel(ctx, 4)
	require.NoError(t, err)
	var types []string
	for _, e := range evs {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{events.TypeSessionOpened, events.TypeDraftSaved, events.TypeHotelPublished}, types)

	state, err := gated.Replay(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, state.LastFields)
}
