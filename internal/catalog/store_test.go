package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
)

func newStore(t *testing.T, hotels ...models.Hotel) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(hotels...)
	require.NoError(t, err)
	return s
}

func TestResolvePrefersSlugOverID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t,
		models.Hotel{ID: 7, Slug: "sea-breeze", Name: "Sea Breeze"},
		models.Hotel{ID: 9, Slug: "7", Name: "Number Seven Inn"},
	)

	h, err := s.Resolve(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.ID, "slug match must win over id fallback")

	h, err = s.Resolve(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "Number Seven Inn", h.Name)

	h, err = s.Resolve(ctx, "sea-breeze")
	require.NoError(t, err)
	assert.Equal(t, int64(7), h.ID)
}

func TestResolveUnknown(t *testing.T) {
	s := newStore(t, models.Hotel{ID: 4, Slug: "taj-palace"})
	for _, ident := range []string{"nope", "42", "", "4.0"} {
		_, err := s.Resolve(context.Background(), ident)
		assert.True(t, errs.Is(err, errs.ErrNotFound), "ident %q: %v", ident, err)
	}
}

func TestReturnedHotelsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, models.Hotel{ID: 4, Slug: "taj-palace", Amenities: []string{"WiFi"}})

	h, err := s.FindByID(ctx, 4)
	require.NoError(t, err)
	h.Amenities[0] = "Changed"
	h.Name = "Changed"

	again, err := s.FindBySlug(ctx, "taj-palace")
	require.NoError(t, err)
	assert.Equal(t, []string{"WiFi"}, again.Amenities)
	assert.Empty(t, again.Name)

	list, err := s.List(ctx)
	require.NoError(t, err)
	list[0].Amenities[0] = "Changed"
	again, _ = s.FindByID(ctx, 4)
	assert.Equal(t, "WiFi", again.Amenities[0])
}

func TestReplaceVersioning(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, models.Hotel{ID: 4, Slug: "taj-palace", Name: "Taj Palace"})

	h, _ := s.FindByID(ctx, 4)
	require.Equal(t, uint64(1), h.Version)

	h.Name = "Taj Palace Deluxe"
	v, err := s.Replace(ctx, h, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	// stale writer still holding version 1
	h.Name = "Someone Else"
	_, err = s.Replace(ctx, h, 1)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrStaleOverwrite))

	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint64(1), conflict.Expected)
	assert.Equal(t, uint64(2), conflict.Actual)

	got, _ := s.FindByID(ctx, 4)
	assert.Equal(t, "Taj Palace Deluxe", got.Name)

	// zero skips the check
	v, err = s.Replace(ctx, h, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestReplaceMissingEntry(t *testing.T) {
	s := newStore(t)
	_, err := s.Replace(context.Background(), &models.Hotel{ID: 99}, 0)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestSlugUniquenessAndRename(t *testing.T) {
	ctx := context.Background()
	s := newStore(t,
		models.Hotel{ID: 1, Slug: "grand"},
		models.Hotel{ID: 2, Slug: "lodge"},
	)

	_, err := s.Replace(ctx, &models.Hotel{ID: 2, Slug: "grand"}, 0)
	assert.True(t, errs.Is(err, errs.ErrValidation))

	_, err = s.Replace(ctx, &models.Hotel{ID: 2, Slug: "mountain-lodge"}, 0)
	require.NoError(t, err)

	_, err = s.FindBySlug(ctx, "lodge")
	assert.True(t, errs.Is(err, errs.ErrNotFound), "old slug must be released")
	h, err := s.FindBySlug(ctx, "mountain-lodge")
	require.NoError(t, err)
	assert.Equal(t, int64(2), h.ID)
}

func TestUpsertInsertsThenOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	v, err := s.Upsert(ctx, &models.Hotel{ID: 5, Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = s.Upsert(ctx, &models.Hotel{ID: 5, Name: "Newer"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
	assert.Equal(t, 1, s.Len())

	_, err = s.Upsert(ctx, &models.Hotel{ID: 0})
	assert.True(t, errs.Is(err, errs.ErrValidation))
	_, err = s.Upsert(ctx, nil)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestConcurrentReplaceOnlyOneWinsPerVersion(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, models.Hotel{ID: 1})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Replace(ctx, &models.Hotel{ID: 1}, 1); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestDefaultSeed(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	h, err := s.Resolve(context.Background(), "taj-palace")
	require.NoError(t, err)
	assert.Equal(t, int64(4), h.ID)
	assert.Equal(t, "Taj Palace", h.Name)
	assert.Equal(t, []string{"WiFi"}, h.Amenities)
	assert.Len(t, h.Rooms, 2)
	assert.Equal(t, "3:00 PM", h.CheckInTime)
	assert.Equal(t, "110011", h.Pincode)
}

func TestLoadSeedRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"duplicate id":  "hotels:\n  - id: 1\n  - id: 1\n",
		"missing id":    "hotels:\n  - name: Nameless\n",
		"unknown field": "hotels:\n  - id: 1\n    stars: 5\n",
		"not yaml":      "hotels: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeed(strings.NewReader(doc))
			assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hotels:\n  - id: 10\n    slug: custom\n    name: Custom Stay\n"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	h, err := s.Resolve(context.Background(), "custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom Stay", h.Name)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}
