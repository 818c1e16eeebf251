// Package catalog holds the published hotel records the draft engine reads
// from and publishes to.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
)

// Store is the authoritative list of published hotels. Every hotel handed out
// is a private copy; callers never share memory with the catalog.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Hotel, error)
	FindBySlug(ctx context.Context, slug string) (*models.Hotel, error)
	Resolve(ctx context.Context, ident string) (*models.Hotel, error)
	List(ctx context.Context) ([]models.Hotel, error)
	Upsert(ctx context.Context, h *models.Hotel) (uint64, error)
	Replace(ctx context.Context, h *models.Hotel, expectedVersion uint64) (uint64, error)
	Len() int
}

// MemoryStore is an in-process Store guarded by an RWMutex. Entries keep
// insertion order for List.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]*models.Hotel
	bySlug map[string]int64
	order  []int64
}

// NewMemoryStore builds a store seeded with hotels. Seeds start at version 1.
func NewMemoryStore(hotels ...models.Hotel) (*MemoryStore, error) {
	s := &MemoryStore{
		byID:   make(map[int64]*models.Hotel, len(hotels)),
		bySlug: make(map[string]int64, len(hotels)),
	}
	for i := range hotels {
		if _, err := s.Upsert(context.Background(), &hotels[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFound("catalog.FindByID", fmt.Sprintf("hotel %d", id))
	}
	return h.Clone(), nil
}

func (s *MemoryStore) FindBySlug(_ context.Context, slug string) (*models.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slug == "" {
		return nil, errs.NewNotFound("catalog.FindBySlug", "empty slug")
	}
	id, ok := s.bySlug[slug]
	if !ok {
		return nil, errs.NewNotFound("catalog.FindBySlug", fmt.Sprintf("hotel %q", slug))
	}
	return s.byID[id].Clone(), nil
}

// Resolve looks ident up as a slug first and falls back to a base-10 id.
func (s *MemoryStore) Resolve(ctx context.Context, ident string) (*models.Hotel, error) {
	ident = strings.TrimSpace(ident)
	if h, err := s.FindBySlug(ctx, ident); err == nil {
		return h, nil
	}
	id, err := strconv.ParseInt(ident, 10, 64)
	if err != nil {
		return nil, errs.NewNotFound("catalog.Resolve", fmt.Sprintf("no hotel with slug or id %q", ident))
	}
	h, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewNotFound("catalog.Resolve", fmt.Sprintf("no hotel with slug or id %q", ident))
	}
	return h, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hotel, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Upsert inserts h or overwrites the entry with the same id without a version
// check. It returns the stored version.
func (s *MemoryStore) Upsert(_ context.Context, h *models.Hotel) (uint64, error) {
	if err := checkEntry("catalog.Upsert", h); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkSlugLocked("catalog.Upsert", h); err != nil {
		return 0, err
	}
	var version uint64 = 1
	if cur, ok := s.byID[h.ID]; ok {
		version = cur.Version + 1
	} else {
		s.order = append(s.order, h.ID)
	}
	s.storeLocked(h, version)
	return version, nil
}

// Replace overwrites an existing entry wholesale. A non-zero expectedVersion
// must match the stored version or the write is rejected as stale.
func (s *MemoryStore) Replace(_ context.Context, h *models.Hotel, expectedVersion uint64) (uint64, error) {
	const op = "catalog.Replace"
	if err := checkEntry(op, h); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[h.ID]
	if !ok {
		return 0, errs.NewNotFound(op, fmt.Sprintf("hotel %d", h.ID))
	}
	if expectedVersion != 0 && cur.Version != expectedVersion {
		return 0, errs.NewStaleOverwrite(op, expectedVersion, cur.Version)
	}
	if err := s.checkSlugLocked(op, h); err != nil {
		return 0, err
	}
	version := cur.Version + 1
	s.storeLocked(h, version)
	return version, nil
}

func (s *MemoryStore) storeLocked(h *models.Hotel, version uint64) {
	if cur, ok := s.byID[h.ID]; ok && cur.Slug != "" {
		delete(s.bySlug, cur.Slug)
	}
	stored := h.Clone()
	stored.Version = version
	s.byID[h.ID] = stored
	if stored.Slug != "" {
		s.bySlug[stored.Slug] = stored.ID
	}
}

func (s *MemoryStore) checkSlugLocked(op string, h *models.Hotel) error {
	if h.Slug == "" {
		return nil
	}
	if owner, ok := s.bySlug[h.Slug]; ok && owner != h.ID {
		return errs.NewFieldValidation(op, "slug", fmt.Sprintf("%q is already used by hotel %d", h.Slug, owner))
	}
	return nil
}

func checkEntry(op string, h *models.Hotel) error {
	if h == nil {
		return errs.NewValidation(op, "hotel is required", nil)
	}
	if h.ID <= 0 {
		return errs.NewFieldValidation(op, "id", "must be a positive integer")
	}
	return nil
}
