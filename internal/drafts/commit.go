package drafts

import (
	"context"
	"sort"

	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/events"
	"storefront-cms/pkg/logging"
)

// Save promotes the working copy to the session's baseline without touching
// the catalog. The saved changes accumulate as pending until the next publish.
func (s *Session) Save(ctx context.Context) error {
	const op = "drafts.Save"
	s.mu.Lock()
	if s.editing == nil {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateClosed), errs.ErrNoSession)
	}
	if len(s.changes) == 0 {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateClean), errs.ErrNothingToSave)
	}
	fields := s.changes.Fields()
	s.original = s.editing.Clone()
	s.pending.merge(s.changes)
	s.changes = ChangeSet{}
	now := s.deps.Now()
	s.lastSavedAt = &now
	s.touch()
	hotelID := s.editing.ID
	if len(s.pending) == 0 {
		s.deps.Drafts.Delete(hotelID)
	} else {
		s.deps.Drafts.Save(SavedDraft{
			HotelID:     hotelID,
			SessionID:   s.id,
			Hotel:       s.original,
			Pending:     s.pending,
			BaseVersion: s.baseVersion,
			SavedAt:     now,
		})
	}
	s.emit(ctx, events.New(events.TypeDraftSaved, hotelID, s.id, fields, 0))
	s.mu.Unlock()

	s.deps.Metrics.DraftsSaved.Inc()
	s.logger(ctx, hotelID).Info("draft saved", logging.Strings("fields", fields))
	return nil
}

// Publish writes the working copy over the catalog entry, guarded by the
// version the session last read. Publishing a clean session rewrites an
// identical copy.
func (s *Session) Publish(ctx context.Context) error {
	const op = "drafts.Publish"
	s.mu.Lock()
	if s.editing == nil {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateClosed), errs.ErrNoSession)
	}
	hotelID := s.editing.ID
	out := s.editing.Clone()
	version, err := s.deps.Catalog.Replace(ctx, out, s.baseVersion)
	if err != nil {
		base := s.baseVersion
		s.mu.Unlock()
		if errs.Is(err, errs.ErrStaleOverwrite) {
			s.deps.Metrics.PublishConflicts.Inc()
		}
		s.logger(ctx, hotelID).Warn("publish rejected", logging.Error(err), logging.Uint64("base_version", base))
		return err
	}

	published := unionFields(s.pending, s.changes)
	s.editing.Version = version
	s.original = s.editing.Clone()
	s.changes = ChangeSet{}
	s.pending = ChangeSet{}
	s.baseVersion = version
	now := s.deps.Now()
	s.lastPublishedAt = &now
	s.touch()
	s.deps.Drafts.Delete(hotelID)
	s.emit(ctx, events.New(events.TypeHotelPublished, hotelID, s.id, published, version))
	s.mu.Unlock()

	s.deps.Metrics.HotelsPublished.Inc()
	s.logger(ctx, hotelID).Info("hotel published",
		logging.Strings("fields", published), logging.Uint64("version", version))
	return nil
}

// Discard restores the working copy from the baseline. On a clean session it
// does nothing.
func (s *Session) Discard(ctx context.Context) error {
	const op = "drafts.Discard"
	s.mu.Lock()
	if s.editing == nil {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateClosed), errs.ErrNoSession)
	}
	dropped := s.changes.Fields()
	hotelID := s.editing.ID
	if len(dropped) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.editing = s.original.Clone()
	s.changes = ChangeSet{}
	s.touch()
	s.emit(ctx, events.New(events.TypeDraftDiscarded, hotelID, s.id, dropped, 0))
	s.mu.Unlock()

	s.deps.Metrics.DraftsDiscarded.Inc()
	s.logger(ctx, hotelID).Info("draft discarded", logging.Strings("fields", dropped))
	return nil
}

// Revert throws away both the unsaved changes and the hotel's saved draft and
// reloads the published entry.
func (s *Session) Revert(ctx context.Context) error {
	const op = "drafts.Revert"
	s.mu.Lock()
	if s.editing == nil {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateClosed), errs.ErrNoSession)
	}
	hotelID := s.editing.ID
	h, err := s.deps.Catalog.FindByID(ctx, hotelID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	dropped := unionFields(s.pending, s.changes)
	s.deps.Drafts.Delete(hotelID)
	s.original = h.Clone()
	s.editing = h
	s.changes = ChangeSet{}
	s.pending = ChangeSet{}
	s.baseVersion = h.Version
	s.lastSavedAt = nil
	s.touch()
	if len(dropped) > 0 {
		s.emit(ctx, events.New(events.TypeDraftDiscarded, hotelID, s.id, dropped, 0))
	}
	s.mu.Unlock()

	if len(dropped) > 0 {
		s.deps.Metrics.DraftsDiscarded.Inc()
	}
	s.logger(ctx, hotelID).Info("draft reverted to published", logging.Strings("fields", dropped),
		logging.Uint64("version", h.Version))
	return nil
}

func unionFields(sets ...ChangeSet) []string {
	seen := map[string]bool{}
	for _, set := range sets {
		for f := range set {
			seen[f] = true
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
