// Package drafts implements the draft/edit/publish engine behind the owner
// dashboard: a private working copy of one catalog hotel, a diff of every
// field touched, and atomic save, publish and discard.
package drafts

import (
	"context"
	"sync"
	"time"

	"storefront-cms/internal/catalog"
	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/events"
	"storefront-cms/pkg/logging"
	"storefront-cms/pkg/metrics"
)

// State is the lifecycle state of a session.
type State string

const (
	StateClosed State = "closed"
	StateClean  State = "clean"
	StateDirty  State = "dirty"
)

// Deps are the collaborators shared by every session of a store.
type Deps struct {
	Catalog catalog.Store
	Events  events.EventStore // optional
	Logger  *logging.Logger   // optional
	Metrics *metrics.Editor   // optional
	Drafts  *DraftStore       // optional, saved drafts by hotel id
	Now     func() time.Time  // optional, for tests
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewEditor(nil)
	}
	if d.Drafts == nil {
		d.Drafts = NewDraftStore()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// Session is one editor's working copy of at most one hotel. All methods are
// safe for concurrent use; operations run to completion under the session lock.
type Session struct {
	mu   sync.Mutex
	id   string
	deps Deps
	log  *logging.ComponentLogger

	original *models.Hotel
	editing  *models.Hotel
	changes  ChangeSet
	pending  ChangeSet

	baseVersion     uint64
	lastSavedAt     *time.Time
	lastPublishedAt *time.Time
	visibility      map[string]bool

	createdAt time.Time
	updatedAt time.Time
}

// NewSession returns a closed session.
func NewSession(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	now := deps.Now()
	return &Session{
		id:         id,
		deps:       deps,
		log:        deps.Logger.WithComponent("drafts"),
		changes:    ChangeSet{},
		pending:    ChangeSet{},
		visibility: defaultVisibility(),
		createdAt:  now,
		updatedAt:  now,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Open loads the hotel identified by ident (slug first, then numeric id) into
// the session. A saved, unpublished draft of that hotel is restored instead of
// the published entry. It fails with ErrUnsavedChanges while the session is
// dirty and leaves the session untouched when the hotel does not exist.
func (s *Session) Open(ctx context.Context, ident string) error {
	const op = "drafts.Open"
	s.mu.Lock()
	if len(s.changes) > 0 {
		s.mu.Unlock()
		return errs.NewInvalidState(op, string(StateDirty), errs.ErrUnsavedChanges)
	}
	h, err := s.deps.Catalog.Resolve(ctx, ident)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	var closing *models.Hotel
	if s.editing != nil && s.editing.ID != h.ID {
		closing = s.editing
	}
	s.original = h.Clone()
	s.editing = h
	s.changes = ChangeSet{}
	s.pending = ChangeSet{}
	s.baseVersion = h.Version
	s.lastSavedAt = nil
	s.lastPublishedAt = nil
	d, restored := s.deps.Drafts.Get(h.ID)
	if restored {
		s.original = d.Hotel
		s.editing = d.Hotel.Clone()
		s.pending = d.Pending
		s.baseVersion = d.BaseVersion
		s.lastSavedAt = &d.SavedAt
	}
	s.visibility = defaultVisibility()
	s.touch()

	var evs []events.Event
	if closing != nil {
		evs = append(evs, events.New(events.TypeSessionClosed, closing.ID, s.id, nil, 0))
	}
	evs = append(evs, events.New(events.TypeSessionOpened, h.ID, s.id, nil, h.Version))
	s.emit(ctx, evs...)
	s.mu.Unlock()

	s.deps.Metrics.SessionsOpened.Inc()
	log := s.logger(ctx, h.ID)
	log.Info("hotel opened for editing", logging.String("slug", h.Slug), logging.Uint64("version", h.Version),
		logging.Bool("restored_draft", restored))
	if restored && d.BaseVersion != h.Version {
		log.Warn("saved draft is behind the catalog", logging.Uint64("draft_version", d.BaseVersion),
			logging.Uint64("catalog_version", h.Version))
	}
	return nil
}

// Close drops the session's working copy unconditionally. Saved drafts stay
// in the draft store and come back on the next Open of their hotel.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	closed := s.editing
	s.original = nil
	s.editing = nil
	s.changes = ChangeSet{}
	s.pending = ChangeSet{}
	s.baseVersion = 0
	s.lastSavedAt = nil
	s.lastPublishedAt = nil
	s.touch()
	if closed != nil {
		s.emit(ctx, events.New(events.TypeSessionClosed, closed.ID, s.id, nil, 0))
	}
	s.mu.Unlock()

	if closed != nil {
		s.logger(ctx, closed.ID).Debug("session closed")
	}
}

// Editing returns a copy of the working copy, or nil when closed.
func (s *Session) Editing() *models.Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing.Clone()
}

// Original returns a copy of the last saved or published state, or nil when closed.
func (s *Session) Original() *models.Hotel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original.Clone()
}

// ActiveID returns the id of the open hotel.
func (s *Session) ActiveID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return 0, false
	}
	return s.editing.ID, true
}

// State returns Closed, Clean or Dirty.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// HasUnsavedChanges reports whether the working copy differs from the baseline.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.changes) > 0
}

// Changes returns a copy of the unsaved change set.
func (s *Session) Changes() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes.Clone()
}

// ChangeCount returns the number of fields with unsaved changes.
func (s *Session) ChangeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.changes)
}

// PendingChanges returns the saved-but-unpublished changes.
func (s *Session) PendingChanges() ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Clone()
}

// HasPendingChanges reports whether saved changes are waiting to be published.
func (s *Session) HasPendingChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Snapshot is everything a UI needs to render the editor in one read.
type Snapshot struct {
	SessionID         string          `json:"sessionId"`
	State             State           `json:"state"`
	ActiveHotelID     *int64          `json:"activeHotelId"`
	Editing           *models.Hotel   `json:"editing,omitempty"`
	Original          *models.Hotel   `json:"original,omitempty"`
	Changes           ChangeSet       `json:"changes"`
	ChangeCount       int             `json:"changeCount"`
	HasUnsavedChanges bool            `json:"hasUnsavedChanges"`
	PendingChanges    ChangeSet       `json:"pendingChanges"`
	HasPendingChanges bool            `json:"hasPendingChanges"`
	BaseVersion       uint64          `json:"baseVersion"`
	LastSavedAt       *time.Time      `json:"lastSavedAt,omitempty"`
	LastPublishedAt   *time.Time      `json:"lastPublishedAt,omitempty"`
	Visibility        map[string]bool `json:"visibility"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Snapshot returns a consistent copy of the whole session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SessionID:         s.id,
		State:             s.stateLocked(),
		Editing:           s.editing.Clone(),
		Original:          s.original.Clone(),
		Changes:           s.changes.Clone(),
		ChangeCount:       len(s.changes),
		HasUnsavedChanges: len(s.changes) > 0,
		PendingChanges:    s.pending.Clone(),
		HasPendingChanges: len(s.pending) > 0,
		BaseVersion:       s.baseVersion,
		LastSavedAt:       copyTime(s.lastSavedAt),
		LastPublishedAt:   copyTime(s.lastPublishedAt),
		Visibility:        copyVisibility(s.visibility),
		UpdatedAt:         s.updatedAt,
	}
	if s.editing != nil {
		id := s.editing.ID
		snap.ActiveHotelID = &id
	}
	return snap
}

// Summary is the store-level listing entry for a session.
type Summary struct {
	ID            string    `json:"id"`
	ActiveHotelID *int64    `json:"activeHotelId"`
	State         State     `json:"state"`
	ChangeCount   int       `json:"changeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Summary returns the listing entry for the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		ID:          s.id,
		State:       s.stateLocked(),
		ChangeCount: len(s.changes),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
	if s.editing != nil {
		id := s.editing.ID
		sum.ActiveHotelID = &id
	}
	return sum
}

func (s *Session) stateLocked() State {
	switch {
	case s.editing == nil:
		return StateClosed
	case len(s.changes) > 0:
		return StateDirty
	default:
		return StateClean
	}
}

// mutate applies fn to a copy of the working copy and commits it only when fn
// succeeds, then refreshes the change entries for fields.
func (s *Session) mutate(op string, fields []string, fn func(h *models.Hotel) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return errs.NewInvalidState(op, string(StateClosed), errs.ErrNoSession)
	}
	work := s.editing.Clone()
	if err := fn(work); err != nil {
		return err
	}
	s.editing = work
	for _, f := range fields {
		s.changes.record(f, s.original, s.editing)
	}
	s.touch()
	return nil
}

func (s *Session) touch() { s.updatedAt = s.deps.Now() }

// emit records events; failures are logged and never surface to the editor.
// Callers hold s.mu so a session's events are appended in operation order.
func (s *Session) emit(ctx context.Context, evs ...events.Event) {
	if s.deps.Events == nil || len(evs) == 0 {
		return
	}
	if err := s.deps.Events.Append(context.WithoutCancel(ctx), evs...); err != nil {
		s.log.With(logging.WithSessionID(ctx, s.id)).Warn("failed to record content events",
			logging.Error(err), logging.Int("count", len(evs)))
	}
}

func (s *Session) logger(ctx context.Context, hotelID int64) *logging.ContextLogger {
	return s.log.With(logging.WithHotelID(logging.WithSessionID(ctx, s.id), hotelID))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
