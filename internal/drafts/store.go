package drafts

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/logging"
)

// SessionStore provides thread-safe in-memory storage for draft sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
	limit    int
	log      *logging.ComponentLogger
}

// NewSessionStore creates a store; limit <= 0 means unbounded.
func NewSessionStore(deps Deps, limit int) *SessionStore {
	deps = deps.withDefaults()
	return &SessionStore{
		sessions: make(map[string]*Session),
		deps:     deps,
		limit:    limit,
		log:      deps.Logger.WithComponent("sessions"),
	}
}

// Create registers a new closed session with a random id.
func (st *SessionStore) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.limit > 0 && len(st.sessions) >= st.limit {
		return nil, errs.NewInvalidState("drafts.Create", "", errs.ErrSessionLimit)
	}
	s := NewSession(uuid.NewString(), st.deps)
	st.sessions[s.id] = s
	st.deps.Metrics.SessionsActive.Inc()
	st.log.Debug("session created", logging.String("session_id", s.id), logging.Int("active", len(st.sessions)))
	return s, nil
}

// Get retrieves a session if it exists
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete closes and removes a session. It reports whether the session existed.
func (st *SessionStore) Delete(ctx context.Context, id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
	if !ok {
		return false
	}
	s.Close(ctx)
	st.deps.Metrics.SessionsActive.Dec()
	return true
}

// Count returns the total number of sessions in the store
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// List returns a summary per session, oldest first.
func (st *SessionStore) List() []Summary {
	st.mu.RLock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.RUnlock()

	out := make([]Summary, 0, len(all))
	for _, s := range all {
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SavedDrafts lists the hotels with saved, unpublished drafts.
func (st *SessionStore) SavedDrafts() []DraftInfo {
	return st.deps.Drafts.List()
}

// HasSavedDraft reports whether the hotel has a saved, unpublished draft.
func (st *SessionStore) HasSavedDraft(hotelID int64) bool {
	return st.deps.Drafts.Has(hotelID)
}

// CloseAll closes every session; used on shutdown.
func (st *SessionStore) CloseAll(ctx context.Context) {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range all {
		s.Close(ctx)
		st.deps.Metrics.SessionsActive.Dec()
	}
}
