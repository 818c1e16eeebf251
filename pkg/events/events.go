package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Content events record the lifecycle of draft sessions and publications.
// Payloads stay small; the catalog holds the content itself.

const (
	TypeSessionOpened  = "session.opened"
	TypeDraftSaved     = "draft.saved"
	TypeDraftDiscarded = "draft.discarded"
	TypeHotelPublished = "hotel.published"
	TypeSessionClosed  = "session.closed"
)

// Event is a single audit entry for a hotel.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	HotelID   int64     `json:"hotel_id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
	// Fields lists the hotel fields involved (changed, saved or published).
	Fields []string `json:"fields,omitempty"`
	// Version is the catalog version after a publish, or the version the session opened.
	Version uint64 `json:"version,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(typ string, hotelID int64, sessionID string, fields []string, version uint64) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		HotelID:   hotelID,
		SessionID: sessionID,
		At:        time.Now().UTC(),
		Fields:    fields,
		Version:   version,
	}
}

// StoredEvent is an Event plus its store-assigned sequence number.
type StoredEvent struct {
	Seq int64 `json:"seq"`
	Event
}

// EventStore persists events. Implementations keep append order per hotel.
type EventStore interface {
	Append(ctx context.Context, ev ...Event) error
	ListByHotel(ctx context.Context, hotelID int64) ([]StoredEvent, error)
	List(ctx context.Context, limit int) ([]StoredEvent, error)
	Replay(ctx context.Context, hotelID int64) (*HotelState, error)
}

// HotelState is what replaying a hotel's events yields.
type HotelState struct {
	HotelID         int64      `json:"hotel_id"`
	LastUpdated     time.Time  `json:"last_updated"`
	LastSavedAt     *time.Time `json:"last_saved_at,omitempty"`
	LastPublishedAt *time.Time `json:"last_published_at,omitempty"`
	Publications    int        `json:"publications"`
	Saves           int        `json:"saves"`
	Discards        int        `json:"discards"`
	OpenSessions    int        `json:"open_sessions"`
	PublishedVer    uint64     `json:"published_version"`
	LastFields      []string   `json:"last_fields,omitempty"`
}

// Replay applies events in order and rebuilds state.
func Replay(hotelID int64, events []StoredEvent) *HotelState {
	st := &HotelState{HotelID: hotelID}
	open := map[string]bool{}
	for _, se := range events {
		st.LastUpdated = se.At
		switch se.Type {
		case TypeSessionOpened:
			open[se.SessionID] = true
		case TypeSessionClosed:
			delete(open, se.SessionID)
		case TypeDraftSaved:
			at := se.At
			st.LastSavedAt = &at
			st.Saves++
			st.LastFields = se.Fields
		case TypeDraftDiscarded:
			st.Discards++
		case TypeHotelPublished:
			at := se.At
			st.LastPublishedAt = &at
			st.Publications++
			st.PublishedVer = se.Version
			st.LastFields = se.Fields
		}
	}
	st.OpenSessions = len(open)
	return st
}
