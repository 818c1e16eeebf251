package drafts

import (
	"sort"
	"sync"
	"time"

	"storefront-cms/internal/models"
)

// SavedDraft is a hotel's saved but unpublished state: the promoted baseline
// and the changes it holds over the published entry.
type SavedDraft struct {
	HotelID     int64         `json:"hotelId"`
	SessionID   string        `json:"sessionId"`
	Hotel       *models.Hotel `json:"hotel"`
	Pending     ChangeSet     `json:"pendingChanges"`
	BaseVersion uint64        `json:"baseVersion"`
	SavedAt     time.Time     `json:"savedAt"`
}

func (d SavedDraft) clone() SavedDraft {
	d.Hotel = d.Hotel.Clone()
	d.Pending = d.Pending.Clone()
	return d
}

// DraftInfo is the listing entry for a saved draft.
type DraftInfo struct {
	HotelID     int64     `json:"hotelId"`
	SessionID   string    `json:"sessionId"`
	Fields      []string  `json:"fields"`
	BaseVersion uint64    `json:"baseVersion"`
	SavedAt     time.Time `json:"savedAt"`
}

// DraftStore provides thread-safe in-memory storage for saved hotel drafts,
// keyed by hotel id so a draft outlives the session that saved it.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[int64]SavedDraft
}

// NewDraftStore creates an empty draft store
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[int64]SavedDraft)}
}

// Save stores or replaces the draft for d.HotelID. The last save wins.
func (ds *DraftStore) Save(d SavedDraft) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.drafts[d.HotelID] = d.clone()
}

// Get retrieves a copy of the draft for a hotel if it exists
func (ds *DraftStore) Get(hotelID int64) (SavedDraft, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	d, ok := ds.drafts[hotelID]
	if !ok {
		return SavedDraft{}, false
	}
	return d.clone(), true
}

// Delete removes a hotel's draft
func (ds *DraftStore) Delete(hotelID int64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.drafts, hotelID)
}

// Has reports whether a hotel has a saved, unpublished draft.
func (ds *DraftStore) Has(hotelID int64) bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	_, ok := ds.drafts[hotelID]
	return ok
}

// Count returns the total number of drafts in the store
func (ds *DraftStore) Count() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.drafts)
}

// List returns one entry per saved draft ordered by hotel id.
func (ds *DraftStore) List() []DraftInfo {
	ds.mu.RLock()
	out := make([]DraftInfo, 0, len(ds.drafts))
	for _, d := range ds.drafts {
		out = append(out, DraftInfo{
			HotelID:     d.HotelID,
			SessionID:   d.SessionID,
			Fields:      d.Pending.Fields(),
			BaseVersion: d.BaseVersion,
			SavedAt:     d.SavedAt,
		})
	}
	ds.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].HotelID < out[j].HotelID })
	return out
}
