package metrics

// Editor groups the instruments recorded by the draft engine and the admin API.
type Editor struct {
	SessionsOpened    *Counter
	DraftsSaved       *Counter
	HotelsPublished   *Counter
	DraftsDiscarded   *Counter
	PublishConflicts  *Counter
	SessionsActive    *Gauge
	RequestDuration   *Histogram
	RequestsByFailure *Counter
}

// NewEditor registers the editor instruments on r. Calling it twice with the
// same registry returns instruments backed by the same values.
func NewEditor(r *Registry) *Editor {
	if r == nil {
		r = NewRegistry()
	}
	return &Editor{
		SessionsOpened:    r.Counter("sessions_opened_total", "Hotels opened into a draft session"),
		DraftsSaved:       r.Counter("drafts_saved_total", "Draft saves"),
		HotelsPublished:   r.Counter("hotels_published_total", "Drafts published to the live catalog"),
		DraftsDiscarded:   r.Counter("drafts_discarded_total", "Discards that dropped unsaved changes"),
		PublishConflicts:  r.Counter("publish_conflicts_total", "Publishes rejected because the catalog entry changed"),
		SessionsActive:    r.Gauge("draft_sessions_active", "Draft sessions currently held by the server"),
		RequestDuration:   r.Histogram("admin_request_duration_seconds", "Admin API request latency", []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}),
		RequestsByFailure: r.Counter("admin_request_errors_total", "Admin API responses with status >= 500"),
	}
}
