package admin

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"storefront-cms/internal/models"
	"storefront-cms/internal/validation"
	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/events"
	"storefront-cms/pkg/logging"
)

// listHotels handles GET /api/hotels
func (h *Handler) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.catalog.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, strconv.Itoa(len(hotels))+" hotels", map[string]any{"hotels": hotels})
}

// getHotel handles GET /api/hotels/{ident}, by slug or id.
func (h *Handler) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.catalog.Resolve(r.Context(), mux.Vars(r)["ident"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "ok", map[string]any{"hotel": hotel, "hasSavedDraft": h.sessions.HasSavedDraft(hotel.ID)})
}

// upsertHotel handles PUT /api/hotels. It writes straight to the catalog
// without a draft and is meant for seeding and imports.
func (h *Handler) upsertHotel(w http.ResponseWriter, r *http.Request) {
	var hotel models.Hotel
	if err := decode(r, &hotel, false); err != nil {
		h.fail(w, r, err)
		return
	}
	if problems := validation.ValidateHotel(&hotel); len(problems) > 0 {
		respond(w, http.StatusBadRequest, "Validation failed", map[string]any{"errors": problems})
		return
	}
	version, err := h.catalog.Upsert(r.Context(), &hotel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.With(logging.WithHotelID(r.Context(), hotel.ID)).Info("hotel upserted", logging.Uint64("version", version))
	saved, err := h.catalog.FindByID(r.Context(), hotel.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Hotel saved", map[string]any{"hotel": saved})
}

// hotelHistory handles GET /api/hotels/{ident}/history
func (h *Handler) hotelHistory(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.catalog.Resolve(r.Context(), mux.Vars(r)["ident"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.events == nil {
		respond(w, http.StatusOK, "event history disabled", map[string]any{"events": []events.StoredEvent{}})
		return
	}
	evs, err := h.events.ListByHotel(r.Context(), hotel.ID)
	if err != nil {
		h.fail(w, r, errs.NewDB("admin.history", "list events", err))
		return
	}
	state, err := h.events.Replay(r.Context(), hotel.ID)
	if err != nil {
		h.fail(w, r, errs.NewDB("admin.history", "replay events", err))
		return
	}
	if evs == nil {
		evs = []events.StoredEvent{}
	}
	respond(w, http.StatusOK, "ok", map[string]any{"events": evs, "state": state})
}
