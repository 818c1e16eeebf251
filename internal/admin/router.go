// Package admin exposes the draft engine and the catalog as a JSON API for
// the owner dashboard.
package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront-cms/internal/catalog"
	"storefront-cms/internal/drafts"
	"storefront-cms/pkg/events"
	"storefront-cms/pkg/logging"
)

// Handler serves the admin API.
type Handler struct {
	sessions *drafts.SessionStore
	catalog  catalog.Store
	events   events.EventStore
	log      *logging.ComponentLogger
}

// NewHandler wires the API. ev may be nil, in which case history is empty.
func NewHandler(sessions *drafts.SessionStore, cat catalog.Store, ev events.EventStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{sessions: sessions, catalog: cat, events: ev, log: logger.WithComponent("admin")}
}

// Register mounts every route under /api on r.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/hotels", h.listHotels).Methods(http.MethodGet)
	api.HandleFunc("/hotels", h.upsertHotel).Methods(http.MethodPut)
	api.HandleFunc("/hotels/{ident}", h.getHotel).Methods(http.MethodGet)
	api.HandleFunc("/hotels/{ident}/history", h.hotelHistory).Methods(http.MethodGet)

	api.HandleFunc("/drafts", h.listDrafts).Methods(http.MethodGet)

	api.HandleFunc("/sessions", h.createSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.listSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sid}", h.withSession(h.getSession)).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sid}", h.deleteSession).Methods(http.MethodDelete)

	s := api.PathPrefix("/sessions/{sid}").Subrouter()
	s.HandleFunc("/open", h.withSession(h.openHotel)).Methods(http.MethodPost)
	s.HandleFunc("/close", h.withSession(h.closeHotel)).Methods(http.MethodPost)
	s.HandleFunc("/save", h.withSession(h.save)).Methods(http.MethodPost)
	s.HandleFunc("/publish", h.withSession(h.publish)).Methods(http.MethodPost)
	s.HandleFunc("/discard", h.withSession(h.discard)).Methods(http.MethodPost)
	s.HandleFunc("/revert", h.withSession(h.revert)).Methods(http.MethodPost)
	s.HandleFunc("/changes", h.withSession(h.changes)).Methods(http.MethodGet)

	s.HandleFunc("/fields", h.mutation("Field updated", setFields)).Methods(http.MethodPatch)

	s.HandleFunc("/images", h.mutation("Image added", addImage)).Methods(http.MethodPost)
	s.HandleFunc("/images/{index}", h.mutation("Image updated", setImage)).Methods(http.MethodPut)
	s.HandleFunc("/images/{index}", h.mutation("Image removed", removeImage)).Methods(http.MethodDelete)

	s.HandleFunc("/amenities", h.mutation("Amenities updated", setAmenities)).Methods(http.MethodPut)
	s.HandleFunc("/amenities", h.mutation("Amenity added", addAmenity)).Methods(http.MethodPost)
	s.HandleFunc("/amenities/{label}", h.mutation("Amenity removed", removeAmenity)).Methods(http.MethodDelete)
	s.HandleFunc("/policies", h.mutation("Policies updated", setPolicies)).Methods(http.MethodPut)

	s.HandleFunc("/rooms", h.mutation("Room added", addRoom)).Methods(http.MethodPost)
	s.HandleFunc("/rooms/{roomID}", h.mutation("Room updated", updateRoom)).Methods(http.MethodPatch)
	s.HandleFunc("/rooms/{roomID}", h.mutation("Room removed", removeRoom)).Methods(http.MethodDelete)

	s.HandleFunc("/gallery", h.mutation("Gallery item added", addGalleryItem)).Methods(http.MethodPost)
	s.HandleFunc("/gallery", h.mutation("Gallery replaced", setGallery)).Methods(http.MethodPut)
	s.HandleFunc("/gallery/{index}", h.mutation("Gallery item updated", updateGalleryItem)).Methods(http.MethodPut)
	s.HandleFunc("/gallery/{index}", h.mutation("Gallery item removed", removeGalleryItem)).Methods(http.MethodDelete)

	s.HandleFunc("/contact-fields", h.mutation("Contact field added", addContactField)).Methods(http.MethodPost)
	s.HandleFunc("/contact-fields", h.mutation("Contact fields replaced", setContactFields)).Methods(http.MethodPut)
	s.HandleFunc("/contact-fields/{index}", h.mutation("Contact field updated", updateContactField)).Methods(http.MethodPut)
	s.HandleFunc("/contact-fields/{index}", h.mutation("Contact field removed", removeContactField)).Methods(http.MethodDelete)

	s.HandleFunc("/features", h.mutation("Feature added", addFeature)).Methods(http.MethodPost)
	s.HandleFunc("/features", h.mutation("Features replaced", setFeatures)).Methods(http.MethodPut)
	s.HandleFunc("/features/{index}", h.mutation("Feature updated", updateFeature)).Methods(http.MethodPut)
	s.HandleFunc("/features/{index}", h.mutation("Feature removed", removeFeature)).Methods(http.MethodDelete)

	s.HandleFunc("/amenity-categories", h.mutation("Category added", addAmenityCategory)).Methods(http.MethodPost)
	s.HandleFunc("/amenity-categories", h.mutation("Categories replaced", setAmenityCategories)).Methods(http.MethodPut)
	s.HandleFunc("/amenity-categories/{index}", h.mutation("Category removed", removeAmenityCategory)).Methods(http.MethodDelete)
	s.HandleFunc("/amenity-categories/{index}/items", h.mutation("Category item added", addAmenityToCategory)).Methods(http.MethodPost)
	s.HandleFunc("/amenity-categories/{index}/items/{item}", h.mutation("Category item removed", removeAmenityFromCategory)).Methods(http.MethodDelete)

	s.HandleFunc("/visibility", h.withSession(h.visibility)).Methods(http.MethodGet)
	s.HandleFunc("/visibility/{section}", h.withSession(h.setVisibility)).Methods(http.MethodPut)
	s.HandleFunc("/visibility/{section}/toggle", h.withSession(h.toggleVisibility)).Methods(http.MethodPost)
}
