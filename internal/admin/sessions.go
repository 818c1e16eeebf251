package admin

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"storefront-cms/internal/drafts"
	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/logging"
)

type sessionFunc func(w http.ResponseWriter, r *http.Request, s *drafts.Session) error

// withSession looks up {sid} and tags the request context with it.
func (h *Handler) withSession(fn sessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := mux.Vars(r)["sid"]
		s, ok := h.sessions.Get(sid)
		if !ok {
			h.fail(w, r, errs.NewNotFound("admin.session", "session "+sid))
			return
		}
		r = r.WithContext(logging.WithSessionID(r.Context(), sid))
		if err := fn(w, r, s); err != nil {
			h.fail(w, r, err)
		}
	}
}

// mutation runs fn and answers with the fresh snapshot.
func (h *Handler) mutation(message string, fn func(r *http.Request, s *drafts.Session) error) http.HandlerFunc {
	return h.withSession(func(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
		if err := fn(r, s); err != nil {
			return err
		}
		respond(w, http.StatusOK, message, map[string]any{"session": s.Snapshot()})
		return nil
	})
}

type openRequest struct {
	Hotel string `json:"hotel"`
}

// createSession handles POST /api/sessions with an optional {"hotel": ident}.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.sessions.Create()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ident := strings.TrimSpace(req.Hotel); ident != "" {
		if err := s.Open(r.Context(), ident); err != nil {
			h.sessions.Delete(r.Context(), s.ID())
			h.fail(w, r, err)
			return
		}
	}
	respond(w, http.StatusCreated, "Session created", map[string]any{"session": s.Snapshot()})
}

// listSessions handles GET /api/sessions
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "ok", map[string]any{"sessions": h.sessions.List()})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	respond(w, http.StatusOK, "ok", map[string]any{"session": s.Snapshot()})
	return nil
}

// deleteSession handles DELETE /api/sessions/{sid}; unsaved edits are dropped.
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]
	if !h.sessions.Delete(logging.WithSessionID(r.Context(), sid), sid) {
		h.fail(w, r, errs.NewNotFound("admin.session", "session "+sid))
		return
	}
	respond(w, http.StatusOK, "Session deleted", nil)
}

func (h *Handler) openHotel(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	var req openRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	if strings.TrimSpace(req.Hotel) == "" {
		return errs.NewFieldValidation("admin.open", "hotel", "slug or id is required")
	}
	if err := s.Open(r.Context(), strings.TrimSpace(req.Hotel)); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Hotel opened", map[string]any{"session": s.Snapshot()})
	return nil
}

func (h *Handler) closeHotel(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	s.Close(r.Context())
	respond(w, http.StatusOK, "Session closed", map[string]any{"session": s.Snapshot()})
	return nil
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	if err := s.Save(r.Context()); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Draft saved successfully", map[string]any{"session": s.Snapshot()})
	return nil
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	if err := s.Publish(r.Context()); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Hotel published", map[string]any{"session": s.Snapshot()})
	return nil
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	if err := s.Discard(r.Context()); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Draft discarded", map[string]any{"session": s.Snapshot()})
	return nil
}

// revert handles POST /api/sessions/{sid}/revert: drops the saved draft too.
func (h *Handler) revert(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	if err := s.Revert(r.Context()); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Draft reverted to published", map[string]any{"session": s.Snapshot()})
	return nil
}

// listDrafts handles GET /api/drafts
func (h *Handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "ok", map[string]any{"drafts": h.sessions.SavedDrafts()})
}

func (h *Handler) changes(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	snap := s.Snapshot()
	respond(w, http.StatusOK, "ok", map[string]any{
		"changes":           snap.Changes,
		"changeCount":       snap.ChangeCount,
		"hasUnsavedChanges": snap.HasUnsavedChanges,
		"pendingChanges":    snap.PendingChanges,
		"hasPendingChanges": snap.HasPendingChanges,
	})
	return nil
}

func (h *Handler) visibility(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	respond(w, http.StatusOK, "ok", map[string]any{"visibility": s.Visibility()})
	return nil
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	var req visibilityRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	if req.Visible == nil {
		return errs.NewFieldValidation("admin.visibility", "visible", "is required")
	}
	if err := s.SetVisibility(mux.Vars(r)["section"], *req.Visible); err != nil {
		return err
	}
	respond(w, http.StatusOK, "Visibility updated", map[string]any{"visibility": s.Visibility()})
	return nil
}

func (h *Handler) toggleVisibility(w http.ResponseWriter, r *http.Request, s *drafts.Session) error {
	section := mux.Vars(r)["section"]
	visible, err := s.ToggleVisibility(section)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, "Visibility toggled", map[string]any{"section": section, "visible": visible, "visibility": s.Visibility()})
	return nil
}
