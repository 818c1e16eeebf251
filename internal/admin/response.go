package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	errs "storefront-cms/pkg/errors"
	"storefront-cms/pkg/logging"
)

const maxBodyBytes = 1 << 20

// respond writes the {"success", "message", ...payload} envelope.
func respond(w http.ResponseWriter, status int, message string, payload map[string]any) {
	body := map[string]any{"success": status < http.StatusBadRequest, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func statusFor(err error) int {
	switch {
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrSessionLimit):
		return http.StatusTooManyRequests
	case errs.Is(err, errs.ErrStaleOverwrite), errs.Is(err, errs.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail maps err onto a status code and writes the error envelope. Internal
// failures are logged and hidden from the caller.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	payload := map[string]any{}
	msg := err.Error()

	var ve *errs.ValidationError
	if errors.As(err, &ve) && ve.Field != "" {
		payload["errors"] = map[string]string{ve.Field: ve.Msg}
	}
	var ce *errs.ConflictError
	if errors.As(err, &ce) {
		payload["expectedVersion"] = ce.Expected
		payload["currentVersion"] = ce.Actual
	}
	if status == http.StatusInternalServerError {
		h.log.With(r.Context()).Error("request failed", err, logging.String("path", r.URL.Path))
		msg = "internal error"
	}
	respond(w, status, msg, payload)
}

// decode reads a JSON body into dst. With optional set an empty body is accepted.
func decode(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return errs.NewValidation("admin.decode", "invalid JSON body", err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewFieldValidation("admin.path", name, "must be an integer, got "+strconv.Quote(raw))
	}
	return n, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewFieldValidation("admin.path", name, "must be an integer, got "+strconv.Quote(raw))
	}
	return n, nil
}
