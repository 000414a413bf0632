package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Antoink/SDRV3/internal/cmj"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/team"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("missing or invalid API key")
	ErrNoCMJ        = errors.New("CMJ dataset unavailable")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusOf maps domain errors to an HTTP status and an error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, session.ErrUnknownField),
		errors.Is(err, cmj.ErrUnknownKPI),
		errors.Is(err, cmj.ErrTooMany):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, profile.ErrNotFound),
		errors.Is(err, session.ErrUnknownAthlete),
		errors.Is(err, cmj.ErrNoAthlete),
		errors.Is(err, team.ErrNoColumn):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrNoDataset), errors.Is(err, ErrNoCMJ):
		return http.StatusConflict, "no_dataset"
	case errors.Is(err, dataset.ErrNoIdentifier),
		errors.Is(err, dataset.ErrEmpty),
		errors.Is(err, dataset.ErrUnsupported):
		return http.StatusUnprocessableEntity, "invalid_dataset"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func fail(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}
