package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wattquest/wattquest-core/internal/device"
	"github.com/wattquest/wattquest-core/internal/game"
	"github.com/wattquest/wattquest-core/internal/mission"
	"github.com/wattquest/wattquest-core/internal/persistence"
	"github.com/wattquest/wattquest-core/internal/routine"
	"github.com/wattquest/wattquest-core/internal/world"
)

// Error is the JSON body sent with every non-2xx response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Machine-readable error codes carried in Error.Code.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeOutOfRange = "out_of_range"
	ErrCodeInternal   = "internal_error"
)

// writeJSON encodes v to the response with the given status. A nil v sends
// headers only.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write; the client may be gone
		json.NewEncoder(w).Encode(v)
	}
}

// writeError sends a structured Error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{Status: status, Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps session errors onto HTTP responses. Anything not
// recognized falls through to a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, mission.ErrMissionNotFound),
		errors.Is(err, routine.ErrRoutineNotFound),
		errors.Is(err, game.ErrNoSave):
		writeNotFound(w, err.Error())
	case errors.Is(err, world.ErrTooFar):
		writeError(w, http.StatusConflict, ErrCodeOutOfRange, err.Error())
	case errors.Is(err, game.ErrBusy),
		errors.Is(err, game.ErrNotConnected),
		errors.Is(err, game.ErrCycleRunning),
		errors.Is(err, game.ErrNotWasher):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, game.ErrInvalidTab),
		errors.Is(err, persistence.ErrInvalidCode):
		writeBadRequest(w, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
