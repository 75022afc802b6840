package server

import (
	"encoding/json"
	"net/http"

	"github.com/diagram-to-project/generator/internal/result"
)

// StatusOf maps an error code to an HTTP status.
func StatusOf(code result.Code) int {
	switch code {
	case result.ParseError, result.ConfigError:
		return http.StatusBadRequest
	case result.ValidationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeFailure writes err as a result.Failure with the status of its code.
func writeFailure(w http.ResponseWriter, err error, details []result.Error) {
	f := result.NewFailure(err)
	f.Errors = details
	writeJSON(w, f, StatusOf(f.Code))
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeFailure(w, result.Errorf(result.ParseError, format, args...), nil)
}
