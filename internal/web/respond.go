package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roach88/museum/internal/record"
)

type messageResponse struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

type errorResponse struct {
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
	Line   int                 `json:"line,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code record.ErrorCode) int {
	switch code {
	case record.ErrCodeValidation:
		return http.StatusBadRequest
	case record.ErrCodeConflict:
		return http.StatusConflict
	case record.ErrCodeNotFound:
		return http.StatusNotFound
	case record.ErrCodeTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeDomainError renders err. Field-bound errors use the errors map keyed
// by field name; unclassified errors are logged and hidden.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var rerr *record.Error
	if !errors.As(err, &rerr) {
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := errorResponse{Line: rerr.Line}
	if rerr.Field != "" {
		resp.Errors = map[string][]string{rerr.Field: {rerr.Message}}
	} else {
		resp.Error = rerr.Message
		if rerr.Err != nil && rerr.Code != record.ErrCodeTransport {
			resp.Error += ": " + rerr.Err.Error()
		}
	}
	if rerr.Code == record.ErrCodeTransport {
		s.logger.WarnContext(r.Context(), "blob storage failure", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, statusFor(rerr.Code), resp)
}
