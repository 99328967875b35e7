package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/roach88/museum/internal/backup"
	"github.com/roach88/museum/internal/catalog"
	"github.com/roach88/museum/internal/ingest"
	"github.com/roach88/museum/internal/record"
)

// Response types for JSON serialization

type ObjectListResponse struct {
	Headings []string        `json:"headings"`
	Objects  []record.Record `json:"objects"`
	Total    int             `json:"total"`
}

type ConflictEntry struct {
	ObjectID int64  `json:"objectId"`
	Message  string `json:"message"`
}

type UploadResponse struct {
	Success   string          `json:"success"`
	Result    ingest.Result   `json:"result"`
	Conflicts []ConflictEntry `json:"conflicts,omitempty"`
}

type RestoreResponse struct {
	Success string        `json:"success"`
	Result  ingest.Result `json:"result"`
}

// Handlers

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	recs, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ObjectListResponse{
		Headings: record.Header(),
		Objects:  recs,
		Total:    len(recs),
	})
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	rec, err := catalog.FromForm(values, true)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	created, err := s.catalog.Create(r.Context(), rec)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleEditObject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	values, err := readValues(w, r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	rec, err := catalog.FromForm(values, false)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	edited, err := s.catalog.Edit(r.Context(), id, rec)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, edited)
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: fmt.Sprintf("Object %d deleted", id)})
}

// handleDeleteProbe answers GET on the delete route without side effects.
func (s *Server) handleDeleteProbe(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(w, r); !ok {
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form with a csv_file field")
		return
	}

	file, header, err := r.FormFile("csv_file")
	if err != nil {
		s.writeDomainError(w, r, record.NewValidationError("csv_file", "no file was submitted"))
		return
	}
	defer file.Close()

	if err := ingest.CheckUploadName(header.Filename); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	mode, err := ingest.ParseMode(r.FormValue("mode"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := s.ingest.Ingest(r.Context(), payload, mode)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := UploadResponse{
		Success: fmt.Sprintf("Uploaded %d rows: %d inserted, %d skipped", result.Rows, result.Inserted, result.Skipped),
		Result:  result,
	}
	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictEntry{ObjectID: c.ObjectID, Message: c.Message})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.backup.Backup(r.Context())
	switch {
	case err != nil && record.IsTransport(err):
		s.logger.WarnContext(r.Context(), "backup failed", "error", err)
		writeError(w, http.StatusBadGateway, "Backup failed: "+causeOf(err))
	case err != nil:
		s.writeDomainError(w, r, err)
	case outcome == backup.OutcomeNothingToBackup:
		writeJSON(w, http.StatusOK, messageResponse{Error: outcome.Message()})
	default:
		writeJSON(w, http.StatusOK, messageResponse{Success: outcome.Message()})
	}
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	outcome, result, err := s.backup.Restore(r.Context())
	switch {
	case err != nil && record.IsTransport(err):
		s.logger.WarnContext(r.Context(), "restore failed", "error", err)
		writeError(w, http.StatusBadGateway, "Restore failed: "+causeOf(err))
	case err != nil:
		s.writeDomainError(w, r, err)
	case outcome == backup.OutcomeNothingToRestore:
		writeJSON(w, http.StatusOK, messageResponse{Error: outcome.Message()})
	default:
		writeJSON(w, http.StatusOK, RestoreResponse{Success: outcome.Message(), Result: result})
	}
}

// pathID parses the {id} path value. An unparsable id is reported as not
// found, like an unknown one.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: record.NewNotFoundError(0).Message})
		return 0, false
	}
	return id, true
}

// readValues reads a JSON object or a URL-encoded form into field values.
func readValues(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, record.WrapValidationError("invalid JSON body", err)
		}
		return catalog.FromJSON(obj)
	}

	if err := r.ParseForm(); err != nil {
		return nil, record.WrapValidationError("invalid form body", err)
	}
	values := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values, nil
}

// causeOf returns the message of the error wrapped by a domain error.
func causeOf(err error) string {
	var rerr *record.Error
	if errors.As(err, &rerr) && rerr.Err != nil {
		return rerr.Err.Error()
	}
	return err.Error()
}
