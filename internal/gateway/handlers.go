package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leapstack-labs/autocrud/pkg/adapter"
	"github.com/leapstack-labs/autocrud/pkg/core"
)

// Handlers provides the gateway's HTTP handlers.
type Handlers struct {
	tables TableManager
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tables TableManager, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{tables: tables, logger: logger}
}

// CreateTable handles POST /create {table, structure}.
func (h *Handlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	req, table, ok := h.decode(w, r)
	if !ok {
		return
	}

	sample, ok := parseStructure(req.Structure)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidStructure})
		return
	}

	if err := h.tables.CreateTable(r.Context(), table, sample); err != nil {
		h.fail(w, msgCreateFailed, table, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Table '%s' created.", table)})
}

// DeleteTable handles POST /delete {table}.
func (h *Handlers) DeleteTable(w http.ResponseWriter, r *http.Request) {
	_, table, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.tables.DropTable(r.Context(), table); err != nil {
		h.fail(w, msgDeleteFailed, table, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Table '%s' deleted.", table)})
}

// UpdateRows handles POST /update {table, setClause, condition?}.
// Both clauses are passed to the backend verbatim. An absent or null condition
// means 1=1. A condition of any other non-string type is rejected with 400
// rather than widened to every row.
func (h *Handlers) UpdateRows(w http.ResponseWriter, r *http.Request) {
	req, table, ok := h.decode(w, r)
	if !ok {
		return
	}

	setClause, ok := stringField(req.SetClause)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidSet})
		return
	}

	condition, ok := optionalStringField(req.Condition)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidCondition})
		return
	}

	if err := h.tables.AlterRows(r.Context(), table, setClause, condition); err != nil {
		h.fail(w, msgUpdateFailed, table, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Table '%s' updated.", table)})
}

// UnknownPath answers requests for paths other than the three endpoints.
// The body and table name are checked first, so a bad request is reported
// as such whatever path it was sent to.
func (h *Handlers) UnknownPath(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.decode(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusNotFound, errorResponse{Error: msgInvalidPath})
}

// decode parses the body and the table name, writing the 4xx response itself on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request) (*tableRequest, string, bool) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgBodyTooLarge})
			return nil, "", false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidJSON})
		return nil, "", false
	}

	table, ok := stringField(req.Table)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidTable})
		return nil, "", false
	}
	return &req, table, true
}

func (h *Handlers) fail(w http.ResponseWriter, msg, table string, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
		return
	}
	h.logger.Error(msg, "table", table, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg, Details: adapter.BackendMessage(err)})
}

// stringField reports the value of a JSON string that is non-empty after trimming.
func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// optionalStringField accepts an absent or null field as "".
func optionalStringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// parseStructure decodes a non-empty JSON object into a sample record.
func parseStructure(raw json.RawMessage) (*core.Record, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	rec := core.NewRecord()
	if err := rec.UnmarshalJSON(raw); err != nil {
		return nil, false
	}
	if rec.Len() == 0 {
		return nil, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
