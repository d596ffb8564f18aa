package fakeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"listkeeper/internal/domain/entity"
)

// fieldErrors is the service's validation error body: field name to messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) requireName(field, value string, maxLen int) {
	switch {
	case strings.TrimSpace(value) == "":
		fe.add(field, "This field may not be blank.")
	case utf8.RuneCountInString(value) > maxLen:
		fe.add(field, "Ensure this field has no more than "+strconv.Itoa(maxLen)+" characters.")
	}
}

func (fe fieldErrors) limit(field, value string, maxLen int) {
	if utf8.RuneCountInString(value) > maxLen {
		fe.add(field, "Ensure this field has no more than "+strconv.Itoa(maxLen)+" characters.")
	}
}

func (fe fieldErrors) date(field, value string) {
	if _, err := time.Parse(entity.DateLayout, value); err != nil {
		fe.add(field, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
}

func (fe fieldErrors) empty() bool { return len(fe) == 0 }

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already sent
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func writeBadRequest(w http.ResponseWriter, fe fieldErrors) {
	writeJSON(w, http.StatusBadRequest, fe)
}

// writeStoreError maps store errors onto service responses.
func writeStoreError(w http.ResponseWriter, field string, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, ErrInvalidReference):
		writeBadRequest(w, fieldErrors{field: {"Invalid pk - object does not exist: " + err.Error()}})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "A server error occurred."})
	}
}

// decode reads a JSON body; a malformed body yields a DRF-style parse error.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	return true
}
