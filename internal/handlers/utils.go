package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeError maps err onto the HTTP response: coded errors keep their
// status and stable code, missing objects become a plain 404 with the
// standard reason phrase, everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var coded *errs.Error
	if errors.As(err, &coded) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(coded.StatusCode)
		writeJSON(w, coded)
		return
	}
	if errs.IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	logging.Error("internal error: %v", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
