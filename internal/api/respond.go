package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

func ticketNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "ticket not found")
}

// decodeBody reads a JSON body into v. An empty body is an error unless
// allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func invalidJSON(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn().
		Err(err).
		Str("path", r.URL.Path).
		Str("request_id", RequestID(r.Context())).
		Msg("Failed to decode JSON request")
	writeError(w, http.StatusBadRequest, "invalid json")
}
