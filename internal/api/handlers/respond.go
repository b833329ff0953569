package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/riii-services/backend/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an AppError type to its HTTP status
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		log.Error().Err(err).Msg("Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	respondWithError(w, status, appErr.Detail())
}

// decodeBody reads a JSON body into dst. The raw bytes are returned so the
// caller can decode an id alongside a patch.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return nil, false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return nil, false
	}
	return data, true
}

type idEnvelope struct {
	ID json.RawMessage `json:"id"`
}

// bodyID extracts "id" from a JSON body as a string. Numbers keep their
// literal form; null, "", 0 and false count as missing.
func bodyID(data []byte) (string, bool) {
	var env idEnvelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.ID) == 0 {
		return "", false
	}

	raw := strings.TrimSpace(string(env.ID))
	switch raw {
	case "null", `""`, "0", "false":
		return "", false
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(env.ID, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", false
	}
	return raw, true
}

// requireID writes 400 "Missing id" when the body carries no id
func requireID(w http.ResponseWriter, data []byte) (string, bool) {
	id, ok := bodyID(data)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing id")
		return "", false
	}
	return id, true
}

func respondDeleted(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
