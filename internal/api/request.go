package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

var (
	errInvalidID      = errors.New("id must be an integer")
	errMissingMessage = errors.New("message is required")
)

type JoinRequest struct {
	NodeID string `json:"node_id"`
	Addr   string `json:"addr"`
}

type greetingRequest struct {
	Message *string `json:"message"`
}

// greetingID reads the id from the path, falling back to query and form values.
func greetingID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.FormValue("id")
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	return id, nil
}

// greetingMessage reads the message from a JSON body, or from form and query
// values for any other content type.
func greetingMessage(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req greetingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", fmt.Errorf("decode body: %w", err)
		}
		if req.Message == nil {
			return "", errMissingMessage
		}
		return *req.Message, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("parse form: %w", err)
	}
	values, ok := r.Form["message"]
	if !ok || len(values) == 0 {
		return "", errMissingMessage
	}
	return values[0], nil
}
