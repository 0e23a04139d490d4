package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/masterkusok/greetings/internal/raft"
	"github.com/masterkusok/greetings/internal/store"
)

const (
	detailAlreadyExists = "Greeting with this ID already exists."
	detailNotFound      = "Greeting not found."
)

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func renderJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func renderAPIError(w http.ResponseWriter, code int, message string) {
	renderJSON(w, code, errorResponse{
		Error:  message,
		Status: http.StatusText(code),
	})
}

// renderError maps service errors onto HTTP statuses.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		renderAPIError(w, http.StatusBadRequest, detailAlreadyExists)
	case errors.Is(err, store.ErrNotFound):
		renderAPIError(w, http.StatusNotFound, detailNotFound)
	case errors.Is(err, raft.ErrNotLeader):
		renderAPIError(w, http.StatusMisdirectedRequest, err.Error())
	default:
		s.logger.Error("request failed", requestFields(r, err)...)
		renderAPIError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
