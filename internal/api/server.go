package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/masterkusok/greetings/internal/store"
	"go.uber.org/zap"
)

// Greetings is the set of operations the HTTP layer serves. Both the plain
// in-memory storage and a raft node satisfy it.
type Greetings interface {
	List() map[int]string
	Get(id int) (string, error)
	Create(id int, message string) (store.Greeting, error)
	Update(id int, message string) error
	Delete(id int) error
}

// Cluster is implemented by nodes running in replicated mode.
type Cluster interface {
	Join(nodeID, addr string) error
	RemoveNodeFromCluster(nodeID string) error
}

type Server struct {
	greetings Greetings
	cluster   Cluster
	logger    *zap.Logger

	httpServer *http.Server
}

// NewServer serves greetings. cluster may be nil, in which case the node
// management routes are not mounted.
func NewServer(greetings Greetings, cluster Cluster, logger *zap.Logger) *Server {
	return &Server{
		greetings: greetings,
		cluster:   cluster,
		logger:    logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/", s.handleIndex)

	r.Route("/greetings", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/all", s.handleList)
		r.Post("/", s.handleCreate)
		r.Post("/{id}", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	if s.cluster != nil {
		r.Post("/api/v1/node", s.handleJoin)
		r.Delete("/api/v1/node/{id}", s.handleLeave)
	}

	return r
}

// Start listens on addr in the background. Serve errors other than a clean
// shutdown are logged.
func (s *Server) Start(addr string) {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, s.greetings.List())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	message, err := greetingMessage(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := greetingID(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	greeting, err := s.greetings.Create(id, message)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, greeting)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := greetingID(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	message, err := s.greetings.Get(id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, messageResponse{Message: message})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := greetingID(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	message, err := greetingMessage(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.greetings.Update(id, message); err != nil {
		s.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, messageResponse{Message: "Greeting updated successfully."})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := greetingID(r)
	if err != nil {
		renderAPIError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.greetings.Delete(id); err != nil {
		s.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, messageResponse{Message: "Greeting deleted successfully."})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var request JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		renderAPIError(w, http.StatusBadRequest, "malformed join request")
		return
	}
	if request.NodeID == "" || request.Addr == "" {
		renderAPIError(w, http.StatusBadRequest, "node_id and addr are required")
		return
	}

	if err := s.cluster.Join(request.NodeID, request.Addr); err != nil {
		s.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")

	if err := s.cluster.RemoveNodeFromCluster(nodeID); err != nil {
		s.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
