package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wainbox/internal/chat"
	"wainbox/internal/constants"
	"wainbox/internal/media"
	"wainbox/internal/middleware"
	"wainbox/internal/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg     *models.Config
	router  *mux.Router
	logger  *logrus.Logger
	store   *chat.Store
	storage *media.Storage
	media   media.Router
	server  *http.Server
}

func NewServer(cfg *models.Config, store *chat.Store, storage *media.Storage, mediaRouter media.Router, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		logger:  logger,
		store:   store,
		storage: storage,
		media:   mediaRouter,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	s.router.HandleFunc("/media/{name}", s.handleMedia()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/conversations", s.handleListConversations()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}", s.handleGetConversation()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/activate", s.handleActivate()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/read", s.handleMarkRead()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/messages", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", s.handleSendMessage()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/voice", s.handleSendVoice()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/pin", s.handlePin()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/archive", s.handleArchive()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/assign", s.handleAssign()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/tags", s.handleTags()).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/messages/{msgID}/reactions", s.handleReaction()).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	port := s.cfg.Server.Port
	if port == 0 {
		port = constants.DefaultServerPort
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
