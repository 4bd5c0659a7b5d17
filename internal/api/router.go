// Package api exposes triage, chat and PHQ-9 screening over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// Container holds the services the handlers call.
type Container struct {
	Classifier   *triage.Classifier
	Conversation *conversation.Service
	Screenings   *assessment.Service
	Logger       *slog.Logger
	CORSOrigin   string // defaults to "*"
}

// NewRouter builds the API handler.
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = observability.Discard()
	}
	h := &handlers{
		classifier:   c.Classifier,
		conversation: c.Conversation,
		screenings:   c.Screenings,
		logger:       logger,
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware(logger))
	r.Use(corsMiddleware(c.CORSOrigin))

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/classify", h.classify).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/chat", h.chat).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/sessions", h.createSession).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/sessions", h.listSessions).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/sessions/{id}/messages", h.listMessages).Methods(http.MethodGet, http.MethodOptions)

	v1.HandleFunc("/screenings/questions", h.screeningQuestions).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/screenings/history", h.screeningHistory).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/screenings", h.startScreening).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/screenings/{id}/answers", h.answerScreening).Methods(http.MethodPost, http.MethodOptions)

	return r
}
