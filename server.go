package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

/////////////////////
// Response helpers

func RespondInternalServiceError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

// RespondJSON writes the body without the trailing newline json.Encoder
// would add; some callers compare these bodies byte for byte.
func RespondJSON(w http.ResponseWriter, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		RespondInternalServiceError(w, err)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.Write(raw)
}

/////////////////////
// Server

// Pulser is what the push endpoint needs from the relay.
type Pulser interface {
	Pulse(d time.Duration) error
}

type healthResponse struct {
	Status string `json:"status"`
}

type pushResponse struct {
	Success bool `json:"success"`
}

type Server struct {
	config   *Config
	activity *Recorder
	relay    Pulser
	announce Announcer   // nil when no broker is configured
	chime    ChimePlayer // nil when no chime is configured
	http     *http.Server
}

func NewServer(config *Config, activity *Recorder, relay Pulser, announce Announcer, chime ChimePlayer) *Server {
	s := &Server{
		config:   config,
		activity: activity,
		relay:    relay,
		announce: announce,
		chime:    chime,
	}

	s.http = &http.Server{
		Addr:    config.Address(),
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(&log.Logger))

	r.Get("/health", s.handleHealth)
	r.Get("/push", s.handlePush)
	r.Get("/ws", s.handleLiveFeed)

	// Anything else is a 404 with an empty body, same as the firmware
	// this replaces. chi would otherwise answer mismatched methods with
	// a 405.
	r.NotFound(s.handleUnknown)
	r.MethodNotAllowed(s.handleUnknown)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, healthResponse{Status: "up"})
	s.activity.Record(http.StatusOK, r.URL.Path)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	pulseID := uuid.NewString()

	if err := s.relay.Pulse(s.config.PulseDuration()); err != nil {
		log.Err(err).Str("pulse_id", pulseID).Msg("Pulse failed")
		RespondInternalServiceError(w, err)
		s.activity.Record(http.StatusInternalServerError, r.URL.Path)
		return
	}

	RespondJSON(w, pushResponse{Success: true})
	s.activity.Record(http.StatusOK, r.URL.Path)

	if s.chime != nil {
		s.chime.Play()
	}
	if s.announce != nil {
		go s.announce.Pulse(PulseEvent{
			ID:       pulseID,
			At:       time.Now(),
			Duration: s.config.PulseDuration(),
		})
	}
}

func (s *Server) handleUnknown(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	s.activity.Record(http.StatusNotFound, r.URL.Path)
}

// Handler exposes the router, mostly so tests can run against
// httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	log.Info().Str("listen", s.http.Addr).Msg("launching server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
