package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/session"
)

const (
	// DefaultRequestTimeout bounds every /api request.
	DefaultRequestTimeout = 15 * time.Second
	maxBodyBytes          = 64 << 10
)

// View is the JSON shape of the game as seen by clients.
type View struct {
	State game.State `json:"state"`
	Flags game.Flags `json:"flags"`
}

// NewView pairs s with its derived flags.
func NewView(s game.State) View {
	return View{State: s, Flags: s.Flags()}
}

type errorBody struct {
	Error string `json:"error"`
	State *View  `json:"state,omitempty"`
}

// Server exposes a session over HTTP and websockets.
type Server struct {
	sess           *session.Session
	hub            *Hub
	logger         *zap.Logger
	requestTimeout time.Duration
}

// New returns a server for sess. The hub must be running for websocket clients
// to receive updates.
func New(sess *session.Session, hub *Hub, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &Server{sess: sess, hub: hub, logger: logger, requestTimeout: requestTimeout}
}

// Handler builds the router with middleware and all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the game routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.health)
	r.Get("/ws", s.hub.ServeWS)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout))
		r.Get("/state", s.state)
		r.Post("/actions", s.action)
		r.Post("/players", s.addPlayer)
		r.Post("/challenges", s.requestChallenge)
		r.Post("/undo", s.undo)
		r.Get("/targets/{card}", s.targets)
		r.Get("/stats", s.stats)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewView(s.sess.State()))
}

func (s *Server) action(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", nil)
		return
	}
	a, err := game.DecodeAction(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	st, err := s.sess.Dispatch(a)
	if err != nil {
		s.dispatchError(w, st, err)
		return
	}
	writeJSON(w, http.StatusOK, NewView(st))
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

func (s *Server) addPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.sess.AddPlayer(req.Name)
	if err != nil {
		s.dispatchError(w, s.sess.State(), err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type challengeRequest struct {
	ChallengeType game.ChallengeType `json:"challengeType"`
}

func (s *Server) requestChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t := game.ChallengeType(strings.ToLower(string(req.ChallengeType)))
	st, err := s.sess.RequestChallenge(t)
	if err != nil {
		s.dispatchError(w, st, err)
		return
	}
	writeJSON(w, http.StatusAccepted, NewView(st))
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	st, err := s.sess.Undo()
	if err != nil {
		s.dispatchError(w, st, err)
		return
	}
	writeJSON(w, http.StatusOK, NewView(st))
}

func (s *Server) targets(w http.ResponseWriter, r *http.Request) {
	card := game.Card(strings.ToUpper(chi.URLParam(r, "card")))
	if !card.Valid() {
		writeError(w, http.StatusNotFound, "unknown card", nil)
		return
	}
	players, err := s.sess.Targets(card)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Stats())
}

func (s *Server) dispatchError(w http.ResponseWriter, st game.State, err error) {
	switch {
	case errors.Is(err, game.ErrRejected), errors.Is(err, game.ErrNothingToUndo):
		view := NewView(st)
		writeError(w, http.StatusConflict, err.Error(), &view)
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		s.logger.Error("dispatch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, view *View) {
	writeJSON(w, status, errorBody{Error: msg, State: view})
}
