// Package server exposes the game engine over HTTP: a small REST surface
// for creating games and submitting actions, plus a websocket event stream
// per game.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catan/engine"
	"catan/game"
	"catan/record"
)

// Server wires the session manager, the per-game event hubs and the
// optional archive behind a chi router.
type Server struct {
	manager *engine.Manager
	store   *record.Store // nil disables archiving

	mu   sync.Mutex
	hubs map[uuid.UUID]*hub

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func New(manager *engine.Manager, store *record.Store) *Server {
	return &Server{
		manager: manager,
		store:   store,
		hubs:    make(map[uuid.UUID]*hub),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/games", s.handleCreateGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Get("/actions", s.handleGetActions)
		r.Post("/actions", s.handleSubmitAction)
	})
	r.Get("/ws/games/{id}", s.handleEvents)
	return r
}

type createGameRequest struct {
	Mode       string `json:"mode"`
	NumPlayers int    `json:"numPlayers"`
}

type createGameResponse struct {
	GameID string    `json:"gameId"`
	State  StateView `json:"state"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	mode := engine.GameMode(req.Mode)
	if mode == "" {
		mode = engine.ModeHumanVsBots
	}

	h := newHub()
	var session *engine.Session
	sink := func(e engine.Event) {
		h.publish(e)
		if e.Type == engine.EventGameEnded && session != nil {
			s.archive(session, string(mode))
		}
	}
	session, err := s.manager.CreateGame(mode, req.NumPlayers, sink)
	if err != nil {
		writeGameError(w, err)
		return
	}

	s.mu.Lock()
	s.hubs[session.ID] = h
	s.mu.Unlock()

	s.log.Info().Str("game", session.ID.String()).Str("mode", string(mode)).
		Int("players", req.NumPlayers).Msg("game created")
	session.Start()

	writeJSON(w, http.StatusCreated, createGameResponse{
		GameID: session.ID.String(),
		State:  newStateView(session.ID.String(), session.Snapshot()),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateView(session.ID.String(), session.Snapshot()))
}

func (s *Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	state := session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"color":   state.CurrentColor(),
		"actions": actionViews(state.PlayableActions()),
	})
}

type submitActionRequest struct {
	Color  game.Color  `json:"color"`
	Action game.Action `json:"action"`
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req submitActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	req.Action.Color = req.Color
	if err := session.Submit(req.Color, req.Action); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(session.ID.String(), session.Snapshot()))
}

// handleEvents upgrades to a websocket and streams the game's events. The
// reader loop only watches for the client going away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed game id")
		return
	}
	s.mu.Lock()
	h, ok := s.hubs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such game")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case payload, open := <-events:
			if !open {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// archive stores a finished game; failures are logged and swallowed so the
// event path is never disturbed.
func (s *Server) archive(session *engine.Session, players string) {
	if s.store == nil {
		return
	}
	state := session.Snapshot()
	winner, _ := state.Winner()
	history := session.History()
	err := s.store.SaveGame(record.GameRecord{
		ID:         session.ID.String(),
		CreatedAt:  session.Created,
		Seed:       session.Seed,
		NumPlayers: state.NumPlayers(),
		Players:    players,
		Winner:     winner,
		Actions:    len(history),
	}, history)
	if err != nil {
		s.log.Error().Err(err).Str("game", session.ID.String()).Msg("archiving failed")
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*engine.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed game id")
		return nil, false
	}
	session, err := s.manager.Get(id)
	if err != nil {
		writeGameError(w, err)
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps engine error kinds onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var gameErr *game.GameError
	if errors.As(err, &gameErr) {
		switch gameErr.Kind {
		case game.ErrGameNotFound:
			status = http.StatusNotFound
		case game.ErrNotPlayerTurn, game.ErrInvalidAction, game.ErrGameNotInProgress,
			game.ErrMinPlayersNotMet:
			status = http.StatusBadRequest
		}
	}
	writeError(w, status, err.Error())
}
