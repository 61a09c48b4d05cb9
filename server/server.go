// Package server exposes move selection and the shared game session over
// HTTP and websockets.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/engine"
	"chessbot/game"
)

type Server struct {
	session *game.Session
	store   *config.Store
	hub     *Hub
	log     zerolog.Logger
}

func New(session *game.Session, store *config.Store, logger zerolog.Logger) *Server {
	s := &Server{
		session: session,
		store:   store,
		hub:     NewHub(),
		log:     logger.With().Str("component", "server").Logger(),
	}
	session.OnChange(s.hub.Publish)
	return s
}

// Run broadcasts session updates until done is closed.
func (s *Server) Run(done <-chan struct{}) {
	s.hub.Run(done)
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/move", s.handleMove)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.session.Status())
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/play", s.handlePlay)
	r.Post("/api/bot", s.handleBot)

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.store.Get())
	})
	r.Post("/api/config", s.handleConfig)

	r.Get("/ws", s.serveWS)
	return r
}

type moveRequest struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
	Bot   string `json:"bot"`
}

type moveResponse struct {
	Move  string        `json:"move,omitempty"`
	Found bool          `json:"found"`
	Bot   string        `json:"bot"`
	Stats *engine.Stats `json:"stats,omitempty"`
}

// handleMove picks a move for an arbitrary position without touching the
// session. Depth and bot default to the current configuration.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	cfg := s.store.Get()
	if req.Depth != 0 {
		cfg.Depth = req.Depth
	}
	if req.Bot != "" {
		cfg.Bot = req.Bot
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := chess.NewGame()
	if req.FEN != "" {
		opt, err := chess.FEN(req.FEN)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid fen")
			return
		}
		g = chess.NewGame(opt)
	}

	bot, err := bots.New(cfg.Bot, cfg, s.log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := moveResponse{Bot: bot.Name()}
	var m *chess.Move
	if searching, ok := bot.(bots.Searching); ok {
		var stats engine.Stats
		m, stats, err = searching.SelectMove(g.Position())
		resp.Stats = &stats
	} else {
		m, err = bot.BestMove(g)
	}
	if err != nil {
		s.log.Error().Err(err).Str("fen", req.FEN).Msg("move selection failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m != nil {
		resp.Move, resp.Found = m.String(), true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Player == "" {
		payload.Player = s.store.Get().PlayerColor
	}
	color, err := game.ParseColor(payload.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.Start(color)
	if !s.replyIfBotTurn(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.session.PlayerMoveUCI(payload.Move); err != nil {
		writeError(w, sessionErrorStatus(err), err.Error())
		return
	}
	if !s.replyIfBotTurn(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Status())
}

// replyIfBotTurn lets the bot answer synchronously. It writes the error
// response itself and reports false when the bot failed.
func (s *Server) replyIfBotTurn(w http.ResponseWriter) bool {
	if !s.session.BotToMove() {
		return true
	}
	if _, err := s.session.BotMove(); err != nil && !errors.Is(err, game.ErrNotBotTurn) {
		s.log.Error().Err(err).Msg("bot reply failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.session.SetBot(payload.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.store.Get()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.store.Update(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	registry, err := bots.Registry(cfg, s.log)
	if err == nil {
		err = s.session.SetRegistry(registry, cfg.Bot)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("rebuilding bots")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info().Int("depth", cfg.Depth).Str("bot", cfg.Bot).Msg("config updated")
	writeJSON(w, http.StatusOK, s.store.Get())
}

func (s *Server) botDelay() time.Duration {
	return time.Duration(s.store.Get().BotDelayMs) * time.Millisecond
}

func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotStarted), errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
