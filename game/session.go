// Package game holds one human-versus-bot game shared by the front-ends.
package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/rules"
)

var (
	ErrNotStarted  = errors.New("game: not started")
	ErrGameOver    = errors.New("game: game is over")
	ErrNotYourTurn = errors.New("game: not the player's turn")
	ErrNotBotTurn  = errors.New("game: not the bot's turn")
	ErrIllegalMove = errors.New("game: illegal move")
	ErrUnknownBot  = errors.New("game: unknown bot")
)

// Status is a point-in-time view of the session for display and the API.
type Status struct {
	Started     bool     `json:"started"`
	FEN         string   `json:"fen"`
	Turn        string   `json:"turn"`
	Player      string   `json:"player"`
	Bot         string   `json:"bot"`
	BotName     string   `json:"bot_name"`
	BotThinking bool     `json:"bot_thinking"`
	Outcome     string   `json:"outcome"`
	Method      string   `json:"method"`
	LastMove    string   `json:"last_move,omitempty"`
	Moves       []string `json:"moves"`
}

type Session struct {
	mu       sync.Mutex
	game     *chess.Game
	player   chess.Color
	started  bool
	thinking bool
	epoch    int

	bots    map[string]bots.ChessBot
	botName string

	log       zerolog.Logger
	listeners []func(Status)
}

func NewSession(registry map[string]bots.ChessBot, botName string, logger zerolog.Logger) (*Session, error) {
	if _, ok := registry[botName]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, botName)
	}
	return &Session{
		game:    chess.NewGame(),
		player:  chess.White,
		bots:    registry,
		botName: botName,
		log:     logger.With().Str("component", "session").Logger(),
	}, nil
}

// OnChange registers fn to receive the status after every change. fn runs
// outside the session lock.
func (s *Session) OnChange(fn func(Status)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	st := s.Status()
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}

// Start begins a new game with the human playing player.
func (s *Session) Start(player chess.Color) {
	s.mu.Lock()
	s.game = chess.NewGame()
	s.player = player
	s.started = true
	s.thinking = false
	s.epoch++
	s.mu.Unlock()

	s.log.Info().Str("player", colorName(player)).Msg("game started")
	s.notify()
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Session) Player() chess.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Board returns the current board. Boards of past positions are never
// modified, so the result is safe to read without the lock.
func (s *Session) Board() *chess.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Position().Board()
}

func (s *Session) PlayerToMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.thinking && s.game.Outcome() == chess.NoOutcome && s.game.Position().Turn() == s.player
}

func (s *Session) BotToMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.botToMoveLocked()
}

func (s *Session) botToMoveLocked() bool {
	return s.started && !s.thinking && s.game.Outcome() == chess.NoOutcome && s.game.Position().Turn() != s.player
}

// Targets lists the squares the piece on from can legally move to.
func (s *Session) Targets(from chess.Square) []chess.Square {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []chess.Square
	for _, m := range s.game.ValidMoves() {
		if m.S1() == from {
			out = append(out, m.S2())
		}
	}
	return out
}

// LastMove returns the most recent move, or nil at the start.
func (s *Session) LastMove() *chess.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := s.game.Moves()
	if len(moves) == 0 {
		return nil
	}
	return moves[len(moves)-1]
}

// PlayerMove plays the human move from→to. Pawns reaching the last rank
// become queens.
func (s *Session) PlayerMove(from, to chess.Square) error {
	return s.playerMove(func(pos *chess.Position) (*chess.Move, error) {
		return findMove(pos, from, to)
	})
}

// PlayerMoveUCI plays a human move given in UCI notation, e.g. "e2e4".
func (s *Session) PlayerMoveUCI(uci string) error {
	return s.playerMove(func(pos *chess.Position) (*chess.Move, error) {
		m, err := rules.FindMove(pos, uci)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
		return m, nil
	})
}

func (s *Session) playerMove(resolve func(*chess.Position) (*chess.Move, error)) error {
	s.mu.Lock()
	if err := s.checkPlayerTurnLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	m, err := resolve(s.game.Position())
	if err == nil {
		err = s.game.Move(m)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Debug().Stringer("move", m).Msg("player moved")
	s.notify()
	return nil
}

func (s *Session) checkPlayerTurnLocked() error {
	switch {
	case !s.started:
		return ErrNotStarted
	case s.game.Outcome() != chess.NoOutcome:
		return ErrGameOver
	case s.thinking || s.game.Position().Turn() != s.player:
		return ErrNotYourTurn
	}
	return nil
}

// BotMove lets the current bot reply and plays its move. It returns a nil
// move when the bot has nothing to play.
func (s *Session) BotMove() (*chess.Move, error) {
	s.mu.Lock()
	if !s.botToMoveLocked() {
		s.mu.Unlock()
		return nil, ErrNotBotTurn
	}
	s.thinking = true
	s.mu.Unlock()
	return s.think()
}

// ScheduleBot starts the bot's reply in the background after delay when it
// is the bot's turn, and reports whether it did.
func (s *Session) ScheduleBot(delay time.Duration) bool {
	s.mu.Lock()
	if !s.botToMoveLocked() {
		s.mu.Unlock()
		return false
	}
	s.thinking = true
	s.mu.Unlock()
	s.notify()

	go func() {
		time.Sleep(delay)
		if _, err := s.think(); err != nil {
			s.log.Error().Err(err).Msg("bot move failed")
		}
	}()
	return true
}

func (s *Session) think() (*chess.Move, error) {
	s.mu.Lock()
	bot := s.bots[s.botName]
	epoch := s.epoch
	snapshot := s.game.Clone()
	s.mu.Unlock()

	start := time.Now()
	m, err := bot.BestMove(snapshot)

	s.mu.Lock()
	if epoch != s.epoch {
		// A new game started while the bot was thinking.
		s.mu.Unlock()
		return nil, nil
	}
	s.thinking = false
	if err == nil && m != nil {
		var valid *chess.Move
		if valid, err = rules.FindMove(s.game.Position(), m.String()); err == nil {
			err = s.game.Move(valid)
			m = valid
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.notify()
		return nil, fmt.Errorf("game: %s: %w", bot.Name(), err)
	}
	ev := s.log.Info().Str("bot", bot.Name()).Dur("elapsed", time.Since(start))
	if m != nil {
		ev = ev.Stringer("move", m)
	}
	ev.Msg("bot replied")
	s.notify()
	return m, nil
}

func (s *Session) BotName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.botName
}

func (s *Session) SetBot(name string) error {
	s.mu.Lock()
	if _, ok := s.bots[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	s.botName = name
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetRegistry replaces the available bots, e.g. after a configuration
// change, and selects botName. A search already running finishes with the
// bot it started with.
func (s *Session) SetRegistry(registry map[string]bots.ChessBot, botName string) error {
	if _, ok := registry[botName]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBot, botName)
	}
	s.mu.Lock()
	s.bots = registry
	s.botName = botName
	s.mu.Unlock()
	s.notify()
	return nil
}

// CycleBot switches to the next registered bot and returns its key.
func (s *Session) CycleBot() string {
	s.mu.Lock()
	name := bots.Next(s.botName)
	for i := 0; i < len(bots.Names()); i++ {
		if _, ok := s.bots[name]; ok {
			break
		}
		name = bots.Next(name)
	}
	if _, ok := s.bots[name]; ok {
		s.botName = name
	}
	name = s.botName
	s.mu.Unlock()
	s.notify()
	return name
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Started:     s.started,
		FEN:         s.game.Position().String(),
		Turn:        colorName(s.game.Position().Turn()),
		Player:      colorName(s.player),
		Bot:         s.botName,
		BotName:     s.bots[s.botName].Name(),
		BotThinking: s.thinking,
		Outcome:     s.game.Outcome().String(),
		Method:      fmt.Sprint(s.game.Method()),
		Moves:       []string{},
	}
	for _, m := range s.game.Moves() {
		st.Moves = append(st.Moves, m.String())
	}
	if n := len(st.Moves); n > 0 {
		st.LastMove = st.Moves[n-1]
	}
	return st
}

func findMove(pos *chess.Position, from, to chess.Square) (*chess.Move, error) {
	var found *chess.Move
	for _, m := range pos.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m, nil
		}
		if found == nil {
			found = m
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	return found, nil
}

func colorName(c chess.Color) string {
	if c == chess.Black {
		return "black"
	}
	return "white"
}

// ParseColor accepts "white" or "black".
func ParseColor(s string) (chess.Color, error) {
	switch s {
	case "white":
		return chess.White, nil
	case "black":
		return chess.Black, nil
	}
	return chess.NoColor, fmt.Errorf("game: unknown colour %q", s)
}
