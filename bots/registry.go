package bots

import (
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/config"
	"chessbot/engine"
)

// Searching is implemented by bots that run the engine and can report
// counters alongside the chosen move.
type Searching interface {
	ChessBot
	SelectMove(pos *chess.Position) (*chess.Move, engine.Stats, error)
}

// Names lists the registry keys in the order the front-ends cycle them.
func Names() []string {
	return []string{"newborn", "random", "minimax", "dragon"}
}

// New builds the bot registered under name.
func New(name string, cfg config.Config, logger zerolog.Logger) (ChessBot, error) {
	switch name {
	case "newborn":
		return NewNewbornBot(), nil
	case "random":
		return NewRandomBot(time.Now().UnixNano()), nil
	case "minimax":
		b := NewMinimaxBot(cfg.Depth, logger)
		b.Searcher.ExplicitStack = cfg.ExplicitStack
		b.Searcher.Evaluator = evaluator(cfg.Evaluator)
		return b, nil
	case "dragon":
		b := NewDragonBot(cfg.Depth, logger)
		b.Searcher.ExplicitStack = cfg.ExplicitStack
		b.Searcher.Evaluator = evaluator(cfg.Evaluator)
		return b, nil
	default:
		return nil, fmt.Errorf("bots: unknown bot %q", name)
	}
}

func evaluator(name string) engine.Evaluator {
	if eval, ok := Evaluators[name]; ok {
		return eval
	}
	return engine.Material
}

// Registry builds every bot in Names.
func Registry(cfg config.Config, logger zerolog.Logger) (map[string]ChessBot, error) {
	reg := make(map[string]ChessBot, len(Names()))
	for _, name := range Names() {
		b, err := New(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		reg[name] = b
	}
	return reg, nil
}

// Next returns the name that follows current in Names, wrapping around.
func Next(current string) string {
	names := Names()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
