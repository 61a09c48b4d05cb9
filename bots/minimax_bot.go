package bots

import (
	"fmt"
	"sync"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/engine"
	"chessbot/rules"
)

// MinimaxBot searches a fixed number of plies with alpha-beta over the
// notnil/chess move generator.
type MinimaxBot struct {
	Depth    int
	Searcher *engine.Searcher[*chess.Move]

	mu sync.Mutex
}

func NewMinimaxBot(depth int, logger zerolog.Logger) *MinimaxBot {
	return &MinimaxBot{
		Depth:    depth,
		Searcher: engine.NewSearcher[*chess.Move](engine.Material, logger.With().Str("bot", "minimax").Logger()),
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

func (b *MinimaxBot) BestMove(game *chess.Game) (*chess.Move, error) {
	if game == nil {
		return nil, nil
	}
	move, _, err := b.SelectMove(game.Position())
	return move, err
}

// SelectMove searches pos and also reports the search counters.
func (b *MinimaxBot) SelectMove(pos *chess.Position) (*chess.Move, engine.Stats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	move, ok, err := b.Searcher.SelectMove(rules.NewGamePosition(pos), b.Depth)
	if err != nil {
		return nil, b.Searcher.Stats(), fmt.Errorf("minimax: %w", err)
	}
	if !ok {
		return nil, b.Searcher.Stats(), nil
	}
	return move, b.Searcher.Stats(), nil
}
