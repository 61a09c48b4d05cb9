package bots

import (
	"fmt"
	"sync"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/engine"
	"chessbot/rules"
)

// DragonBot runs the same search as MinimaxBot on dragontoothmg boards,
// which apply and revert moves in place. Moves are handed back as
// notnil/chess moves so callers never see the difference.
type DragonBot struct {
	Depth    int
	Searcher *engine.Searcher[dragon.Move]

	mu sync.Mutex
}

func NewDragonBot(depth int, logger zerolog.Logger) *DragonBot {
	return &DragonBot{
		Depth:    depth,
		Searcher: engine.NewSearcher[dragon.Move](engine.Material, logger.With().Str("bot", "dragon").Logger()),
	}
}

func (b *DragonBot) Name() string {
	return fmt.Sprintf("Dragon Bot (depth %d)", b.Depth)
}

func (b *DragonBot) BestMove(game *chess.Game) (*chess.Move, error) {
	if game == nil {
		return nil, nil
	}
	move, _, err := b.SelectMove(game.Position())
	return move, err
}

func (b *DragonBot) SelectMove(pos *chess.Position) (*chess.Move, engine.Stats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	board, err := rules.NewDragonPosition(pos.String())
	if err != nil {
		return nil, engine.Stats{}, fmt.Errorf("dragon: %w", err)
	}
	move, ok, err := b.Searcher.SelectMove(board, b.Depth)
	if err != nil {
		return nil, b.Searcher.Stats(), fmt.Errorf("dragon: %w", err)
	}
	if !ok {
		return nil, b.Searcher.Stats(), nil
	}
	m, err := rules.ToGameMove(pos, move)
	if err != nil {
		return nil, b.Searcher.Stats(), fmt.Errorf("dragon: %w", err)
	}
	return m, b.Searcher.Stats(), nil
}
