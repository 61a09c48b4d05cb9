package bots

import (
	"math/rand"
	"sync"

	"github.com/notnil/chess"
)

type RandomBot struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomBot returns a bot that plays a uniformly random legal move. The
// same seed replays the same choices.
func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) BestMove(game *chess.Game) (*chess.Move, error) {
	if game == nil {
		return nil, nil
	}
	moves := game.ValidMoves()
	if len(moves) == 0 {
		return nil, nil
	}
	b.mu.Lock()
	i := b.rng.Intn(len(moves))
	b.mu.Unlock()
	return moves[i], nil
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
