package bots

import "github.com/notnil/chess"

// NewbornBot always plays the first legal move.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(game *chess.Game) (*chess.Move, error) {
	if game == nil {
		return nil, nil
	}
	moves := game.ValidMoves()
	if len(moves) > 0 {
		return moves[0], nil
	}
	return nil, nil
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
