// bot.go
package bots

import "github.com/notnil/chess"

// ChessBot picks a move for the side to move in game. A nil move with a nil
// error means the game is over.
type ChessBot interface {
	BestMove(game *chess.Game) (*chess.Move, error)
	Name() string
}
