// Package rules adapts chess move generators to the engine's rules oracle
// contract.
package rules

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"

	"chessbot/engine"
)

var (
	ErrNothingToUndo = errors.New("rules: no move to undo")
	ErrNotOwnPiece   = errors.New("rules: move does not start on a piece of the side to move")
	ErrNoSuchMove    = errors.New("rules: move is not legal in this position")
)

// GamePosition is a mutable position backed by notnil/chess. Positions in
// that library are immutable, so Apply pushes the successor and Undo pops it.
type GamePosition struct {
	history []*chess.Position
}

var _ engine.Position[*chess.Move] = (*GamePosition)(nil)

func NewGamePosition(pos *chess.Position) *GamePosition {
	return &GamePosition{history: []*chess.Position{pos}}
}

// FromGame starts at the current position of g. g itself is never touched.
func FromGame(g *chess.Game) *GamePosition {
	return NewGamePosition(g.Position())
}

func FromFEN(fen string) (*GamePosition, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("rules: parse fen: %w", err)
	}
	return FromGame(chess.NewGame(opt)), nil
}

func (p *GamePosition) Current() *chess.Position {
	return p.history[len(p.history)-1]
}

func (p *GamePosition) FEN() string { return p.Current().String() }

func (p *GamePosition) LegalMoves() []*chess.Move {
	return p.Current().ValidMoves()
}

func (p *GamePosition) Apply(m *chess.Move) error {
	if m == nil {
		return ErrNoSuchMove
	}
	cur := p.Current()
	piece := cur.Board().Piece(m.S1())
	if piece == chess.NoPiece || piece.Color() != cur.Turn() {
		return fmt.Errorf("%w: %s", ErrNotOwnPiece, m)
	}
	p.history = append(p.history, cur.Update(m))
	return nil
}

func (p *GamePosition) Undo() error {
	if len(p.history) == 1 {
		return ErrNothingToUndo
	}
	p.history[len(p.history)-1] = nil
	p.history = p.history[:len(p.history)-1]
	return nil
}

func (p *GamePosition) Snapshot() engine.Snapshot {
	return SnapshotOf(p.Current().Board())
}

func (p *GamePosition) SideToMove() engine.Side {
	return sideOf(p.Current().Turn())
}

// SnapshotOf copies a notnil board into the engine's grid.
func SnapshotOf(board *chess.Board) engine.Snapshot {
	var snap engine.Snapshot
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		snap[sq.Rank()][sq.File()] = engine.Piece{Kind: kindOf(piece.Type()), Side: sideOf(piece.Color())}
	}
	return snap
}

// FindMove decodes a UCI string ("e2e4", "e7e8q") and returns the matching
// legal move of pos.
func FindMove(pos *chess.Position, uci string) (*chess.Move, error) {
	decoded, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNoSuchMove, uci, err)
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == decoded.S1() && m.S2() == decoded.S2() && m.Promo() == decoded.Promo() {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSuchMove, uci)
}

func kindOf(t chess.PieceType) engine.Kind {
	switch t {
	case chess.Pawn:
		return engine.Pawn
	case chess.Knight:
		return engine.Knight
	case chess.Bishop:
		return engine.Bishop
	case chess.Rook:
		return engine.Rook
	case chess.Queen:
		return engine.Queen
	case chess.King:
		return engine.King
	default:
		return engine.NoKind
	}
}

func sideOf(c chess.Color) engine.Side {
	if c == chess.Black {
		return engine.Black
	}
	return engine.White
}
