package rules

import (
	"fmt"
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"

	"chessbot/engine"
)

// DragonPosition is a mutable position backed by dragontoothmg, which
// applies moves in place and hands back a closure that reverts them.
type DragonPosition struct {
	board   dragon.Board
	unapply []func()
}

var _ engine.Position[dragon.Move] = (*DragonPosition)(nil)

// NewDragonPosition parses fen. dragontoothmg trusts its input, so the FEN
// is checked with notnil/chess first.
func NewDragonPosition(fen string) (*DragonPosition, error) {
	if _, err := chess.FEN(fen); err != nil {
		return nil, fmt.Errorf("rules: parse fen: %w", err)
	}
	return &DragonPosition{board: dragon.ParseFen(fen)}, nil
}

// Board returns a copy of the underlying board for comparisons.
func (p *DragonPosition) Board() dragon.Board { return p.board }

func (p *DragonPosition) LegalMoves() []dragon.Move {
	return p.board.GenerateLegalMoves()
}

func (p *DragonPosition) Apply(m dragon.Move) error {
	own := p.board.Black.All
	if p.board.Wtomove {
		own = p.board.White.All
	}
	if own&(uint64(1)<<m.From()) == 0 {
		return fmt.Errorf("%w: %s", ErrNotOwnPiece, m.String())
	}
	p.unapply = append(p.unapply, p.board.Apply(m))
	return nil
}

func (p *DragonPosition) Undo() error {
	n := len(p.unapply)
	if n == 0 {
		return ErrNothingToUndo
	}
	undo := p.unapply[n-1]
	p.unapply = p.unapply[:n-1]
	undo()
	return nil
}

func (p *DragonPosition) Snapshot() engine.Snapshot {
	var snap engine.Snapshot
	fill(&snap, &p.board.White, engine.White)
	fill(&snap, &p.board.Black, engine.Black)
	return snap
}

func (p *DragonPosition) SideToMove() engine.Side {
	if p.board.Wtomove {
		return engine.White
	}
	return engine.Black
}

func fill(snap *engine.Snapshot, bb *dragon.Bitboards, side engine.Side) {
	sets := [...]struct {
		board uint64
		kind  engine.Kind
	}{
		{bb.Pawns, engine.Pawn},
		{bb.Knights, engine.Knight},
		{bb.Bishops, engine.Bishop},
		{bb.Rooks, engine.Rook},
		{bb.Queens, engine.Queen},
		{bb.Kings, engine.King},
	}
	for _, set := range sets {
		for b := set.board; b != 0; b &= b - 1 {
			sq := bits.TrailingZeros64(b)
			snap[sq/8][sq%8] = engine.Piece{Kind: set.kind, Side: side}
		}
	}
}

// ToGameMove maps a dragontoothmg move onto the equivalent notnil move.
func ToGameMove(pos *chess.Position, m dragon.Move) (*chess.Move, error) {
	return FindMove(pos, m.String())
}
