package engine

import "math"

// Score is a signed material score, positive when it favours White.
type Score int

// Infinity bounds every reachable score and is safe to negate.
const Infinity Score = math.MaxInt32

// Side is the colour of a piece or of the side to move.
type Side uint8

const (
	White Side = iota // first mover
	Black
)

func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Kind is a piece type. NoKind marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"-", "p", "n", "b", "r", "q", "k"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Piece occupies a square. The zero value is an empty square.
type Piece struct {
	Kind Kind
	Side Side
}

func (p Piece) Empty() bool { return p.Kind == NoKind }

// Snapshot is a read-only copy of the board indexed [rank][file].
// Rank 0 is White's back rank, file 0 is the a-file.
type Snapshot [8][8]Piece

// Mirror swaps the side of every piece, square for square.
func (s Snapshot) Mirror() Snapshot {
	var out Snapshot
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := s[r][f]
			if !p.Empty() {
				p.Side = p.Side.Other()
			}
			out[r][f] = p
		}
	}
	return out
}

// Position is the rules oracle contract. Implementations own legality and
// all auxiliary game state; the search only walks moves through Apply/Undo
// pairs and never inspects M.
type Position[M any] interface {
	// LegalMoves returns every legal move for the side to move, in a stable
	// order. An empty slice means checkmate or stalemate.
	LegalMoves() []M
	// Apply plays m in place; the side to move flips.
	Apply(m M) error
	// Undo reverts the most recent Apply, restoring the exact prior state.
	Undo() error
	Snapshot() Snapshot
	SideToMove() Side
}
