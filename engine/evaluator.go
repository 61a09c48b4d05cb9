package engine

// Evaluator scores a board snapshot, positive when it favours White.
type Evaluator func(Snapshot) Score

var pieceValues = [...]Score{
	NoKind: 0,
	Pawn:   10,
	Knight: 30,
	Bishop: 30,
	Rook:   50,
	Queen:  90,
	King:   900,
}

// PieceValue returns the material value of k.
func PieceValue(k Kind) Score {
	if int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}

// Material sums piece values over the board: White pieces count positive,
// Black pieces negative. An empty board scores 0.
func Material(s Snapshot) Score {
	var score Score
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := s[r][f]
			if p.Empty() {
				continue
			}
			if p.Side == White {
				score += PieceValue(p.Kind)
			} else {
				score -= PieceValue(p.Kind)
			}
		}
	}
	return score
}

// orient returns eval seen from side: unchanged for White, negated for Black.
func orient(eval Evaluator, side Side) Evaluator {
	if side == White {
		return eval
	}
	return func(s Snapshot) Score { return -eval(s) }
}
