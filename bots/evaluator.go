package bots

import "chessbot/engine"

// Positional term weights, in material units (a pawn is 10).
const (
	DoubledPawnPenalty  = 3
	IsolatedPawnPenalty = 5
	KingShelterBonus    = 2
	KingDangerPenalty   = 3
	AdvancedPieceBonus  = 1
	CentralPieceBonus   = 1
)

// Evaluators maps the config names to evaluation functions.
var Evaluators = map[string]engine.Evaluator{
	"material":   engine.Material,
	"positional": Positional,
}

// Positional is engine.Material plus pawn structure, king shelter and piece
// activity. Like Material it is positive when White is better.
func Positional(s engine.Snapshot) engine.Score {
	return engine.Material(s) + pawnStructure(s) + kingSafety(s) + pieceActivity(s)
}

func sign(side engine.Side) engine.Score {
	if side == engine.Black {
		return -1
	}
	return 1
}

func pawnStructure(s engine.Snapshot) engine.Score {
	var pawns [2][8]int
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := s[r][f]; p.Kind == engine.Pawn {
				pawns[p.Side][f]++
			}
		}
	}

	var score engine.Score
	for _, side := range []engine.Side{engine.White, engine.Black} {
		files := pawns[side]
		for f, count := range files {
			if count == 0 {
				continue
			}
			penalty := engine.Score(count-1) * DoubledPawnPenalty
			left := f > 0 && files[f-1] > 0
			right := f < 7 && files[f+1] > 0
			if !left && !right {
				penalty += IsolatedPawnPenalty
			}
			score -= sign(side) * penalty
		}
	}
	return score
}

func kingSafety(s engine.Snapshot) engine.Score {
	var score engine.Score
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			king := s[r][f]
			if king.Kind != engine.King {
				continue
			}
			var shelter engine.Score
			for dr := -1; dr <= 1; dr++ {
				for df := -1; df <= 1; df++ {
					nr, nf := r+dr, f+df
					if (dr == 0 && df == 0) || nr < 0 || nr > 7 || nf < 0 || nf > 7 {
						continue
					}
					switch p := s[nr][nf]; {
					case p.Empty():
					case p.Side == king.Side:
						shelter += KingShelterBonus
					default:
						shelter -= KingDangerPenalty
					}
				}
			}
			score += sign(king.Side) * shelter
		}
	}
	return score
}

func pieceActivity(s engine.Snapshot) engine.Score {
	var score engine.Score
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := s[r][f]
			if p.Empty() || p.Kind == engine.King {
				continue
			}
			var bonus engine.Score
			if (p.Side == engine.White && r >= 4) || (p.Side == engine.Black && r <= 3) {
				bonus += AdvancedPieceBonus
			}
			if f >= 2 && f <= 5 && r >= 2 && r <= 5 {
				bonus += CentralPieceBonus
			}
			score += sign(p.Side) * bonus
		}
	}
	return score
}
