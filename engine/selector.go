package engine

import "fmt"

// SelectMove returns the root move with the best score for the side to move
// after searching depth plies, or false when there is no legal move. Ties
// keep the first move in the oracle's order. The returned move is not
// applied; pos is left as it was found.
func (s *Searcher[M]) SelectMove(pos Position[M], depth int) (M, bool, error) {
	var best M
	if depth < 1 {
		return best, false, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	s.stats = Stats{}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		s.Logger.Debug().Msg("no legal moves at root")
		return best, false, nil
	}

	// Scores below are relative to the side moving at the root.
	side := pos.SideToMove()
	eval := orient(s.evaluator(), side)

	bestScore := -Infinity
	found := false
	for _, m := range moves {
		score, err := s.withMove(pos, m, func() (Score, error) {
			return s.child(pos, eval, depth-1)
		})
		if err != nil {
			return best, false, err
		}
		score = -score
		s.Logger.Debug().Stringer("move", moveString[M]{m}).Int("score", int(score)).Msg("root candidate")

		if !found || score > bestScore {
			best, bestScore, found = m, score, true
		}
	}

	s.Logger.Info().
		Stringer("move", moveString[M]{best}).
		Int("score", int(bestScore)).
		Int("depth", depth).
		Str("side", side.String()).
		EmbedObject(s.stats).
		Msg("move selected")
	return best, true, nil
}

func (s *Searcher[M]) child(pos Position[M], eval Evaluator, depth int) (Score, error) {
	if s.ExplicitStack {
		return s.stackSearch(pos, eval, depth, -Infinity, Infinity, true)
	}
	return s.minimax(pos, eval, depth, -Infinity, Infinity, true)
}

// moveString formats opaque move tokens for logging, including tokens whose
// String method has a pointer receiver.
type moveString[M any] struct{ m M }

func (s moveString[M]) String() string {
	if st, ok := any(&s.m).(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprint(s.m)
}
