package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Searcher runs a fixed-depth alpha-beta minimax over any rules oracle whose
// moves are of type M. A Searcher is not safe for concurrent use.
type Searcher[M any] struct {
	// Evaluator scores leaves. Nil means Material.
	Evaluator Evaluator
	// ExplicitStack makes SelectMove use SearchStack instead of the
	// recursive Search.
	ExplicitStack bool
	Logger        zerolog.Logger

	stats Stats
}

// NewSearcher returns a recursive searcher scoring leaves with eval.
func NewSearcher[M any](eval Evaluator, logger zerolog.Logger) *Searcher[M] {
	if eval == nil {
		eval = Material
	}
	return &Searcher[M]{Evaluator: eval, Logger: logger}
}

// Stats reports counters of the most recent Search, SearchStack or
// SelectMove call.
func (s *Searcher[M]) Stats() Stats { return s.stats }

func (s *Searcher[M]) evaluator() Evaluator {
	if s.Evaluator == nil {
		return Material
	}
	return s.Evaluator
}

// Search returns the minimax value of pos searched depth plies deep within
// the window [alpha, beta]. Leaves and positions without legal moves score
// the negated static evaluation. pos is restored before Search returns,
// including on error.
func (s *Searcher[M]) Search(pos Position[M], depth int, alpha, beta Score, maximizing bool) (Score, error) {
	if depth < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	s.stats = Stats{}
	return s.minimax(pos, s.evaluator(), depth, alpha, beta, maximizing)
}

func (s *Searcher[M]) minimax(pos Position[M], eval Evaluator, depth int, alpha, beta Score, maximizing bool) (Score, error) {
	s.stats.Nodes++
	if depth == 0 {
		s.stats.Leaves++
		return -eval(pos.Snapshot()), nil
	}

	moves := pos.LegalMoves()
	// Checkmate and stalemate fall back to the static evaluation; there is
	// no dedicated mate score.
	if len(moves) == 0 {
		s.stats.Leaves++
		s.stats.Terminals++
		return -eval(pos.Snapshot()), nil
	}

	if maximizing {
		best := -Infinity
		for _, m := range moves {
			score, err := s.withMove(pos, m, func() (Score, error) {
				return s.minimax(pos, eval, depth-1, alpha, beta, false)
			})
			if err != nil {
				return 0, err
			}
			best = max(best, score)
			alpha = max(alpha, best)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
		return best, nil
	}

	best := Infinity
	for _, m := range moves {
		score, err := s.withMove(pos, m, func() (Score, error) {
			return s.minimax(pos, eval, depth-1, alpha, beta, true)
		})
		if err != nil {
			return 0, err
		}
		best = min(best, score)
		beta = min(beta, best)
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best, nil
}

// withMove applies m, runs fn and undoes m on every way out of fn.
func (s *Searcher[M]) withMove(pos Position[M], m M, fn func() (Score, error)) (score Score, err error) {
	if err := pos.Apply(m); err != nil {
		return 0, fmt.Errorf("%w: apply %v: %w", ErrOracleInvariant, m, err)
	}
	defer func() {
		if uerr := pos.Undo(); uerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: undo %v: %w", ErrOracleInvariant, m, uerr))
		}
	}()
	return fn()
}
