package engine

import (
	"errors"
	"fmt"
)

// frame is one node of the explicit search stack. Every frame above the
// root sits on exactly one applied move.
type frame[M any] struct {
	depth       int
	alpha, beta Score
	maximizing  bool

	expanded bool
	moves    []M
	next     int
	best     Score
	cut      bool
}

// SearchStack computes the same value as Search without recursion. Stack
// growth is bounded by the heap instead of the goroutine stack, and the
// loop visits nodes in the same order with the same cutoffs.
func (s *Searcher[M]) SearchStack(pos Position[M], depth int, alpha, beta Score, maximizing bool) (Score, error) {
	if depth < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	s.stats = Stats{}
	return s.stackSearch(pos, s.evaluator(), depth, alpha, beta, maximizing)
}

func (s *Searcher[M]) stackSearch(pos Position[M], eval Evaluator, depth int, alpha, beta Score, maximizing bool) (score Score, err error) {
	stack := make([]frame[M], 1, depth+1)
	stack[0] = frame[M]{depth: depth, alpha: alpha, beta: beta, maximizing: maximizing}

	// Unwind whatever is still applied when we leave early.
	defer func() {
		for i := len(stack) - 1; i > 0; i-- {
			if uerr := pos.Undo(); uerr != nil {
				err = errors.Join(err, fmt.Errorf("%w: unwind: %w", ErrOracleInvariant, uerr))
			}
		}
	}()

	for {
		f := &stack[len(stack)-1]

		var value Score
		done := false
		if !f.expanded {
			f.expanded = true
			s.stats.Nodes++
			if f.depth == 0 {
				s.stats.Leaves++
				value, done = -eval(pos.Snapshot()), true
			} else if f.moves = pos.LegalMoves(); len(f.moves) == 0 {
				s.stats.Leaves++
				s.stats.Terminals++
				value, done = -eval(pos.Snapshot()), true
			} else if f.maximizing {
				f.best = -Infinity
			} else {
				f.best = Infinity
			}
		}
		if !done && (f.cut || f.next == len(f.moves)) {
			value, done = f.best, true
		}

		if !done {
			m := f.moves[f.next]
			f.next++
			if err := pos.Apply(m); err != nil {
				return 0, fmt.Errorf("%w: apply %v: %w", ErrOracleInvariant, m, err)
			}
			stack = append(stack, frame[M]{
				depth:      f.depth - 1,
				alpha:      f.alpha,
				beta:       f.beta,
				maximizing: !f.maximizing,
			})
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return value, nil
		}
		if err := pos.Undo(); err != nil {
			return 0, fmt.Errorf("%w: undo: %w", ErrOracleInvariant, err)
		}

		p := &stack[len(stack)-1]
		if p.maximizing {
			p.best = max(p.best, value)
			p.alpha = max(p.alpha, p.best)
		} else {
			p.best = min(p.best, value)
			p.beta = min(p.beta, p.best)
		}
		if p.beta <= p.alpha {
			p.cut = true
			s.stats.Cutoffs++
		}
	}
}
