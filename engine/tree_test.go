package engine

import (
	"errors"
	"math/rand"
)

// node is a hand-built game tree used as a rules oracle in tests. value is
// the static score of the node, positive for White.
type node struct {
	value    Score
	children []*node
}

func leaf(v Score) *node { return &node{value: v} }

func branch(v Score, children ...*node) *node { return &node{value: v, children: children} }

var errBadMove = errors.New("tree: no such move")

type treePosition struct {
	path []*node
	side Side

	applies, undos int
	// failApply makes Apply fail once the position is this many plies deep.
	failApply int
}

func newTree(root *node, side Side) *treePosition {
	return &treePosition{path: []*node{root}, side: side, failApply: -1}
}

func (t *treePosition) cur() *node { return t.path[len(t.path)-1] }

func (t *treePosition) ply() int { return len(t.path) - 1 }

func (t *treePosition) LegalMoves() []int {
	moves := make([]int, len(t.cur().children))
	for i := range moves {
		moves[i] = i
	}
	return moves
}

func (t *treePosition) Apply(m int) error {
	if t.failApply >= 0 && t.ply() == t.failApply {
		return errBadMove
	}
	children := t.cur().children
	if m < 0 || m >= len(children) {
		return errBadMove
	}
	t.path = append(t.path, children[m])
	t.side = t.side.Other()
	t.applies++
	return nil
}

func (t *treePosition) Undo() error {
	if len(t.path) == 1 {
		return errors.New("tree: nothing to undo")
	}
	t.path = t.path[:len(t.path)-1]
	t.side = t.side.Other()
	t.undos++
	return nil
}

func (t *treePosition) Snapshot() Snapshot { return Snapshot{} }

func (t *treePosition) SideToMove() Side { return t.side }

// eval reads the value of the node the tree is currently on.
func (t *treePosition) eval(Snapshot) Score { return t.cur().value }

func randomTree(rng *rand.Rand, depth int) *node {
	n := leaf(Score(rng.Intn(201) - 100))
	if depth == 0 {
		return n
	}
	for i := rng.Intn(5); i > 0; i-- {
		n.children = append(n.children, randomTree(rng, depth-1))
	}
	return n
}

// fullMinimax is plain minimax without pruning over the same tree.
func fullMinimax(n *node, depth int, maximizing bool) Score {
	if depth == 0 || len(n.children) == 0 {
		return -n.value
	}
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, c := range n.children {
		v := fullMinimax(c, depth-1, !maximizing)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func countNodes(n *node, depth int) int {
	total := 1
	if depth == 0 {
		return total
	}
	for _, c := range n.children {
		total += countNodes(c, depth-1)
	}
	return total
}
