package engine

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSelectMoveTieBreakKeepsFirst(t *testing.T) {
	tests := []struct {
		name   string
		values []Score
		want   int
	}{
		{"unique best", []Score{5, 12, 9}, 1},
		{"tie later", []Score{5, 9, 9}, 1},
		{"tie first", []Score{9, 9, 1}, 0},
		{"all equal", []Score{0, 0, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &node{}
			for _, v := range tt.values {
				root.children = append(root.children, leaf(v))
			}
			for _, explicit := range []bool{false, true} {
				tree := newTree(root, White)
				s := NewSearcher[int](tree.eval, zerolog.Nop())
				s.ExplicitStack = explicit
				got, ok, err := s.SelectMove(tree, 1)
				if err != nil || !ok {
					t.Fatalf("SelectMove: ok=%v err=%v", ok, err)
				}
				if got != tt.want {
					t.Fatalf("explicit=%v: got move %d, want %d", explicit, got, tt.want)
				}
			}
		})
	}
}

func TestSelectMoveNoLegalMoves(t *testing.T) {
	tree := newTree(leaf(10), White)
	s := NewSearcher[int](tree.eval, zerolog.Nop())
	m, ok, err := s.SelectMove(tree, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ok || m != 0 {
		t.Fatalf("got (%d, %v), want no move", m, ok)
	}
}

func TestSelectMoveInvalidDepth(t *testing.T) {
	tree := newTree(branch(0, leaf(1)), White)
	s := NewSearcher[int](tree.eval, zerolog.Nop())
	for _, depth := range []int{0, -1} {
		if _, _, err := s.SelectMove(tree, depth); !errors.Is(err, ErrInvalidDepth) {
			t.Fatalf("depth %d: err = %v, want ErrInvalidDepth", depth, err)
		}
	}
	if tree.applies != 0 {
		t.Fatalf("applied %d moves before rejecting depth", tree.applies)
	}
}

func TestSelectMovePlaysForSideToMove(t *testing.T) {
	// Child values are White-positive: White wants move 0, Black move 1.
	root := branch(0, leaf(20), leaf(-20), leaf(0))
	tests := []struct {
		side Side
		want int
	}{
		{White, 0},
		{Black, 1},
	}
	for _, tt := range tests {
		tree := newTree(root, tt.side)
		s := NewSearcher[int](tree.eval, zerolog.Nop())
		got, _, err := s.SelectMove(tree, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Fatalf("%s to move: got %d, want %d", tt.side, got, tt.want)
		}
	}
}

func TestSelectMoveAvoidsRefutedMove(t *testing.T) {
	// Move 0 wins material at once but the reply takes it back with
	// interest; move 1 is quiet.
	root := branch(0,
		branch(30, leaf(30), leaf(-60)),
		branch(0, leaf(0), leaf(5)),
	)
	tree := newTree(root, White)
	s := NewSearcher[int](tree.eval, zerolog.Nop())

	got, _, err := s.SelectMove(tree, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("depth 1: got %d, want greedy move 0", got)
	}
	got, _, err = s.SelectMove(tree, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Fatalf("depth 2: got %d, want quiet move 1", got)
	}
}

func TestSelectMoveMatchesExhaustiveRoot(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		root := randomTree(rng, 4)
		if len(root.children) == 0 {
			continue
		}
		for depth := 1; depth <= 3; depth++ {
			want, wantScore := 0, -Infinity
			for j, c := range root.children {
				score := -fullMinimax(c, depth-1, true)
				if score > wantScore {
					want, wantScore = j, score
				}
			}
			for _, explicit := range []bool{false, true} {
				tree := newTree(root, White)
				s := NewSearcher[int](tree.eval, zerolog.Nop())
				s.ExplicitStack = explicit
				got, ok, err := s.SelectMove(tree, depth)
				if err != nil || !ok {
					t.Fatalf("ok=%v err=%v", ok, err)
				}
				if got != want {
					t.Fatalf("tree %d depth %d explicit=%v: got %d, want %d", i, depth, explicit, got, want)
				}
				if tree.ply() != 0 || tree.applies != tree.undos {
					t.Fatalf("position not restored")
				}
			}
		}
	}
}

func TestSelectMoveErrorIsFatal(t *testing.T) {
	root := branch(0, branch(0, leaf(1)), leaf(2))
	tree := newTree(root, White)
	tree.failApply = 1
	s := NewSearcher[int](tree.eval, zerolog.Nop())
	_, ok, err := s.SelectMove(tree, 2)
	if !errors.Is(err, ErrOracleInvariant) {
		t.Fatalf("err = %v, want ErrOracleInvariant", err)
	}
	if ok {
		t.Fatal("a move was returned despite the oracle failure")
	}
	if tree.ply() != 0 || tree.applies != tree.undos {
		t.Fatalf("position not restored")
	}
}

func TestSelectMoveLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	tree := newTree(branch(0, leaf(1), leaf(2)), White)
	s := NewSearcher[int](tree.eval, zerolog.New(&buf).Level(zerolog.InfoLevel))
	if _, _, err := s.SelectMove(tree, 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"message":"move selected"`) || !strings.Contains(out, `"nodes":2`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "root candidate") {
		t.Fatalf("debug lines leaked at info level: %s", out)
	}
}
