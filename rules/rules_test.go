package rules

import (
	"errors"
	"sort"
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/engine"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var testFENs = []string{
	startFEN,
	// castling both ways available
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	// en passant on d6
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	// promotions with and without capture
	"1r2k3/2P5/8/8/8/8/6p1/4K2R b K - 0 1",
}

func TestGamePositionRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		before, snap, side := pos.FEN(), pos.Snapshot(), pos.SideToMove()
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			t.Fatalf("%s: no legal moves", fen)
		}
		for _, m := range moves {
			if err := pos.Apply(m); err != nil {
				t.Fatalf("%s: apply %s: %v", fen, m, err)
			}
			if pos.SideToMove() == side {
				t.Fatalf("%s: side to move did not flip after %s", fen, m)
			}
			if err := pos.Undo(); err != nil {
				t.Fatal(err)
			}
			if pos.FEN() != before || pos.Snapshot() != snap || pos.SideToMove() != side {
				t.Fatalf("%s: %s not undone: got %s", fen, m, pos.FEN())
			}
		}
	}
}

func TestDragonPositionRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := NewDragonPosition(fen)
		if err != nil {
			t.Fatal(err)
		}
		before, side := pos.Board(), pos.SideToMove()
		for _, m := range pos.LegalMoves() {
			if err := pos.Apply(m); err != nil {
				t.Fatalf("%s: apply %s: %v", fen, m.String(), err)
			}
			if err := pos.Undo(); err != nil {
				t.Fatal(err)
			}
			if pos.Board() != before || pos.SideToMove() != side {
				t.Fatalf("%s: %s not undone", fen, m.String())
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	for _, fen := range testFENs {
		g, err := FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		d, err := NewDragonPosition(fen)
		if err != nil {
			t.Fatal(err)
		}
		if g.Snapshot() != d.Snapshot() {
			t.Fatalf("%s: snapshots differ", fen)
		}
		if g.SideToMove() != d.SideToMove() {
			t.Fatalf("%s: side to move differs", fen)
		}

		var gm, dm []string
		for _, m := range g.LegalMoves() {
			gm = append(gm, m.String())
		}
		for _, m := range d.LegalMoves() {
			dm = append(dm, m.String())
		}
		sort.Strings(gm)
		sort.Strings(dm)
		if len(gm) != len(dm) {
			t.Fatalf("%s: %d moves vs %d", fen, len(gm), len(dm))
		}
		for i := range gm {
			if gm[i] != dm[i] {
				t.Fatalf("%s: move lists differ: %v vs %v", fen, gm, dm)
			}
		}

		// Full-width alpha-beta values do not depend on move order.
		gs := engine.NewSearcher[*chess.Move](nil, zerolog.Nop())
		ds := engine.NewSearcher[dragon.Move](nil, zerolog.Nop())
		gv, err := gs.Search(g, 2, -engine.Infinity, engine.Infinity, true)
		if err != nil {
			t.Fatal(err)
		}
		dv, err := ds.Search(d, 2, -engine.Infinity, engine.Infinity, true)
		if err != nil {
			t.Fatal(err)
		}
		if gv != dv {
			t.Fatalf("%s: depth 2 values %d vs %d", fen, gv, dv)
		}
	}
}

func TestStartingSnapshot(t *testing.T) {
	pos, err := FromFEN(startFEN)
	if err != nil {
		t.Fatal(err)
	}
	snap := pos.Snapshot()
	if got := snap[0][4]; got != (engine.Piece{Kind: engine.King, Side: engine.White}) {
		t.Fatalf("e1 = %+v", got)
	}
	if got := snap[7][3]; got != (engine.Piece{Kind: engine.Queen, Side: engine.Black}) {
		t.Fatalf("d8 = %+v", got)
	}
	if !snap[4][4].Empty() {
		t.Fatalf("e5 should be empty")
	}
	if got := engine.Material(snap); got != 0 {
		t.Fatalf("material = %d", got)
	}
}

func TestUndoWithoutApply(t *testing.T) {
	g, _ := FromFEN(startFEN)
	if err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("err = %v", err)
	}
	d, _ := NewDragonPosition(startFEN)
	if err := d.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyRejectsOpponentMove(t *testing.T) {
	afterE4 := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

	blackGame, _ := FromFEN(afterE4)
	reply, err := FindMove(blackGame.Current(), "e7e5")
	if err != nil {
		t.Fatal(err)
	}
	g, _ := FromFEN(startFEN)
	if err := g.Apply(reply); !errors.Is(err, ErrNotOwnPiece) {
		t.Fatalf("err = %v, want ErrNotOwnPiece", err)
	}
	if err := g.Apply(nil); !errors.Is(err, ErrNoSuchMove) {
		t.Fatalf("nil move: err = %v", err)
	}

	blackDragon, _ := NewDragonPosition(afterE4)
	var dragonReply dragon.Move
	for _, m := range blackDragon.LegalMoves() {
		if m.String() == "e7e5" {
			dragonReply = m
		}
	}
	d, _ := NewDragonPosition(startFEN)
	before := d.Board()
	if err := d.Apply(dragonReply); !errors.Is(err, ErrNotOwnPiece) {
		t.Fatalf("err = %v, want ErrNotOwnPiece", err)
	}
	if d.Board() != before {
		t.Fatal("rejected move changed the board")
	}
}

func TestFindMove(t *testing.T) {
	pos, _ := FromFEN(testFENs[3])
	m, err := FindMove(pos.Current(), "g2g1q")
	if err != nil {
		t.Fatal(err)
	}
	if m.Promo() != chess.Queen {
		t.Fatalf("promo = %v", m.Promo())
	}
	if _, err := FindMove(pos.Current(), "e8e6"); !errors.Is(err, ErrNoSuchMove) {
		t.Fatalf("err = %v, want ErrNoSuchMove", err)
	}
}

func TestInvalidFEN(t *testing.T) {
	if _, err := FromFEN("not a fen"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := NewDragonPosition("8/8/8 w"); err == nil {
		t.Fatal("expected error")
	}
}
