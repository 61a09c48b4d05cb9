package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/notnil/chess"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/engine"
)

type failingBot struct{ bots.ChessBot }

var errBroken = errors.New("broken oracle")

func (failingBot) SelectMove(*chess.Position) (*chess.Move, engine.Stats, error) {
	return nil, engine.Stats{}, errBroken
}

func TestProfileSearchReportsFailure(t *testing.T) {
	dir := t.TempDir()
	err := profileSearch(failingBot{bots.NewNewbornBot()}, chess.NewGame().Position(), 1, zerolog.Nop(),
		profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
	if !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want the search error", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Fatalf("profile not written: %v", err)
	}
}

func TestProfileSearch(t *testing.T) {
	dir := t.TempDir()
	err := profileSearch(bots.NewMinimaxBot(1, zerolog.Nop()), chess.NewGame().Position(), 1, zerolog.Nop(),
		profile.MemProfile, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Fatalf("profile not written: %v", err)
	}
}
