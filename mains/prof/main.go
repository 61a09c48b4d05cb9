package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/config"
)

func main() {
	fen := flag.String("fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "position to search")
	depth := flag.Int("depth", 4, "search depth")
	bot := flag.String("bot", "minimax", "minimax or dragon")
	mode := flag.String("mode", "cpu", "cpu or mem")
	stack := flag.Bool("stack", false, "use the explicit-stack search")
	flag.Parse()

	cfg := config.DefaultConfig()
	cfg.Depth, cfg.Bot, cfg.ExplicitStack = *depth, *bot, *stack
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opt, err := chess.FEN(*fen)
	if err != nil {
		logger.Fatal().Err(err).Msg("parsing fen")
	}
	b, err := bots.New(cfg.Bot, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building bot")
	}
	searching, ok := b.(bots.Searching)
	if !ok {
		logger.Fatal().Str("bot", cfg.Bot).Msg("bot does not search")
	}

	p := profile.CPUProfile
	if *mode == "mem" {
		p = profile.MemProfile
	}
	if err := profileSearch(searching, chess.NewGame(opt).Position(), cfg.Depth, logger, p, profile.ProfilePath(".")); err != nil {
		logger.Error().Err(err).Msg("search failed")
		os.Exit(1)
	}
}

// profileSearch runs one search under the profiler. The profile is written
// before it returns, even when the search fails.
func profileSearch(bot bots.Searching, pos *chess.Position, depth int, logger zerolog.Logger, options ...func(*profile.Profile)) error {
	defer profile.Start(options...).Stop()

	start := time.Now()
	m, stats, err := bot.SelectMove(pos)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	if m == nil {
		logger.Info().Msg("no legal move")
		return nil
	}
	nps := float64(stats.Nodes) / elapsed.Seconds()
	logger.Info().
		Stringer("move", m).
		Int("depth", depth).
		Dur("elapsed", elapsed).
		Float64("nps", nps).
		EmbedObject(stats).
		Msg("search finished")
	return nil
}
