// Package uci speaks enough of the Universal Chess Interface for a GUI to
// play against the bots at a fixed depth.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/engine"
	"chessbot/rules"
)

const (
	EngineName   = "chessbot"
	EngineAuthor = "chessbot authors"
)

type Engine struct {
	cfg  config.Config
	game *chess.Game
	out  io.Writer
	log  zerolog.Logger
}

func NewEngine(cfg config.Config, out io.Writer, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:  cfg,
		game: chess.NewGame(),
		out:  out,
		log:  logger.With().Str("component", "uci").Logger(),
	}
}

// Run reads commands from in until "quit" or end of input.
func (e *Engine) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if strings.ToLower(tokens[0]) == "quit" {
			return nil
		}
		e.handle(tokens)
	}
	return scanner.Err()
}

func (e *Engine) println(a ...any) {
	fmt.Fprintln(e.out, a...)
}

func (e *Engine) handle(tokens []string) {
	switch strings.ToLower(tokens[0]) {
	case "uci":
		e.println("id name", EngineName)
		e.println("id author", EngineAuthor)
		e.println("option name Depth type spin default", e.cfg.Depth, "min 1 max 64")
		e.println("option name Bot type combo default", e.cfg.Bot, "var", strings.Join(bots.Names(), " var "))
		e.println("uciok")
	case "isready":
		e.println("readyok")
	case "ucinewgame":
		e.game = chess.NewGame()
	case "setoption":
		e.setOption(tokens)
	case "position":
		if err := e.setPosition(tokens[1:]); err != nil {
			e.println("info string", err)
		}
	case "go":
		e.search(tokens[1:])
	default:
		e.println("info string Unknown command:", strings.Join(tokens, " "))
	}
}

func (e *Engine) setOption(tokens []string) {
	if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
		e.println("info string Malformed setoption command")
		return
	}
	cfg := e.cfg
	switch strings.ToLower(tokens[2]) {
	case "depth":
		depth, err := strconv.Atoi(tokens[4])
		if err != nil {
			e.println("info string Depth value is not an int (", err, ")")
			return
		}
		cfg.Depth = depth
	case "bot":
		cfg.Bot = strings.ToLower(tokens[4])
	default:
		e.println("info string Unknown UCI option", tokens[2])
		return
	}
	if err := cfg.Validate(); err != nil {
		e.println("info string", err)
		return
	}
	e.cfg = cfg
}

// setPosition handles "startpos [moves ...]" and "fen <fen> [moves ...]".
func (e *Engine) setPosition(args []string) error {
	if len(args) == 0 {
		return errors.New("malformed position command")
	}
	var g *chess.Game
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		g = chess.NewGame()
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		if i == 0 {
			return errors.New("invalid fen position")
		}
		opt, err := chess.FEN(strings.Join(rest[:i], " "))
		if err != nil {
			return fmt.Errorf("invalid fen position: %v", err)
		}
		g = chess.NewGame(opt)
		rest = rest[i:]
	default:
		return errors.New("invalid position subcommand")
	}

	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, s := range rest[1:] {
			m, err := rules.FindMove(g.Position(), strings.ToLower(s))
			if err != nil {
				return fmt.Errorf("move %s not found for position %s", s, g.Position())
			}
			if err := g.Move(m); err != nil {
				return err
			}
		}
	}
	e.game = g
	return nil
}

func (e *Engine) search(args []string) {
	cfg := e.cfg
	for i := 0; i < len(args); i++ {
		if strings.ToLower(args[i]) != "depth" {
			continue
		}
		if i+1 >= len(args) {
			e.println("info string Malformed go command option depth")
			return
		}
		depth, err := strconv.Atoi(args[i+1])
		if err != nil || depth < 1 {
			e.println("info string Malformed go command option; could not convert depth")
			return
		}
		cfg.Depth = depth
		i++
	}

	bot, err := bots.New(cfg.Bot, cfg, e.log)
	if err != nil {
		e.println("info string", err)
		return
	}

	var m *chess.Move
	if searching, ok := bot.(bots.Searching); ok {
		var stats engine.Stats
		m, stats, err = searching.SelectMove(e.game.Position())
		e.println("info depth", cfg.Depth, "nodes", stats.Nodes)
	} else {
		m, err = bot.BestMove(e.game)
	}
	if err != nil {
		e.log.Error().Err(err).Msg("search failed")
		e.println("info string", err)
	}

	if m == nil {
		e.println("bestmove 0000")
		return
	}
	e.println("bestmove", m.String())
}
