package main

import (
	"flag"
	"fmt"
	"os"

	"chessbot/config"
	"chessbot/uci"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	depth := flag.Int("depth", 0, "search depth (overrides config)")
	bot := flag.String("bot", "", "bot name (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		if *depth != 0 {
			cfg.Depth = *depth
		}
		if *bot != "" {
			cfg.Bot = *bot
		}
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout belongs to the protocol
	logger, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := uci.NewEngine(cfg, os.Stdout, logger).Run(os.Stdin); err != nil {
		logger.Fatal().Err(err).Msg("reading stdin")
	}
}
