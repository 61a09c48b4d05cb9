package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type Config struct {
	Depth         int    `json:"depth"`
	Bot           string `json:"bot"`
	Evaluator     string `json:"evaluator"`
	ExplicitStack bool   `json:"explicit_stack"`
	PlayerColor   string `json:"player_color"`
	BotDelayMs    int    `json:"bot_delay_ms"`
	HTTPAddr      string `json:"http_addr"`
	LogLevel      string `json:"log_level"`
	LogPretty     bool   `json:"log_pretty"`
}

func DefaultConfig() Config {
	return Config{
		Depth:     3,
		Bot:       "minimax",
		Evaluator: "material",

		PlayerColor: "white",
		BotDelayMs:  300,

		HTTPAddr: ":8080",

		LogLevel:  "info",
		LogPretty: true,
	}
}

// bot names known to the bots registry
var knownBots = map[string]bool{"newborn": true, "random": true, "minimax": true, "dragon": true}

var knownEvaluators = map[string]bool{"material": true, "positional": true}

var ErrInvalid = errors.New("config: invalid")

func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: depth must be at least 1, got %d", ErrInvalid, c.Depth)
	}
	if !knownBots[c.Bot] {
		return fmt.Errorf("%w: unknown bot %q", ErrInvalid, c.Bot)
	}
	if !knownEvaluators[c.Evaluator] {
		return fmt.Errorf("%w: unknown evaluator %q", ErrInvalid, c.Evaluator)
	}
	if c.PlayerColor != "white" && c.PlayerColor != "black" {
		return fmt.Errorf("%w: player_color must be white or black, got %q", ErrInvalid, c.PlayerColor)
	}
	if c.BotDelayMs < 0 {
		return fmt.Errorf("%w: negative bot_delay_ms", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Load reads a JSON file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type Store struct {
	mu     sync.RWMutex
	config Config
}

func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update replaces the configuration if it is valid.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}
