package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero depth", func(c *Config) { c.Depth = 0 }},
		{"unknown bot", func(c *Config) { c.Bot = "stockfish" }},
		{"unknown evaluator", func(c *Config) { c.Evaluator = "nnue" }},
		{"bad colour", func(c *Config) { c.PlayerColor = "red" }},
		{"negative delay", func(c *Config) { c.BotDelayMs = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"depth": 2, "bot": "dragon", "explicit_stack": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Depth != 2 || cfg.Bot != "dragon" || !cfg.ExplicitStack {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.PlayerColor != "white" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("defaults not kept: %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"depth": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}

	cfg, err = Load("")
	if err != nil || cfg != DefaultConfig() {
		t.Fatalf("empty path: %+v, %v", cfg, err)
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	s := NewStore(DefaultConfig())
	bad := DefaultConfig()
	bad.Depth = -3
	if err := s.Update(bad); err == nil {
		t.Fatal("expected error")
	}
	if s.Get().Depth != 3 {
		t.Fatalf("invalid update leaked: %+v", s.Get())
	}
	good := DefaultConfig()
	good.Depth = 5
	if err := s.Update(good); err != nil {
		t.Fatal(err)
	}
	if s.Get().Depth != 5 {
		t.Fatalf("update lost: %+v", s.Get())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogPretty = false
	cfg.LogLevel = "warn"
	logger, err := NewLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
