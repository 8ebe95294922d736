package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	LogLevel  string `yaml:"log-level" env:"UTTT_LOG_LEVEL" env-default:"info"`
	LogPretty bool   `yaml:"log-pretty" env:"UTTT_LOG_PRETTY" env-default:"false"`
	// 0 picks tie-breaks with a cryptographic generator
	Seed   uint64 `yaml:"seed" env:"UTTT_SEED" env-default:"0"`
	Search Search `yaml:"search"`
	Arena  Arena  `yaml:"arena"`
	Render Render `yaml:"render"`
}

type Search struct {
	MinRound             int `yaml:"min-round" env:"UTTT_SEARCH_MIN_ROUND" env-default:"9"`
	Threads              int `yaml:"threads" env:"UTTT_SEARCH_THREADS" env-default:"1"`
	MaxDepth             int `yaml:"max-depth" env:"UTTT_SEARCH_MAX_DEPTH" env-default:"0"`
	SafetyMarginMs       int `yaml:"safety-margin-ms" env:"UTTT_SEARCH_SAFETY_MARGIN_MS" env-default:"20"`
	DefaultTimePerMoveMs int `yaml:"default-time-per-move-ms" env:"UTTT_SEARCH_DEFAULT_TIME_PER_MOVE_MS" env-default:"500"`
}

type Arena struct {
	Games      int `yaml:"games" env:"UTTT_ARENA_GAMES" env-default:"20"`
	Workers    int `yaml:"workers" env:"UTTT_ARENA_WORKERS" env-default:"2"`
	MovetimeMs int `yaml:"movetime-ms" env:"UTTT_ARENA_MOVETIME_MS" env-default:"100"`
}

type Render struct {
	Color bool `yaml:"color" env:"UTTT_RENDER_COLOR" env-default:"true"`
}

func (s Search) SafetyMargin() time.Duration {
	return time.Duration(s.SafetyMarginMs) * time.Millisecond
}

func (s Search) DefaultTimePerMove() time.Duration {
	return time.Duration(s.DefaultTimePerMoveMs) * time.Millisecond
}

func (a Arena) Movetime() time.Duration {
	return time.Duration(a.MovetimeMs) * time.Millisecond
}

// Load reads the configuration file at path, overridden by the environment.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad - same as Load, panics on error
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value int
		min   int
	}{
		{"search.min-round", c.Search.MinRound, 0},
		{"search.threads", c.Search.Threads, 1},
		{"search.max-depth", c.Search.MaxDepth, 0},
		{"search.safety-margin-ms", c.Search.SafetyMarginMs, 0},
		{"search.default-time-per-move-ms", c.Search.DefaultTimePerMoveMs, 1},
		{"arena.games", c.Arena.Games, 0},
		{"arena.workers", c.Arena.Workers, 1},
		{"arena.movetime-ms", c.Arena.MovetimeMs, 1},
	}

	for _, check := range checks {
		if check.value < check.min {
			return fmt.Errorf("%w: %s=%d, must be at least %d", ErrInvalidConfig, check.name, check.value, check.min)
		}
	}
	return nil
}
