// Package config loads process settings from the environment.
//
// A .env file in the working directory is read first (development), then
// the environment is parsed into typed structs. Unset variables take the
// envDefault values below.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Arena configures the arbiter service.
type Arena struct {
	Port           string        `env:"PORT" envDefault:"5000"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	AgentOneURL    string        `env:"AGENT_ONE_URL" envDefault:"http://localhost:5001/get_guess"`
	AgentTwoURL    string        `env:"AGENT_TWO_URL" envDefault:"http://localhost:5002/get_guess"`
	AgentTimeout   time.Duration `env:"AGENT_TIMEOUT" envDefault:"120s"`
	AgentRetries   int           `env:"AGENT_MAX_RETRIES" envDefault:"2"`
	MaxTurns       int           `env:"MAX_TURNS" envDefault:"6"`
	TurnPause      time.Duration `env:"TURN_PAUSE" envDefault:"2s"`
	WordsFile      string        `env:"WORDS_FILE"`
	ArchiveDSN     string        `env:"ARCHIVE_DSN" envDefault:"file:arena?mode=memory&cache=shared"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"*"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Player configures the reference agent service.
type Player struct {
	Label        string        `env:"PLAYER_LABEL" envDefault:"Player 1"`
	Port         string        `env:"PLAYER_PORT" envDefault:"5001"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	OllamaURL    string        `env:"OLLAMA_URL" envDefault:"http://127.0.0.1:11434"`
	OllamaModel  string        `env:"OLLAMA_MODEL"`
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"45s"`
}

// LoadDotenv reads .env files if present; a missing file is not an error.
func LoadDotenv(files ...string) {
	_ = godotenv.Load(files...)
}

// ParseEnv fills target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadArena loads .env and parses the arbiter settings.
func LoadArena() (Arena, error) {
	LoadDotenv()
	var cfg Arena
	if err := ParseEnv(&cfg); err != nil {
		return Arena{}, err
	}
	return cfg, nil
}

// LoadPlayer loads .env and parses the reference agent settings.
func LoadPlayer() (Player, error) {
	LoadDotenv()
	var cfg Player
	if err := ParseEnv(&cfg); err != nil {
		return Player{}, err
	}
	return cfg, nil
}

// ApplyLogLevel sets the global zerolog level; unknown names keep the current level.
func ApplyLogLevel(name string) {
	if lvl, err := zerolog.ParseLevel(name); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
