// internal/cli/player.go
//
// player: runs the reference LLM player agent behind /get_guess.

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-arena/internal/config"
	"github.com/robalobadob/wordle-arena/internal/httpserver"
	"github.com/robalobadob/wordle-arena/internal/llm"
	"github.com/robalobadob/wordle-arena/internal/player"
)

// NewPlayerCmd runs the reference agent service backed by Ollama.
func NewPlayerCmd() *cobra.Command {
	var (
		port  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "player",
		Short: "Run a reference agent service (POST /get_guess)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPlayer()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if label != "" {
				cfg.Label = label
			}
			config.ApplyLogLevel(cfg.LogLevel)

			var gen llm.Generator
			if cfg.OllamaModel != "" {
				gen = llm.NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.ModelTimeout)
			} else {
				log.Warn().Msg("OLLAMA_MODEL not set; every reply will use the fallback strategy")
			}
			p := player.New(cfg.Label, gen, player.WithTimeout(cfg.ModelTimeout))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("player", cfg.Label).Str("port", cfg.Port).Str("model", cfg.OllamaModel).Msg("starting player")
			return httpserver.Serve(ctx, ":"+cfg.Port, p.Router())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PLAYER_PORT)")
	cmd.Flags().StringVar(&label, "label", "", "seat label (overrides PLAYER_LABEL)")
	return cmd
}
