// internal/cli/serve.go
//
// serve: runs the arbiter.
// Responsibilities:
//   - Load config, word bank and the SQLite archive.
//   - Wire agent client, orchestrator, broker and metrics into the HTTP server.
//   - Shut down on SIGINT/SIGTERM, draining the match loop first.

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-arena/internal/agent"
	"github.com/robalobadob/wordle-arena/internal/arena"
	"github.com/robalobadob/wordle-arena/internal/config"
	"github.com/robalobadob/wordle-arena/internal/events"
	"github.com/robalobadob/wordle-arena/internal/httpserver"
	"github.com/robalobadob/wordle-arena/internal/metrics"
	"github.com/robalobadob/wordle-arena/internal/store"
	"github.com/robalobadob/wordle-arena/internal/words"
)

// NewServeCmd runs the arbiter: orchestrator, observer stream and archive.
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the arbiter service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadArena()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			config.ApplyLogLevel(cfg.LogLevel)

			if err := words.Init(cfg.WordsFile); err != nil {
				return fmt.Errorf("load word bank: %w", err)
			}
			bank := words.Default()
			log.Info().Int("words", bank.Len()).Msg("word bank loaded")

			archive, err := store.OpenSQLite(cfg.ArchiveDSN)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer archive.Close()

			m := metrics.New()
			broker := events.NewBroker()
			client := agent.New(
				agent.WithTimeout(cfg.AgentTimeout),
				agent.WithMaxRetries(cfg.AgentRetries),
				agent.WithRecorder(m),
			)
			orch := arena.New(arena.Config{
				AgentOne:  cfg.AgentOneURL,
				AgentTwo:  cfg.AgentTwoURL,
				MaxTurns:  cfg.MaxTurns,
				TurnPause: cfg.TurnPause,
			}, client, bank, broker, arena.WithArchive(archive), arena.WithRecorder(m))
			// Drain the match loop before the archive closes underneath it.
			defer func() {
				orch.Stop()
				<-orch.Done()
			}()

			srv := httpserver.New(httpserver.Deps{
				Arena:          orch,
				Broker:         broker,
				Archive:        archive,
				Metrics:        m,
				Words:          bank,
				ClientOrigin:   cfg.ClientOrigin,
				RequestTimeout: cfg.RequestTimeout,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().
				Str("port", cfg.Port).
				Str("agentOne", cfg.AgentOneURL).
				Str("agentTwo", cfg.AgentTwoURL).
				Msg("starting arena")
			return srv.Run(ctx, ":"+cfg.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
