// internal/cli/root.go
//
// Root command: builds the cobra tree and the Execute entrypoint.

// Package cli wires configuration into the arbiter and reference player
// commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arena",
		Short:         "Wordle arena: two language-model agents race to the same secret word",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPlayerCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
