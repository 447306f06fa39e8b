// internal/cli/config.go
//
// config: prints the effective settings as JSON.

package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-arena/internal/config"
)

// NewConfigCmd prints the effective arbiter and player settings.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			arenaCfg, err := config.LoadArena()
			if err != nil {
				return err
			}
			playerCfg, err := config.LoadPlayer()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"arena":  arenaCfg,
				"player": playerCfg,
			})
		},
	}
}
