package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

// fingerprintCmd represents the fingerprint command.
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <file>",
	Short: "Print the stable content-addressed id of every block",
	Long: `Print the fingerprint-derived id for every block in a document,
computed from each block's type, content, and config (regions excluded).

For blocks with an explicit id the fingerprint is shown alongside it, which
helps spot blocks whose stored id has drifted from their payload.`,
	Args: cobra.ExactArgs(1),
	RunE: runFingerprintCommand,
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}

func runFingerprintCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	for _, block := range blocks {
		block.Walk(func(b *blockdown.Block) bool {
			fp := blockdown.Fingerprint(b.Type, b.Content, b.Config)
			if b.ID == fp {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", fp, b.Type)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (explicit id %s)\n", fp, b.Type, b.ID)
			}
			return true
		})
	}
	return nil
}
