package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

var (
	fmtCheck bool
	fmtWrite bool
)

// fmtCmd represents the fmt command.
var fmtCmd = &cobra.Command{
	Use:   "fmt <file>...",
	Short: "Reformat block documents into canonical form",
	Long: `Reformat block documents by parsing and re-serializing them. The
canonical form has a fixed body key order and stable region ordering; the
decoded payload and tree shape are unchanged.

Examples:
  blockdown fmt page.md            # print canonical form to stdout
  blockdown fmt --write page.md    # rewrite the file in place
  blockdown fmt --check content/*.md   # exit nonzero if any file differs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmtCommand,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit nonzero if any file is not canonically formatted")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Rewrite files in place")
}

func runFmtCommand(cmd *cobra.Command, args []string) error {
	var dirty []string

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		blocks, err := blockdown.Parse(string(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		formatted, err := blockdown.Serialize(blocks)
		if err != nil {
			return fmt.Errorf("serializing %s: %w", path, err)
		}

		if formatted == string(data) {
			continue
		}
		dirty = append(dirty, path)

		switch {
		case fmtCheck:
			fmt.Fprintln(cmd.OutOrStdout(), path)
		case fmtWrite:
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		default:
			fmt.Fprint(cmd.OutOrStdout(), formatted)
		}
	}

	if fmtCheck && len(dirty) > 0 {
		return fmt.Errorf("%d file(s) not canonically formatted", len(dirty))
	}
	return nil
}
