package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

var parseFormat string

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a block document and print its block tree",
	Long: `Parse a block document and print the resulting block tree.

Blocks without an explicit id receive a stable content-addressed id, so
repeated parses of unchanged text print identical trees.

Examples:
  blockdown parse page.md                 # JSON block tree
  blockdown parse page.md --format text   # indented outline`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCommand,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "Output format (json, text)")
}

func runParseCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	switch parseFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	case "text":
		for _, block := range blocks {
			printOutline(cmd, block, 0)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", parseFormat)
	}
}

// printOutline writes an indented id/type outline of the tree.
func printOutline(cmd *cobra.Command, block *blockdown.Block, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s [%s]\n", indent, block.Type, block.ID)
	for i := range block.Regions {
		region := &block.Regions[i]
		fmt.Fprintf(cmd.OutOrStdout(), "%s  region %s:\n", indent, region.Name)
		for _, child := range region.Blocks {
			printOutline(cmd, child, depth+2)
		}
	}
}
