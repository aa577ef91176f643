package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list <file>",
	Aliases: []string{"ls"},
	Short:   "List the blocks in a document as an outline",
	Args:    cobra.ExactArgs(1),
	RunE:    runListCommand,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runListCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if len(blocks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no blocks")
		return nil
	}

	for _, block := range blocks {
		listBlock(cmd, block, 0)
	}
	return nil
}

func listBlock(cmd *cobra.Command, block *blockdown.Block, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := "content"
	if block.IsContainer() {
		kind = "container"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%-9s %-24s %s\n", indent, kind, block.Type, block.ID)
	for i := range block.Regions {
		region := &block.Regions[i]
		fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n", indent, region.Name)
		for _, child := range region.Blocks {
			listBlock(cmd, child, depth+2)
		}
	}
}
