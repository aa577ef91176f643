package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

var newContainer bool

// newCmd represents the new command.
var newCmd = &cobra.Command{
	Use:   "new <type>",
	Short: "Print a scaffold snippet for a new block",
	Long: `Print a ready-to-paste block snippet for the given namespaced type,
with a stable fingerprint id and a display label derived from the type kind.

Examples:
  blockdown new core:rich_text
  blockdown new core:two_column --container`,
	Args: cobra.ExactArgs(1),
	RunE: runNewCommand,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newContainer, "container", false, "Scaffold a container block with one region")
}

func runNewCommand(cmd *cobra.Command, args []string) error {
	blockType := args[0]
	if !strings.Contains(blockType, ":") {
		return fmt.Errorf("block type must be namespaced (namespace:kind), got %q", blockType)
	}

	label := displayLabel(blockType)

	block := &blockdown.Block{Type: blockType}
	if newContainer {
		block.Config = map[string]interface{}{"label": label}
		block.Regions = []blockdown.Region{{Name: blockdown.DefaultRegion, Blocks: []*blockdown.Block{}}}
	} else {
		block.Content = map[string]interface{}{"text": label}
	}
	block.ID = blockdown.Fingerprint(block.Type, block.Content, block.Config)

	snippet, err := blockdown.Serialize([]*blockdown.Block{block})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), snippet)
	return nil
}

// displayLabel turns the kind part of a namespaced type into a human-readable
// title (e.g. "core:rich_text" -> "Rich Text").
func displayLabel(blockType string) string {
	kind := blockType
	if idx := strings.LastIndex(blockType, ":"); idx >= 0 {
		kind = blockType[idx+1:]
	}
	kind = strings.ReplaceAll(kind, "_", " ")
	return cases.Title(language.English).String(kind)
}
