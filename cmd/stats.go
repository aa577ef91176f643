package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/sparktype/blockdown/pkg/blockdown"
)

// docStats aggregates counts over one document.
type docStats struct {
	Blocks     int
	Containers int
	Regions    int
	Words      int
}

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats <file>...",
	Short: "Report block counts and rich-text word counts",
	Long: `Report per-file statistics: total blocks, container blocks, regions,
and word counts. Word counts cover every string value under a block's
content mapping, with HTML markup stripped (rich text bodies store HTML).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStatsCommand,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		blocks, err := blockdown.Parse(string(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		stats := collectStats(blocks)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d blocks (%d containers, %d regions), %d words\n",
			path, stats.Blocks, stats.Containers, stats.Regions, stats.Words)
	}
	return nil
}

// collectStats walks the tree tallying blocks, regions, and words.
func collectStats(blocks []*blockdown.Block) docStats {
	var stats docStats
	for _, block := range blocks {
		block.Walk(func(b *blockdown.Block) bool {
			stats.Blocks++
			if b.IsContainer() {
				stats.Containers++
				stats.Regions += len(b.Regions)
			}
			stats.Words += countContentWords(b.Content)
			return true
		})
	}
	return stats
}

// countContentWords counts words in every string value of a content mapping,
// recursing into nested mappings.
func countContentWords(content map[string]interface{}) int {
	n := 0
	for _, value := range content {
		switch v := value.(type) {
		case string:
			n += len(strings.Fields(stripHTML(v)))
		case map[string]interface{}:
			n += countContentWords(v)
		}
	}
	return n
}

// stripHTML extracts the text content of an HTML fragment. Plain text passes
// through unchanged.
func stripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return fragment
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tokenizer.Text())
			sb.WriteByte(' ')
		}
	}
}
