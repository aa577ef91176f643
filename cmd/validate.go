package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	blockerrors "github.com/sparktype/blockdown/internal/errors"
	"github.com/sparktype/blockdown/pkg/blockdown"
)

var validateFormat string

// fileReport is one file's validation outcome for JSON output.
type fileReport struct {
	File    string   `json:"file"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
	Failure string   `json:"failure,omitempty"`
}

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Validate block documents for structural issues",
	Long: `Validate block documents. Directories are walked recursively for
.md files. Reported issues include:

- Documents that fail to parse (malformed bodies, unmatched block:end,
  unclosed containers)
- Blocks with a missing id
- Blocks with a missing type

Examples:
  blockdown validate page.md
  blockdown validate content/
  blockdown validate --format json content/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	collector := blockerrors.NewCollector()
	var reports []fileReport

	for _, path := range files {
		report := validateFile(path, collector)
		reports = append(reports, report)
	}

	if validateFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			if report.Valid {
				continue
			}
			if report.Failure != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", report.File, report.Failure)
			}
			for _, msg := range report.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", report.File, msg)
			}
		}
	}

	if collector.HasIssues() {
		return fmt.Errorf("validation failed for %d of %d file(s)", countInvalid(reports), len(reports))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) valid\n", len(reports))
	return nil
}

// validateFile parses and validates one document.
func validateFile(path string, collector *blockerrors.Collector) fileReport {
	report := fileReport{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		collector.AddError(err)
		report.Valid = false
		report.Failure = err.Error()
		return report
	}

	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		collector.AddError(err)
		report.Valid = false
		report.Failure = err.Error()
		return report
	}

	result := blockdown.Validate(blocks)
	if !result.IsValid {
		report.Valid = false
		report.Errors = result.Errors
		for _, msg := range result.Errors {
			collector.AddFinding(blockerrors.Finding{File: path, Message: msg})
		}
	}
	return report
}

// collectFiles expands file and directory arguments into a flat list of block
// document paths.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == ".md" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func countInvalid(reports []fileReport) int {
	n := 0
	for _, r := range reports {
		if !r.Valid {
			n++
		}
	}
	return n
}
