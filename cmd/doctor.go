package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/sparktype/blockdown/internal/config"
	"github.com/sparktype/blockdown/pkg/blockdown"
)

var doctorFormat string

// DoctorCheck is one diagnostic finding.
type DoctorCheck struct {
	Name       string `json:"name" yaml:"name"`
	Status     string `json:"status" yaml:"status"` // "ok", "warning", "error"
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// DoctorReport is the full diagnostic report.
type DoctorReport struct {
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Checks    []DoctorCheck `json:"checks" yaml:"checks"`
}

// doctorCmd represents the doctor command.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and content health",
	Long: `Diagnose the project setup: configuration file validity, scan path
existence, and whether the content tree parses cleanly.

Examples:
  blockdown doctor
  blockdown doctor --format yaml`,
	RunE: runDoctorCommand,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

func runDoctorCommand(cmd *cobra.Command, args []string) error {
	report := &DoctorReport{Timestamp: time.Now()}

	report.Checks = append(report.Checks, checkConfigFile())

	cfg, err := config.Load()
	if err != nil {
		report.Checks = append(report.Checks, DoctorCheck{
			Name:       "configuration",
			Status:     "error",
			Message:    err.Error(),
			Suggestion: "fix the reported setting in .blockdown.yml",
		})
		return outputDoctorReport(cmd, report)
	}
	report.Checks = append(report.Checks, DoctorCheck{
		Name:    "configuration",
		Status:  "ok",
		Message: "configuration loads and validates",
	})

	for _, path := range cfg.Content.ScanPaths {
		report.Checks = append(report.Checks, checkScanPath(path))
	}

	return outputDoctorReport(cmd, report)
}

// checkConfigFile reports whether an explicit config file is in use.
func checkConfigFile() DoctorCheck {
	used := viper.ConfigFileUsed()
	if used == "" {
		return DoctorCheck{
			Name:       "config file",
			Status:     "warning",
			Message:    "no .blockdown.yml found, using defaults",
			Suggestion: "create .blockdown.yml to pin content paths and server settings",
		}
	}
	return DoctorCheck{
		Name:    "config file",
		Status:  "ok",
		Message: fmt.Sprintf("using %s", used),
	}
}

// checkScanPath verifies a scan path exists and its documents parse.
func checkScanPath(root string) DoctorCheck {
	info, err := os.Stat(root)
	if err != nil {
		return DoctorCheck{
			Name:       fmt.Sprintf("scan path %s", root),
			Status:     "error",
			Message:    err.Error(),
			Suggestion: "create the directory or adjust content.scan_paths",
		}
	}
	if !info.IsDir() {
		return DoctorCheck{
			Name:    fmt.Sprintf("scan path %s", root),
			Status:  "error",
			Message: "not a directory",
		}
	}

	total, failed := 0, 0
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		total++
		data, err := os.ReadFile(path)
		if err != nil {
			failed++
			return nil
		}
		if _, err := blockdown.Parse(string(data)); err != nil {
			failed++
		}
		return nil
	})

	if failed > 0 {
		return DoctorCheck{
			Name:       fmt.Sprintf("scan path %s", root),
			Status:     "warning",
			Message:    fmt.Sprintf("%d of %d document(s) fail to parse", failed, total),
			Suggestion: "run blockdown validate for details",
		}
	}
	return DoctorCheck{
		Name:    fmt.Sprintf("scan path %s", root),
		Status:  "ok",
		Message: fmt.Sprintf("%d document(s) parse cleanly", total),
	}
}

func outputDoctorReport(cmd *cobra.Command, report *DoctorReport) error {
	switch doctorFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		return encoder.Encode(report)
	case "text":
		for _, check := range report.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", check.Status, check.Name, check.Message)
			if check.Suggestion != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "       hint: %s\n", check.Suggestion)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", doctorFormat)
	}
}
