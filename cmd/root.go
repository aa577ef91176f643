// Package cmd provides the command-line interface for Blockdown with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. BLOCKDOWN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (BLOCKDOWN_SERVER_PORT, etc.)
//	4. Configuration files (.blockdown.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blockdown",
	Short: "Engine and tooling for the SparkType block document format",
	Long: `Blockdown parses, validates, formats, and inspects SparkType block
documents: markdown-like files embedding a recursive tree of typed content
blocks inside fenced regions.

Key Features:
  • Parse block documents into a typed block tree
  • Canonical formatting with stable, content-addressed block ids
  • Structural validation with complete error reports
  • Preview server with live reload for editing surfaces

Quick Start:
  blockdown parse page.md         Print the parsed block tree as JSON
  blockdown fmt --check content/  Verify canonical formatting
  blockdown validate content/     Report structural issues
  blockdown serve                 Start the preview server`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .blockdown.yml, can also use BLOCKDOWN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	bindFlag(rootCmd.PersistentFlags(), "log-level", "log-level")
}

// bindFlag binds a defined flag to its viper key. Binding only fails on a
// programmer error (unknown flag name), so it panics rather than returning.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	flag := flags.Lookup(name)
	if flag == nil {
		panic(fmt.Sprintf("unknown flag %q for key %q", name, key))
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", name, err))
	}
}

// initConfig initializes the configuration system with support for multiple
// config sources, in the same precedence order documented on the package.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("BLOCKDOWN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".blockdown")
	}

	viper.SetEnvPrefix("BLOCKDOWN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config files are fine; defaults apply
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
