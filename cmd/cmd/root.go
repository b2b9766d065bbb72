package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nestorwheelock/osint-search/cmd/handlers"
	"github.com/nestorwheelock/osint-search/internal/config"
	"github.com/nestorwheelock/osint-search/internal/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "osint-search",
	Short: "Meta-search across multiple engines with dedup and ranking",
	Long: `osint-search queries multiple independent search back-ends, merges
their results through URL canonicalization and deduplication, ranks the
merged set, and reports per-adapter reliability statistics.

Adapters: duckduckgo, lynx, curl, google, bing. The terminal-browser
paths (lynx, curl) are markedly more reliable under bot detection and
are preferred by default.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.osint-search.yaml)")

	rootCmd.AddCommand(handlers.NewSearchCmd())
	rootCmd.AddCommand(handlers.NewAdaptersCmd())
	rootCmd.AddCommand(handlers.NewURLCmd())
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		logger.Error("Failed to load configuration", err)
		os.Exit(1)
	}
}
