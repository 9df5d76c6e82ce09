package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deusflow/khobor/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagSources string
	flagDebug   bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "khobor",
	Short: "Bengali news aggregator",
	Long: `khobor collects news from Bengali outlets (RSS feeds and homepages),
merges them with what it saw before, and groups reports of the same story.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(flagDebug || os.Getenv("DEBUG") == "true")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSources, "sources", "", "path to sources YAML (default: SOURCES_CONFIG_PATH or built-in list)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("khobor %s (commit: %s)\n", version, commit)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
