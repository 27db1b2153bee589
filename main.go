package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "newsdash",
	Short: "RSS news dashboard",
	Long: `newsdash polls RSS/Atom feeds, extracts and summarizes the linked
articles and serves them through a small HTTP dashboard.

Examples:
  newsdash serve                      # run the API, scheduler and triggers
  newsdash fetch                      # run one fetch pass and exit
  newsdash sources list               # show configured feeds
  newsdash chat "add rss feed: https://go.dev/blog/feed.atom named Go Blog"
  newsdash tui --server http://localhost:3000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./newsdash.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor("Error:"), err)
		os.Exit(1)
	}
}
