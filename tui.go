package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"newsdash/config"
	"newsdash/demo/client"
	"newsdash/demo/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard against a running server",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "dashboard server URL")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	api := client.NewClient(serverURL, cfg.Auth)
	program := tea.NewProgram(tui.NewModel(api), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = program.Run()
	return err
}
