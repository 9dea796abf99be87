package main

import (
	"fmt"
	"os"

	"github.com/GaurishMcK/HR-Nexus/internal/cli"
	"github.com/GaurishMcK/HR-Nexus/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrnexus",
		Short: "HR Nexus CLI - the HR helpdesk from your terminal",
		Long: `HR Nexus CLI lets employees ask policy questions and HR staff work the ticket queue.

Environment variables:
  HRNEXUS_USER_ID   User id to act as (overrides the stored login)
  HRNEXUS_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("user", "", "User id to act as (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.LoginCmd())
	rootCmd.AddCommand(client.LogoutCmd())
	rootCmd.AddCommand(client.WhoamiCmd())
	rootCmd.AddCommand(client.LanguageCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.HistoryCmd())
	rootCmd.AddCommand(client.TicketsCmd())
	rootCmd.AddCommand(client.AdminCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
