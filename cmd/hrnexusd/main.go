package main

import (
	"fmt"
	"os"

	"github.com/GaurishMcK/HR-Nexus/internal/cli"
	"github.com/GaurishMcK/HR-Nexus/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hrnexusd",
		Short: "HR Nexus daemon and admin CLI",
		Long:  "HR Nexus daemon for running the API server, seeding users and maintaining the policy index",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.UserCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.IndexCmd())
	rootCmd.AddCommand(admin.PolicyCmd())
	rootCmd.AddCommand(admin.ComplianceCmd())
	rootCmd.AddCommand(admin.RegulationCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
