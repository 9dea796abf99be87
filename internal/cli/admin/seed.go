package admin

import (
	"context"
	"fmt"

	"github.com/GaurishMcK/HR-Nexus/internal/repository"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo users and payroll records",
		Long:  "Create the demo employees, HR handlers, administrator and payroll records. Existing users are kept.",
		RunE:  runSeed,
	}

	cmd.Flags().Bool("migrate", true, "Apply database migrations first")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	runMigrations, _ := cmd.Flags().GetBool("migrate")

	b, err := openBase(ctx, runMigrations)
	if err != nil {
		return err
	}
	defer b.Close()

	res, err := service.Seed(ctx,
		repository.NewUserRepository(b.pool),
		repository.NewPayrollRepository(b.pool),
		b.logger)
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}

	if outputFormat(cmd) == "json" {
		return printJSON(map[string]any{
			"users_created": res.UsersCreated,
			"users_skipped": res.UsersSkipped,
			"payroll":       res.Payroll,
		})
	}
	fmt.Printf("Seeded %d users (%d already present) and %d payroll records\n", res.UsersCreated, res.UsersSkipped, res.Payroll)
	return nil
}
