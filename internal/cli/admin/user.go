package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/repository"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  "Create and list employees, HR handlers and administrators",
	}

	cmd.AddCommand(UserCreateCmd())
	cmd.AddCommand(UserListCmd())

	return cmd
}

func UserCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a new user",
		Long:  "Create a user with a role (EMP, HR or ADMIN), a region and a preferred reply language",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserCreate,
	}

	cmd.Flags().StringP("name", "n", "", "Display name (required)")
	cmd.Flags().StringP("role", "r", string(domain.RoleEmployee), "Role: EMP, HR or ADMIN")
	cmd.Flags().String("region", string(domain.RegionGeneral), "Policy region")
	cmd.Flags().String("language", domain.DefaultLanguage, "Preferred reply language")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	region, _ := cmd.Flags().GetString("region")
	language, _ := cmd.Flags().GetString("language")

	b, err := openBase(ctx, false)
	if err != nil {
		return err
	}
	defer b.Close()

	userSvc := service.NewUserService(repository.NewUserRepository(b.pool))
	user, err := userSvc.Create(ctx, service.CreateUserInput{
		ID:       args[0],
		Name:     name,
		Role:     role,
		Region:   region,
		Language: language,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if outputFormat(cmd) == "json" {
		return printJSON(userJSON(user))
	}
	fmt.Printf("User created: %s (%s, %s, %s)\n", user.ID, user.Name, user.Role, user.Region)
	return nil
}

func UserListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE:  runUserList,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runUserList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	b, err := openBase(ctx, false)
	if err != nil {
		return err
	}
	defer b.Close()

	users, err := service.NewUserService(repository.NewUserRepository(b.pool)).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if outputFormat(cmd) == "json" {
		items := make([]map[string]any, len(users))
		for i, u := range users {
			items[i] = userJSON(u)
		}
		return printJSON(map[string]any{"items": items})
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}
	fmt.Println("Users:")
	for _, u := range users {
		fmt.Printf("  %-10s %-20s %-6s %-8s %s\n", u.ID, u.Name, u.Role, u.Region, u.Language)
	}
	return nil
}

func userJSON(u *domain.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"role":     u.Role,
		"region":   u.Region,
		"language": u.Language,
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
