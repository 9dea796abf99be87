package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/spf13/cobra"
)

func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the policy index",
	}

	cmd.AddCommand(IndexRebuildCmd())

	return cmd
}

func IndexRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the policy index",
		Long:  "Read every policy document from the configured source, chunk and embed it, and replace the stored index",
		RunE:  runIndexRebuild,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.indexSvc.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}
	return printRebuild(cmd, res)
}

func PolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage policy documents",
	}

	cmd.AddCommand(PolicyUploadCmd())

	return cmd
}

func PolicyUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a policy document and rebuild the index",
		Long: `Store a .txt or .md policy document in the configured source and rebuild the index.
The region is taken from the file name suffix, e.g. leave_policy_India.txt.`,
		Args: cobra.ExactArgs(1),
		RunE: runPolicyUpload,
	}

	cmd.Flags().String("name", "", "Stored document name (defaults to the file's base name)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runPolicyUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(args[0])
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.indexSvc.UploadPolicy(ctx, name, content)
	if err != nil {
		return fmt.Errorf("failed to upload policy: %w", err)
	}
	return printRebuild(cmd, res)
}

func printRebuild(cmd *cobra.Command, res *service.RebuildResult) error {
	if outputFormat(cmd) == "json" {
		return printJSON(res)
	}

	fmt.Printf("Index %s: %d documents, %d chunks\n", res.Status, res.Documents, res.Chunks)
	if res.Reason != "" {
		fmt.Printf("  %s\n", res.Reason)
	}
	regions := make([]string, 0, len(res.Regions))
	for r := range res.Regions {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	for _, r := range regions {
		fmt.Printf("  %-10s %d chunks\n", r, res.Regions[r])
	}
	return nil
}
