package admin

import (
	"fmt"
	"os"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/regulation"
	"github.com/spf13/cobra"
)

const defaultRegulationPage = "simulated_internet/gov_page.html"

func RegulationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regulation",
		Short: "Manage the simulated regulator page",
	}

	cmd.AddCommand(RegulationPublishCmd())

	return cmd
}

func RegulationPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a regulation update to the simulated regulator page",
		Long: `Write a regulator page in the structure the compliance scan reads.
The page goes to --path, or HRNEXUS_REGULATION_SOURCE when that names a file.`,
		RunE: runRegulationPublish,
	}

	cmd.Flags().String("title", "", "Regulation title")
	cmd.Flags().String("body", "", "Regulation text; blank lines separate paragraphs")
	cmd.Flags().String("body-file", "", "Read the regulation text from a file")
	cmd.Flags().String("effective", "", "Effective date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().String("path", "", "Output file")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runRegulationPublish(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	body, _ := cmd.Flags().GetString("body")
	bodyFile, _ := cmd.Flags().GetString("body-file")
	effective, _ := cmd.Flags().GetString("effective")
	path, _ := cmd.Flags().GetString("path")

	if bodyFile != "" {
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		body = string(data)
	}

	now := time.Now()
	effectiveAt := now
	if effective != "" {
		t, err := time.Parse("2006-01-02", effective)
		if err != nil {
			return fmt.Errorf("invalid --effective %q: %w", effective, err)
		}
		effectiveAt = t
	}

	path = regulationPagePath(path)
	if err := regulation.Publish(path, regulation.Notice{
		Title:     title,
		Body:      body,
		Published: now,
		Effective: effectiveAt,
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published %q to %s\n", title, path)
	return nil
}

// regulationPagePath picks the flag, then a file-valued regulation source,
// then the default page.
func regulationPagePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("HRNEXUS_REGULATION_SOURCE"); env != "" && !regulation.IsURL(env) {
		return env
	}
	return defaultRegulationPage
}
