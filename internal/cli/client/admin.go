package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RebuildResult reports a policy index rebuild.
type RebuildResult struct {
	Status    string         `json:"status"`
	Documents int            `json:"documents"`
	Chunks    int            `json:"chunks"`
	Regions   map[string]int `json:"regions,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Regulation is a scanned external regulation.
type Regulation struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Location   string `json:"location"`
	DetectedAt string `json:"detected_at"`
}

// Analysis is the regulation-to-policy gap analysis.
type Analysis struct {
	Keywords string   `json:"keywords"`
	Markdown string   `json:"markdown"`
	Risk     string   `json:"risk"`
	Sources  []string `json:"sources,omitempty"`
}

// Notification is a drafted legal notice.
type Notification struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// AdminCmd groups the administrator commands.
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the policy index and compliance monitor",
		Long:  "Rebuild the policy index, upload policy documents and run the compliance pipeline. Requires the ADMIN role.",
	}

	cmd.AddCommand(adminRebuildCmd())
	cmd.AddCommand(adminUploadCmd())
	cmd.AddCommand(complianceCmd())

	return cmd
}

func adminRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the policy index",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			resp, err := api.Post("/admin/index/rebuild", nil)
			if err != nil {
				return err
			}
			return printRebuild(cmd, resp.Data)
		},
	}
}

func adminUploadCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a policy document and rebuild the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			resp, err := api.Post("/admin/policies", map[string]string{"name": name, "content": string(content)})
			if err != nil {
				return err
			}
			return printRebuild(cmd, resp.Data)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stored document name (defaults to the file's base name)")

	return cmd
}

func printRebuild(cmd *cobra.Command, data json.RawMessage) error {
	var res RebuildResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("failed to parse rebuild result: %w", err)
	}
	if jsonOutput(cmd) {
		return printJSON(res)
	}
	fmt.Printf("Index %s: %d documents, %d chunks\n", res.Status, res.Documents, res.Chunks)
	if res.Reason != "" {
		fmt.Printf("  %s\n", res.Reason)
	}
	return nil
}

func complianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Step through the compliance pipeline",
		Long: `Each step works on the result of the previous one, kept in your session:
scan, then analyze, then draft, then dispatch.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Scan the regulation source",
		RunE: func(cmd *cobra.Command, args []string) error {
			var reg Regulation
			if err := complianceStep(cmd, "scan", nil, &reg); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(reg)
			}
			fmt.Printf("%s\n(%s, detected %s)\n\n%s\n", reg.Title, reg.Location, reg.DetectedAt, reg.Body)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "analyze",
		Short: "Compare the scanned regulation with internal policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			var analysis Analysis
			if err := complianceStep(cmd, "analyze", nil, &analysis); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(analysis)
			}
			fmt.Printf("Risk: %s\nKeywords: %s\n\n%s\n", analysis.Risk, analysis.Keywords, analysis.Markdown)
			return nil
		},
	})

	var recipient string
	draft := &cobra.Command{
		Use:   "draft",
		Short: "Draft the notice to legal counsel",
		RunE: func(cmd *cobra.Command, args []string) error {
			var n Notification
			if err := complianceStep(cmd, "draft", map[string]string{"recipient": recipient}, &n); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(n)
			}
			fmt.Printf("To: %s\nSubject: %s\n\n%s\n", n.Recipient, n.Subject, n.Body)
			return nil
		},
	}
	draft.Flags().StringVar(&recipient, "recipient", "", "Recipient (defaults to the server's legal address)")
	cmd.AddCommand(draft)

	cmd.AddCommand(&cobra.Command{
		Use:   "dispatch",
		Short: "Dispatch the drafted notice",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sent struct {
				EventID   string `json:"event_id"`
				Recipient string `json:"recipient"`
				Subject   string `json:"subject"`
				SentAt    string `json:"sent_at"`
			}
			if err := complianceStep(cmd, "dispatch", nil, &sent); err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(sent)
			}
			fmt.Printf("Notice to %s dispatched at %s (event %s)\n", sent.Recipient, sent.SentAt, sent.EventID)
			return nil
		},
	})

	return cmd
}

func complianceStep(cmd *cobra.Command, step string, body any, out any) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	resp, err := api.Post("/admin/compliance/"+step, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", step, err)
	}
	return nil
}
