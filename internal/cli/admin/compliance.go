package admin

import (
	"context"
	"fmt"

	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/spf13/cobra"
)

func ComplianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Run the compliance monitor",
	}

	cmd.AddCommand(ComplianceRunCmd())

	return cmd
}

func ComplianceRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the regulation source, analyze its impact and draft a legal notice",
		Long: `Run the full compliance pipeline once: scan the configured regulation page,
compare it with the loaded policy index and draft a notice for legal counsel.
The notice is only dispatched when --dispatch is given.`,
		RunE: runCompliance,
	}

	cmd.Flags().String("recipient", "", "Notice recipient (defaults to LEGAL_RECIPIENT)")
	cmd.Flags().Bool("dispatch", false, "Dispatch the drafted notice")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runCompliance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	recipient, _ := cmd.Flags().GetString("recipient")
	dispatch, _ := cmd.Flags().GetBool("dispatch")

	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.indexSvc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load policy index: %w", err)
	}

	sess := session.New("cli")
	if _, err := a.complianceSvc.Scan(ctx, sess); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if _, err := a.complianceSvc.Analyze(ctx, sess); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if _, err := a.complianceSvc.Draft(ctx, sess, recipient); err != nil {
		return fmt.Errorf("draft failed: %w", err)
	}

	var eventID string
	if dispatch {
		event, err := a.complianceSvc.Dispatch(ctx, sess)
		if err != nil {
			return fmt.Errorf("dispatch failed: %w", err)
		}
		eventID = event.ID
	}

	if outputFormat(cmd) == "json" {
		return printJSON(map[string]any{
			"regulation":   sess.Regulation,
			"analysis":     sess.Analysis,
			"notification": sess.Notification,
			"event_id":     eventID,
		})
	}

	fmt.Printf("Regulation: %s\n", sess.Regulation.Title)
	fmt.Printf("Risk: %s\n\n", sess.Analysis.Risk)
	fmt.Println(sess.Analysis.Markdown)
	fmt.Printf("\nTo: %s\nSubject: %s\n\n%s\n", sess.Notification.Recipient, sess.Notification.Subject, sess.Notification.Body)
	if eventID != "" {
		fmt.Printf("\nDispatched (event %s)\n", eventID)
	}
	return nil
}
