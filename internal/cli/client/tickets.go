package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Ticket is an escalated inquiry.
type Ticket struct {
	ID         int64   `json:"id"`
	EmployeeID string  `json:"emp_id"`
	Question   string  `json:"question"`
	Score      float64 `json:"score"`
	AssignedTo string  `json:"assigned_to"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// TicketStats are the dashboard counters.
type TicketStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	HighRisk int `json:"high_risk"`
	Resolved int `json:"resolved"`
}

// Draft is a suggested ticket resolution.
type Draft struct {
	TicketID int64    `json:"ticket_id"`
	Text     string   `json:"text"`
	Sources  []string `json:"sources,omitempty"`
	Payroll  *struct {
		Currency  string  `json:"currency"`
		Shortfall float64 `json:"shortfall"`
	} `json:"payroll,omitempty"`
}

// TicketsCmd groups the HR ticket desk commands.
func TicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Work the HR ticket queue",
		Long:    "List, inspect, draft and answer escalated tickets. Requires the HR or ADMIN role.",
	}

	cmd.AddCommand(ticketsListCmd())
	cmd.AddCommand(ticketsStatsCmd())
	cmd.AddCommand(ticketsShowCmd())
	cmd.AddCommand(ticketsStatusCmd())
	cmd.AddCommand(ticketsDraftCmd())
	cmd.AddCommand(ticketsReplyCmd())

	return cmd
}

func ticketsListCmd() *cobra.Command {
	var (
		status string
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			if status != "" {
				q.Set("status", status)
			}
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			resp, err := api.Get("/tickets?" + q.Encode())
			if err != nil {
				return err
			}

			var page struct {
				Items   []Ticket `json:"items"`
				Cursor  string   `json:"cursor"`
				HasMore bool     `json:"has_more"`
			}
			if err := json.Unmarshal(resp.Data, &page); err != nil {
				return fmt.Errorf("failed to parse tickets: %w", err)
			}

			if jsonOutput(cmd) {
				return printJSON(page)
			}
			if len(page.Items) == 0 {
				fmt.Println("No tickets found")
				return nil
			}
			for _, t := range page.Items {
				fmt.Printf("#%-5d %-12s %-8s %-9s %.1f  %s\n", t.ID, t.Status, t.EmployeeID, t.AssignedTo, t.Score, truncate(t.Question, 60))
			}
			if page.HasMore && page.Cursor != "" {
				fmt.Printf("\nMore results available. Use --cursor %s\n", page.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (Open, In Progress, Resolved)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func ticketsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ticket counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			resp, err := api.Get("/tickets/stats")
			if err != nil {
				return err
			}
			var stats TicketStats
			if err := json.Unmarshal(resp.Data, &stats); err != nil {
				return fmt.Errorf("failed to parse stats: %w", err)
			}
			if jsonOutput(cmd) {
				return printJSON(stats)
			}
			fmt.Printf("Total: %d  Pending: %d  High risk: %d  Resolved: %d\n", stats.Total, stats.Pending, stats.HighRisk, stats.Resolved)
			return nil
		},
	}
}

func ticketsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			ticket, err := fetchTicket(api, args[0])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(ticket)
			}
			printTicket(ticket)
			return nil
		},
	}
}

func ticketsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a ticket's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			resp, err := api.Patch(fmt.Sprintf("/tickets/%d/status", id), map[string]string{"status": args[1]})
			if err != nil {
				return err
			}
			var ticket Ticket
			if err := json.Unmarshal(resp.Data, &ticket); err != nil {
				return fmt.Errorf("failed to parse ticket: %w", err)
			}
			fmt.Printf("Ticket #%d is now %s\n", ticket.ID, ticket.Status)
			return nil
		},
	}
}

func ticketsDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <id>",
		Short: "Draft a resolution for a ticket",
		Long:  "Draft a reply from policy and payroll data. The draft is kept in your session for 'tickets reply --use-draft'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			draft, err := requestDraft(api, id)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(draft)
			}
			fmt.Println(draft.Text)
			if draft.Payroll != nil {
				fmt.Printf("\nShortfall: %s %.2f\n", draft.Payroll.Currency, draft.Payroll.Shortfall)
			}
			if len(draft.Sources) > 0 {
				fmt.Printf("Sources: %s\n", strings.Join(draft.Sources, ", "))
			}
			return nil
		},
	}
}

func ticketsReplyCmd() *cobra.Command {
	var (
		text     string
		status   string
		useDraft bool
	)

	cmd := &cobra.Command{
		Use:   "reply <id>",
		Short: "Send a reply to the ticket's employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if useDraft && text == "" {
				draft, err := requestDraft(api, id)
				if err != nil {
					return err
				}
				text = draft.Text
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("reply text is required (use --text or --use-draft)")
			}

			body := map[string]string{"text": text}
			if status != "" {
				body["status"] = status
			}
			resp, err := api.Post(fmt.Sprintf("/tickets/%d/reply", id), body)
			if err != nil {
				return err
			}
			var ticket Ticket
			if err := json.Unmarshal(resp.Data, &ticket); err != nil {
				return fmt.Errorf("failed to parse ticket: %w", err)
			}
			fmt.Printf("Reply sent on ticket #%d (%s)\n", ticket.ID, ticket.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Reply text")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Also change the status, e.g. Resolved")
	cmd.Flags().BoolVar(&useDraft, "use-draft", false, "Send a freshly drafted resolution when --text is empty")

	return cmd
}

func fetchTicket(api *APIClient, ref string) (*Ticket, error) {
	id, err := parseTicketID(ref)
	if err != nil {
		return nil, err
	}
	resp, err := api.Get(fmt.Sprintf("/tickets/%d", id))
	if err != nil {
		return nil, err
	}
	var ticket Ticket
	if err := json.Unmarshal(resp.Data, &ticket); err != nil {
		return nil, fmt.Errorf("failed to parse ticket: %w", err)
	}
	return &ticket, nil
}

func requestDraft(api *APIClient, id int64) (*Draft, error) {
	resp, err := api.Post(fmt.Sprintf("/tickets/%d/draft", id), nil)
	if err != nil {
		return nil, err
	}
	var draft Draft
	if err := json.Unmarshal(resp.Data, &draft); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &draft, nil
}

func parseTicketID(ref string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ticket id %q", ref)
	}
	return id, nil
}

func printTicket(t *Ticket) {
	fmt.Printf("Ticket #%d\n", t.ID)
	fmt.Printf("Employee: %s\n", t.EmployeeID)
	fmt.Printf("Assigned to: %s\n", t.AssignedTo)
	fmt.Printf("Status: %s\n", t.Status)
	fmt.Printf("Score: %.1f\n", t.Score)
	fmt.Printf("Created: %s\n", t.CreatedAt)
	fmt.Printf("Updated: %s\n", t.UpdatedAt)
	fmt.Println()
	fmt.Println(t.Question)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
