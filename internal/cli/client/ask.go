package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Routing is the triage outcome for an inquiry.
type Routing struct {
	Intent   string  `json:"intent"`
	Type     string  `json:"type"`
	Tone     int     `json:"tone"`
	Score    float64 `json:"score"`
	Rule     string  `json:"rule"`
	Escalate bool    `json:"escalate"`
}

// Answer is the helpdesk's reply to an inquiry.
type Answer struct {
	Reply     string   `json:"reply"`
	Escalated bool     `json:"escalated"`
	Grounded  bool     `json:"grounded"`
	Routing   *Routing `json:"routing,omitempty"`
	Ticket    *Ticket  `json:"ticket,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// ChatMessage is one line of the caller's conversation.
type ChatMessage struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// AskCmd sends an inquiry to the helpdesk.
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the HR helpdesk a question",
		Long: `Ask a policy question. Routine questions are answered from the policy
documents for your region; sensitive ones are escalated to an HR ticket.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			answer, err := runAsk(api, strings.Join(args, " "))
			if answer != nil {
				if jsonOutput(cmd) {
					if perr := printJSON(answer); perr != nil {
						return perr
					}
				} else {
					printAnswer(answer)
				}
			}
			return err
		},
	}

	return cmd
}

// runAsk posts an inquiry. A failed inquiry still yields the reply the server
// sent with the error.
func runAsk(api *APIClient, question string) (*Answer, error) {
	resp, err := api.Post("/inquiries", map[string]string{"text": question})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && len(apiErr.Data) > 0 {
			var answer Answer
			if jerr := json.Unmarshal(apiErr.Data, &answer); jerr == nil && answer.Reply != "" {
				return &answer, err
			}
		}
		return nil, err
	}

	var answer Answer
	if err := json.Unmarshal(resp.Data, &answer); err != nil {
		return nil, fmt.Errorf("failed to parse answer: %w", err)
	}
	return &answer, nil
}

func printAnswer(a *Answer) {
	fmt.Println(a.Reply)
	if len(a.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(a.Sources, ", "))
	}
	if a.Ticket != nil {
		fmt.Printf("\nTicket #%d assigned to %s\n", a.Ticket.ID, a.Ticket.AssignedTo)
	}
	if a.Routing != nil {
		fmt.Printf("\n[%s / %s, tone %d, score %.1f, %s]\n", a.Routing.Intent, a.Routing.Type, a.Routing.Tone, a.Routing.Score, a.Routing.Rule)
	}
}

// HistoryCmd lists the caller's conversation.
func HistoryCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your conversation with the helpdesk",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			resp, err := api.Get("/history?" + q.Encode())
			if err != nil {
				return err
			}

			var page struct {
				Items   []ChatMessage `json:"items"`
				Cursor  string        `json:"cursor"`
				HasMore bool          `json:"has_more"`
			}
			if err := json.Unmarshal(resp.Data, &page); err != nil {
				return fmt.Errorf("failed to parse history: %w", err)
			}

			if jsonOutput(cmd) {
				return printJSON(page)
			}
			if len(page.Items) == 0 {
				fmt.Println("No messages yet")
				return nil
			}
			for _, m := range page.Items {
				fmt.Printf("[%s] %s: %s\n", m.Timestamp, m.Role, m.Content)
			}
			if page.HasMore && page.Cursor != "" {
				fmt.Printf("\nMore messages available. Use --cursor %s\n", page.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of messages")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}
