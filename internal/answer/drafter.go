package answer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"go.uber.org/zap"
)

// NoPolicyText stands in for policy context when retrieval finds nothing.
const NoPolicyText = "No specific policy found."

var moneyKeywords = []string{"overtime", "salary", "pay", "bonus", "shortage", "deduction"}

var multiplierPattern = regexp.MustCompile(`(\d+(\.\d+)?)x`)

const drafterSystemPrompt = "You are an HR Specialist drafting replies to employee tickets."

const drafterPromptTemplate = `You are an HR Specialist drafting a reply to a ticket.

USER QUESTION: %q
USER REGION: %s

RELEVANT POLICY:
%s
%s
TASK:
Draft a professional, empathetic response.
- If policy details exist, quote them.
- If SYSTEM DATA is provided above, include those numbers explicitly to resolve the query.
- If no policy is found, ask for more details.

Keep it concise (under 4 sentences).`

// GroundingRetriever finds policy excerpts for a question.
type GroundingRetriever interface {
	Retrieve(ctx context.Context, question string, region domain.Region) ([]retrieval.ScoredChunk, error)
}

// PayrollReader looks up an employee's payroll record.
type PayrollReader interface {
	GetByEmployee(ctx context.Context, employeeID string) (*domain.PayrollRecord, error)
}

// PayrollSummary is the overtime calculation attached to a draft.
type PayrollSummary struct {
	Currency            string  `json:"currency"`
	BaseHourlyRate      float64 `json:"base_hourly_rate"`
	PendingHours        float64 `json:"pending_overtime_hours"`
	CurrentMultiplier   float64 `json:"current_multiplier"`
	RequestedMultiplier float64 `json:"requested_multiplier"`
	Shortfall           float64 `json:"shortfall"`
}

// Draft is a suggested resolution for a ticket. HR edits and sends it.
type Draft struct {
	TicketID int64           `json:"ticket_id"`
	Text     string          `json:"text"`
	Sources  []string        `json:"sources,omitempty"`
	Payroll  *PayrollSummary `json:"payroll,omitempty"`
}

// Drafter proposes ticket resolutions from policy context and, for money
// questions, the employee's payroll record.
type Drafter struct {
	retriever GroundingRetriever
	llm       Completer
	payroll   PayrollReader
	logger    *zap.Logger
}

func NewDrafter(retriever GroundingRetriever, llm Completer, payroll PayrollReader, logger *zap.Logger) *Drafter {
	return &Drafter{retriever: retriever, llm: llm, payroll: payroll, logger: logging.OrNop(logger)}
}

// DraftResolution drafts a reply to ticket on behalf of HR. employee supplies
// the region used for policy lookup.
func (d *Drafter) DraftResolution(ctx context.Context, ticket *domain.Ticket, employee *domain.User) (*Draft, error) {
	region := domain.RegionGeneral
	if employee != nil {
		region = domain.NormalizeRegion(string(employee.Region))
	}

	draft := &Draft{TicketID: ticket.ID}

	policy := NoPolicyText
	var grounded string
	hits, err := d.retriever.Retrieve(ctx, ticket.Question, region)
	switch {
	case err == nil:
		grounded = JoinChunks(hits)
		policy = grounded
		draft.Sources = retrieval.Sources(hits)
	case errors.Is(err, retrieval.ErrNoGrounding):
	default:
		return nil, domain.GenerationError("retrieve draft context", err)
	}

	var systemData string
	if MentionsMoney(ticket.Question) {
		draft.Payroll = d.payrollSummary(ctx, ticket.EmployeeID, grounded, ticket.Question)
		if draft.Payroll != nil {
			systemData = "\n" + FormatPayroll(draft.Payroll) + "\n"
		}
	}

	prompt := fmt.Sprintf(drafterPromptTemplate, ticket.Question, region, policy, systemData)
	text, err := d.llm.Complete(ctx, drafterSystemPrompt, prompt)
	if err != nil {
		return nil, domain.GenerationError("draft resolution", err)
	}
	draft.Text = strings.TrimSpace(text)
	return draft, nil
}

// payrollSummary prices the employee's pending overtime. The requested rate
// comes from the policy text, then the question, then the current rate.
func (d *Drafter) payrollSummary(ctx context.Context, employeeID, policy, question string) *PayrollSummary {
	if d.payroll == nil {
		return nil
	}
	rec, err := d.payroll.GetByEmployee(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, domain.ErrPayrollNotFound) {
			d.logger.Warn("payroll lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return nil
	}

	requested := rec.OvertimeMultiplier
	for _, text := range []string{policy, question} {
		if m, ok := ParseMultiplier(text); ok {
			requested = m
			break
		}
	}

	return &PayrollSummary{
		Currency:            rec.Currency,
		BaseHourlyRate:      rec.BaseHourlyRate,
		PendingHours:        rec.PendingOvertimeHours,
		CurrentMultiplier:   rec.OvertimeMultiplier,
		RequestedMultiplier: requested,
		Shortfall:           rec.OvertimeShortfall(requested),
	}
}

// MentionsMoney reports whether a question is about pay.
func MentionsMoney(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range moneyKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// ParseMultiplier extracts the first "<n>x" rate from text, such as "1.75x".
func ParseMultiplier(text string) (float64, bool) {
	m := multiplierPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// FormatPayroll renders the calculation as system data for the draft prompt.
func FormatPayroll(p *PayrollSummary) string {
	return fmt.Sprintf(
		"[SYSTEM DATA]: Base Hourly Rate: %s %.2f. Pending OT Hours: %g. Current Multiplier: %gx. Requested Multiplier: %gx. Calculated Shortfall: %s %.2f.",
		p.Currency, p.BaseHourlyRate, p.PendingHours, p.CurrentMultiplier, p.RequestedMultiplier, p.Currency, p.Shortfall,
	)
}
