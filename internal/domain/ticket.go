package domain

import (
	"strings"
	"time"
)

// TicketStatus is the lifecycle state of an escalated inquiry.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// HighRiskScore is the score at or above which a ticket counts as high risk
// on the dashboard.
const HighRiskScore = 3.0

// Ticket is the persisted record of one escalated inquiry.
type Ticket struct {
	ID         int64
	EmployeeID string
	Question   string
	Score      float64
	AssignedTo string
	Status     TicketStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketStats summarises a set of tickets for the handler dashboard.
type TicketStats struct {
	Total    int
	Pending  int
	HighRisk int
	Resolved int
}

func isValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	default:
		return false
	}
}

// ParseTicketStatus accepts the canonical status strings, case-insensitively.
func ParseTicketStatus(s string) (TicketStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidTicketStatus
}

// CanTransition reports whether a ticket may move from one status to another.
// Resolved is terminal; re-applying the current status is always allowed.
func CanTransition(from, to TicketStatus) bool {
	if !isValidTicketStatus(from) || !isValidTicketStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	return from != TicketStatusResolved
}

// ValidateTicketStatus returns ErrInvalidTicketStatus for unknown statuses.
func ValidateTicketStatus(s TicketStatus) error {
	if !isValidTicketStatus(s) {
		return ErrInvalidTicketStatus
	}
	return nil
}

// TicketFilter narrows a ticket listing. Results are newest first; BeforeID
// continues a listing after the last id already seen.
type TicketFilter struct {
	AssignedTo string
	Status     TicketStatus
	BeforeID   int64
	Limit      int
}
