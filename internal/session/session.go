// Package session keeps per-caller working state between requests: the
// ticket an HR user has open, its draft, and the compliance pipeline results.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the state one caller accumulates across requests.
type Session struct {
	ID               string                     `json:"id"`
	UserID           string                     `json:"user_id"`
	SelectedTicketID int64                      `json:"selected_ticket_id,omitempty"`
	TicketDraft      *answer.Draft              `json:"ticket_draft,omitempty"`
	Regulation       *domain.RegulationSnapshot `json:"regulation,omitempty"`
	Analysis         *domain.ImpactAnalysis     `json:"analysis,omitempty"`
	Notification     *domain.NotificationDraft  `json:"notification,omitempty"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// New starts an empty session for userID.
func New(userID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
}

// SetRegulation stores a freshly scanned regulation and drops results derived
// from the previous one.
func (s *Session) SetRegulation(r *domain.RegulationSnapshot) {
	s.Regulation = r
	s.Analysis = nil
	s.Notification = nil
}

// SetAnalysis stores an analysis and drops the draft derived from the previous one.
func (s *Session) SetAnalysis(a *domain.ImpactAnalysis) {
	s.Analysis = a
	s.Notification = nil
}

// SelectTicket records the ticket being worked on. A different ticket drops
// the stored draft.
func (s *Session) SelectTicket(id int64) {
	if s.SelectedTicketID != id {
		s.TicketDraft = nil
	}
	s.SelectedTicketID = id
}

// Store persists sessions with a sliding TTL.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
