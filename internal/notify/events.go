// Package notify carries outbound notifications from services to whatever
// delivers them. Delivery is best effort.
package notify

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketReplied       EventType = "ticket_replied"
	EventComplianceNotice    EventType = "compliance_notice"
)

// Message is the content to deliver.
type Message struct {
	TicketID  int64  `json:"ticket_id,omitempty"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Event is a published notification.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Message   Message   `json:"message"`
}

// NewEvent stamps msg with an id and the current time.
func NewEvent(t EventType, msg Message) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Message:   msg,
	}
}
