package domain

import (
	"fmt"
	"time"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a user's append-only chat log.
type ChatMessage struct {
	ID        int64
	UserID    string
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}

// ValidateChatRole returns ErrInvalidChatRole for unknown roles.
func ValidateChatRole(r ChatRole) error {
	switch r {
	case ChatRoleUser, ChatRoleAssistant:
		return nil
	default:
		return ErrInvalidChatRole
	}
}

// FormatHandlerReply renders a handler's reply as it appears in the
// employee's chat log.
func FormatHandlerReply(ticketID int64, text string) string {
	return fmt.Sprintf("**HR RESPONSE (Ticket #%d):**\n%s", ticketID, text)
}

// FormatEscalationNotice is the reply sent to an employee whose inquiry was
// escalated.
func FormatEscalationNotice(ticketID int64, assignedTo string) string {
	return fmt.Sprintf("ESCALATION NOTICE\nTicket #%d has been created and assigned to %s for immediate review.", ticketID, assignedTo)
}
