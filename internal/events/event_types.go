package events

import (
	"time"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventUserLoggedIn        EventType = "user_logged_in"
	EventUserLoggedOut       EventType = "user_logged_out"
)

// Event represents a domain event emitted by the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name"`
	Priority     domain.TicketPriority `json:"priority"`
	Category     domain.TicketCategory `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	AgentID   *string             `json:"agent_id,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAgentID *string `json:"old_agent_id,omitempty"`
	NewAgentID string  `json:"new_agent_id"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string               `json:"message_id"`
	Sender      domain.MessageSender `json:"sender"`
	BodyPreview string               `json:"body_preview"`
}

// UserSessionPayload payload for login and logout.
type UserSessionPayload struct {
	UserType domain.UserType `json:"user_type"`
	UserID   string          `json:"user_id"`
}
