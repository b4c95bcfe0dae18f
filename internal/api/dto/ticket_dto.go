package dto

import (
	"time"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// SendMessageRequest payload. TicketID is only honoured on the customer route.
type SendMessageRequest struct {
	TicketID string `json:"ticket_id" validate:"omitempty,max=64"`
	Text     string `json:"text" validate:"required,max=4000"`
}

// TicketSummary response used by the agent queue.
type TicketSummary struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        domain.TicketCategory `json:"category"`
	AssignedAgentID *string               `json:"assigned_agent_id"`
	LastMessage     *MessageResponse      `json:"last_message"`
	MessageCount    int                   `json:"message_count"`
	CreatedAt       time.Time             `json:"created_at"`
	LastMessageAt   time.Time             `json:"last_message_at"`
}

// TicketResponse provides full ticket info including the thread.
type TicketResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        domain.TicketCategory `json:"category"`
	AssignedAgentID *string               `json:"assigned_agent_id"`
	CreatedAt       time.Time             `json:"created_at"`
	LastMessageAt   time.Time             `json:"last_message_at"`
	Messages        []MessageResponse     `json:"messages"`
}

// MessageResponse represents one thread message.
type MessageResponse struct {
	ID        string               `json:"id"`
	Sender    domain.MessageSender `json:"sender"`
	Text      string               `json:"text"`
	Timestamp time.Time            `json:"timestamp"`
}

// TicketDetailResponse is what an agent sees when opening a ticket.
type TicketDetailResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Customer *CustomerResponse `json:"customer"`
}

// MessageSentResponse returns the stored message with the ticket it landed on.
type MessageSentResponse struct {
	Message MessageResponse `json:"message"`
	Ticket  TicketResponse  `json:"ticket"`
}
