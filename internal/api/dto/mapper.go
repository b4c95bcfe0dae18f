package dto

import "github.com/kruxfinance/support-chat/internal/domain"

// NewMessageResponse maps a domain message.
func NewMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{ID: m.ID, Sender: m.Sender, Text: m.Text, Timestamp: m.Timestamp}
}

// NewTicketResponse maps a ticket with its messages.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	msgs := make([]MessageResponse, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, NewMessageResponse(m))
	}
	return TicketResponse{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		CustomerName:    t.CustomerName,
		Status:          t.Status,
		Priority:        t.Priority,
		Category:        t.Category,
		AssignedAgentID: t.AssignedAgentID,
		CreatedAt:       t.CreatedAt,
		LastMessageAt:   t.LastMessageAt,
		Messages:        msgs,
	}
}

// NewTicketSummary maps a ticket for list views.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	out := TicketSummary{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		CustomerName:    t.CustomerName,
		Status:          t.Status,
		Priority:        t.Priority,
		Category:        t.Category,
		AssignedAgentID: t.AssignedAgentID,
		MessageCount:    len(t.Messages),
		CreatedAt:       t.CreatedAt,
		LastMessageAt:   t.LastMessageAt,
	}
	if last, ok := t.LastMessage(); ok {
		msg := NewMessageResponse(last)
		out.LastMessage = &msg
	}
	return out
}

// NewUserResponse maps either persona.
func NewUserResponse(u domain.User) UserResponse {
	out := UserResponse{ID: u.ID(), Type: u.Type, Name: u.Name()}
	switch {
	case u.Customer != nil:
		out.Phone = u.Customer.Phone
		out.LoanHistory = u.Customer.LoanHistory
	case u.Agent != nil:
		out.Username = u.Agent.Username
		out.Role = u.Agent.Role
	}
	return out
}

// NewCustomerResponse maps a roster customer.
func NewCustomerResponse(c domain.Customer) CustomerResponse {
	history := c.LoanHistory
	if history == nil {
		history = []domain.LoanRecord{}
	}
	return CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, LoanHistory: history}
}
