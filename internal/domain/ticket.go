package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusEscalated  TicketStatus = "escalated-to-human"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// TicketCategory classifies what the conversation is about.
type TicketCategory string

const (
	CategoryLoanApplication TicketCategory = "Loan Application"
	CategoryDocuments       TicketCategory = "Documents"
	CategoryStatusCheck     TicketCategory = "Status Check"
	CategoryGeneralInquiry  TicketCategory = "General Inquiry"
)

// Ticket is one customer's support conversation and its metadata.
type Ticket struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customerId"`
	CustomerName    string         `json:"customerName"`
	Status          TicketStatus   `json:"status"`
	Priority        TicketPriority `json:"priority"`
	Category        TicketCategory `json:"category"`
	Messages        []Message      `json:"messages"`
	AssignedAgentID *string        `json:"assignedAgentId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	LastMessageAt   time.Time      `json:"lastMessageAt"`
}

// IsActive reports whether the ticket still counts against the one-open-ticket rule.
func (t *Ticket) IsActive() bool {
	return t.Status != TicketStatusResolved
}

// LastMessage returns the most recent message, if any.
func (t *Ticket) LastMessage() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Ticket) Clone() Ticket {
	out := t
	if t.Messages != nil {
		out.Messages = make([]Message, len(t.Messages))
		copy(out.Messages, t.Messages)
	}
	if t.AssignedAgentID != nil {
		id := *t.AssignedAgentID
		out.AssignedAgentID = &id
	}
	return out
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:        {TicketStatusOpen, TicketStatusResolved},
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusEscalated, TicketStatusResolved},
	TicketStatusInProgress: {TicketStatusEscalated, TicketStatusResolved},
	TicketStatusEscalated:  {TicketStatusInProgress, TicketStatusResolved},
	TicketStatusResolved:   {},
}

// CanTransition reports whether a ticket may move from current to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
