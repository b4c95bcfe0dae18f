package store

import "github.com/kruxfinance/support-chat/internal/domain"

// ActionType names an action for logging.
type ActionType string

const (
	ActionLogin              ActionType = "LOGIN"
	ActionLogout             ActionType = "LOGOUT"
	ActionCreateTicket       ActionType = "CREATE_TICKET"
	ActionAddMessage         ActionType = "ADD_MESSAGE"
	ActionUpdateTicketStatus ActionType = "UPDATE_TICKET_STATUS"
)

// Action is one state mutation fed to Reduce.
type Action interface {
	Type() ActionType
}

// Login sets the current user.
type Login struct {
	User domain.User
}

// Logout clears the current user.
type Logout struct{}

// CreateTicket adds a ticket unless the customer already has an active one.
type CreateTicket struct {
	Ticket domain.Ticket
}

// AddMessage appends a message to its ticket. A non-empty IfStatus rejects the
// append with ErrStatusChanged unless the ticket is in one of those statuses.
type AddMessage struct {
	Message  domain.Message
	IfStatus []domain.TicketStatus
}

// UpdateTicketStatus moves a ticket to Status. A non-nil AgentID replaces the
// assigned agent; nil keeps the current assignment. IfStatus guards the update
// the same way as on AddMessage.
type UpdateTicketStatus struct {
	TicketID string
	Status   domain.TicketStatus
	AgentID  *string
	IfStatus []domain.TicketStatus
}

func (Login) Type() ActionType              { return ActionLogin }
func (Logout) Type() ActionType             { return ActionLogout }
func (CreateTicket) Type() ActionType       { return ActionCreateTicket }
func (AddMessage) Type() ActionType         { return ActionAddMessage }
func (UpdateTicketStatus) Type() ActionType { return ActionUpdateTicketStatus }
