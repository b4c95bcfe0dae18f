package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kruxfinance/support-chat/internal/domain"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrInvalidTicket     = errors.New("invalid ticket")
	ErrUnknownAction     = errors.New("unknown action")
	ErrStatusChanged     = errors.New("ticket status changed")
)

// Reduce applies action to state and returns the next state. The input state is
// never modified: changed tickets get fresh message slices, untouched tickets are
// shared. changed is false when the action was a no-op.
func Reduce(state State, action Action, now time.Time) (next State, changed bool, err error) {
	switch a := action.(type) {
	case Login:
		user := cloneUser(a.User)
		next = state
		next.CurrentUser = &user
		return next, true, nil

	case Logout:
		next = state
		next.CurrentUser = nil
		return next, state.CurrentUser != nil, nil

	case CreateTicket:
		if a.Ticket.ID == "" || a.Ticket.CustomerID == "" {
			return state, false, ErrInvalidTicket
		}
		if state.activeTicketIndex(a.Ticket.CustomerID) >= 0 {
			return state, false, nil
		}
		if state.ticketIndex(a.Ticket.ID) >= 0 {
			return state, false, fmt.Errorf("%w: duplicate id %s", ErrInvalidTicket, a.Ticket.ID)
		}
		next = state
		next.Tickets = make([]domain.Ticket, 0, len(state.Tickets)+1)
		next.Tickets = append(next.Tickets, state.Tickets...)
		next.Tickets = append(next.Tickets, a.Ticket.Clone())
		return next, true, nil

	case AddMessage:
		msg := a.Message
		if msg.ID == "" || strings.TrimSpace(msg.Text) == "" {
			return state, false, ErrInvalidMessage
		}
		switch msg.Sender {
		case domain.SenderCustomer, domain.SenderAgent, domain.SenderBot:
		default:
			return state, false, fmt.Errorf("%w: unknown sender %q", ErrInvalidMessage, msg.Sender)
		}
		idx := state.ticketIndex(msg.TicketID)
		if idx < 0 {
			return state, false, ErrTicketNotFound
		}
		if err := checkStatus(state.Tickets[idx], a.IfStatus); err != nil {
			return state, false, err
		}
		next = replaceTicket(state, idx, func(t *domain.Ticket) {
			msgs := make([]domain.Message, len(t.Messages), len(t.Messages)+1)
			copy(msgs, t.Messages)
			t.Messages = append(msgs, msg)
			t.LastMessageAt = now
		})
		return next, true, nil

	case UpdateTicketStatus:
		idx := state.ticketIndex(a.TicketID)
		if idx < 0 {
			return state, false, ErrTicketNotFound
		}
		current := state.Tickets[idx]
		if err := checkStatus(current, a.IfStatus); err != nil {
			return state, false, err
		}
		if current.Status == a.Status {
			return state, false, nil
		}
		if !domain.CanTransition(current.Status, a.Status) {
			return state, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, a.Status)
		}
		next = replaceTicket(state, idx, func(t *domain.Ticket) {
			t.Status = a.Status
			if a.AgentID != nil {
				id := *a.AgentID
				t.AssignedAgentID = &id
			}
		})
		return next, true, nil
	}
	return state, false, fmt.Errorf("%w: %T", ErrUnknownAction, action)
}

func checkStatus(t domain.Ticket, allowed []domain.TicketStatus) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, st := range allowed {
		if t.Status == st {
			return nil
		}
	}
	return fmt.Errorf("%w: ticket %s is %s", ErrStatusChanged, t.ID, t.Status)
}

func replaceTicket(state State, idx int, mutate func(t *domain.Ticket)) State {
	next := state
	next.Tickets = make([]domain.Ticket, len(state.Tickets))
	copy(next.Tickets, state.Tickets)
	ticket := next.Tickets[idx]
	if ticket.AssignedAgentID != nil {
		id := *ticket.AssignedAgentID
		ticket.AssignedAgentID = &id
	}
	mutate(&ticket)
	next.Tickets[idx] = ticket
	return next
}
