package store

import "github.com/kruxfinance/support-chat/internal/domain"

// State is the whole application state, persisted as one JSON document.
type State struct {
	Tickets     []domain.Ticket `json:"tickets"`
	CurrentUser *domain.User    `json:"currentUser"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Tickets: make([]domain.Ticket, len(s.Tickets))}
	for i := range s.Tickets {
		out.Tickets[i] = s.Tickets[i].Clone()
	}
	if s.CurrentUser != nil {
		u := cloneUser(*s.CurrentUser)
		out.CurrentUser = &u
	}
	return out
}

func (s State) ticketIndex(id string) int {
	for i := range s.Tickets {
		if s.Tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) activeTicketIndex(customerID string) int {
	for i := range s.Tickets {
		if s.Tickets[i].CustomerID == customerID && s.Tickets[i].IsActive() {
			return i
		}
	}
	return -1
}

func cloneUser(u domain.User) domain.User {
	out := u
	if u.Customer != nil {
		c := *u.Customer
		c.LoanHistory = append([]domain.LoanRecord(nil), u.Customer.LoanHistory...)
		out.Customer = &c
	}
	if u.Agent != nil {
		a := *u.Agent
		out.Agent = &a
	}
	return out
}
