package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfinance/support-chat/internal/domain"
)

var t0 = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTicket(id, customerID string) domain.Ticket {
	return domain.Ticket{
		ID:            id,
		CustomerID:    customerID,
		CustomerName:  "Rahul Sharma",
		Status:        domain.TicketStatusNew,
		Priority:      domain.TicketPriorityMedium,
		Category:      domain.CategoryGeneralInquiry,
		Messages:      []domain.Message{},
		CreatedAt:     t0,
		LastMessageAt: t0,
	}
}

func mustReduce(t *testing.T, state State, action Action) State {
	t.Helper()
	next, _, err := Reduce(state, action, t0.Add(time.Minute))
	require.NoError(t, err)
	return next
}

func TestReduceCreateTicketIsIdempotentPerCustomer(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})

	next, changed, err := Reduce(state, CreateTicket{Ticket: newTicket("t2", "cust-1")}, t0)
	require.NoError(t, err)
	assert.False(t, changed)
	require.Len(t, next.Tickets, 1)
	assert.Equal(t, "t1", next.Tickets[0].ID)

	state = mustReduce(t, state, CreateTicket{Ticket: newTicket("t3", "cust-2")})
	assert.Len(t, state.Tickets, 2)
}

func TestReduceCreateTicketAfterResolve(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusResolved})
	state = mustReduce(t, state, CreateTicket{Ticket: newTicket("t2", "cust-1")})

	require.Len(t, state.Tickets, 2)
	active := 0
	for _, tk := range state.Tickets {
		if tk.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestReduceCreateTicketRejectsDuplicateID(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusResolved})

	_, _, err := Reduce(state, CreateTicket{Ticket: newTicket("t1", "cust-1")}, t0)
	assert.ErrorIs(t, err, ErrInvalidTicket)
}

func TestReduceAddMessageIsAppendOnly(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	first := domain.Message{ID: "m1", TicketID: "t1", Sender: domain.SenderBot, Text: "Hello", Timestamp: t0}
	state = mustReduce(t, state, AddMessage{Message: first})
	before := state

	second := domain.Message{ID: "m2", TicketID: "t1", Sender: domain.SenderCustomer, Text: "Status?", Timestamp: t0}
	now := t0.Add(2 * time.Minute)
	next, changed, err := Reduce(state, AddMessage{Message: second}, now)
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, before.Tickets[0].Messages, 1, "previous state must not see the new message")
	assert.Equal(t, first, before.Tickets[0].Messages[0])

	msgs := next.Tickets[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, first, msgs[0])
	assert.Equal(t, second, msgs[1])
	assert.Equal(t, now, next.Tickets[0].LastMessageAt)
}

func TestReduceAddMessageErrors(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})

	cases := map[string]struct {
		msg  domain.Message
		want error
	}{
		"unknown ticket": {domain.Message{ID: "m", TicketID: "nope", Sender: domain.SenderBot, Text: "x"}, ErrTicketNotFound},
		"blank text":     {domain.Message{ID: "m", TicketID: "t1", Sender: domain.SenderBot, Text: "  "}, ErrInvalidMessage},
		"missing id":     {domain.Message{TicketID: "t1", Sender: domain.SenderBot, Text: "x"}, ErrInvalidMessage},
		"bad sender":     {domain.Message{ID: "m", TicketID: "t1", Sender: "system", Text: "x"}, ErrInvalidMessage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, changed, err := Reduce(state, AddMessage{Message: tc.msg}, t0)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, changed)
		})
	}
}

func TestReduceAddMessageAllowedOnResolvedTicket(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusResolved})
	state = mustReduce(t, state, AddMessage{Message: domain.Message{ID: "m1", TicketID: "t1", Sender: domain.SenderAgent, Text: "This conversation has been marked as resolved."}})

	assert.Len(t, state.Tickets[0].Messages, 1)
}

func TestReduceStatusTransitions(t *testing.T) {
	agent := "agent-1"
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})

	_, _, err := Reduce(state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusInProgress}, t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusOpen})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusEscalated})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusInProgress, AgentID: &agent})
	require.NotNil(t, state.Tickets[0].AssignedAgentID)
	assert.Equal(t, "agent-1", *state.Tickets[0].AssignedAgentID)

	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusResolved})
	assert.Equal(t, "agent-1", *state.Tickets[0].AssignedAgentID, "nil agent keeps assignment")

	for _, s := range []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusEscalated} {
		_, _, err := Reduce(state, UpdateTicketStatus{TicketID: "t1", Status: s}, t0)
		assert.ErrorIs(t, err, ErrInvalidTransition, "resolved -> %s", s)
	}
}

func TestReduceSameStatusIsNoop(t *testing.T) {
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	_, changed, err := Reduce(state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusNew}, t0)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestReduceStatusDoesNotAliasAssignment(t *testing.T) {
	agent := "agent-1"
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusOpen})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusInProgress, AgentID: &agent})
	agent = "agent-2"

	assert.Equal(t, "agent-1", *state.Tickets[0].AssignedAgentID)
}

func TestReduceLoginLogout(t *testing.T) {
	user := domain.AgentUser(domain.Agent{ID: "agent-1", Name: "Amit Kumar"})
	state := mustReduce(t, State{}, Login{User: user})
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, "agent-1", state.CurrentUser.ID())

	state = mustReduce(t, state, Logout{})
	assert.Nil(t, state.CurrentUser)

	_, changed, err := Reduce(state, Logout{}, t0)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestReduceUnknownTicketStatus(t *testing.T) {
	_, _, err := Reduce(State{}, UpdateTicketStatus{TicketID: "nope", Status: domain.TicketStatusOpen}, t0)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestReduceIfStatusGuard(t *testing.T) {
	botOwned := []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusOpen}
	state := mustReduce(t, State{}, CreateTicket{Ticket: newTicket("t1", "cust-1")})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusOpen, IfStatus: botOwned})
	state = mustReduce(t, state, AddMessage{Message: domain.Message{ID: "m1", TicketID: "t1", Sender: domain.SenderBot, Text: "Hi"}, IfStatus: botOwned})
	state = mustReduce(t, state, UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusEscalated})

	cases := map[string]Action{
		"append":   AddMessage{Message: domain.Message{ID: "m2", TicketID: "t1", Sender: domain.SenderBot, Text: "late"}, IfStatus: botOwned},
		"escalate": UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusEscalated, IfStatus: []domain.TicketStatus{domain.TicketStatusOpen}},
		"reopen":   UpdateTicketStatus{TicketID: "t1", Status: domain.TicketStatusOpen, IfStatus: botOwned},
	}
	for name, action := range cases {
		t.Run(name, func(t *testing.T) {
			next, changed, err := Reduce(state, action, t0)
			assert.ErrorIs(t, err, ErrStatusChanged)
			assert.False(t, changed)
			assert.Len(t, next.Tickets[0].Messages, 1)
			assert.Equal(t, domain.TicketStatusEscalated, next.Tickets[0].Status)
		})
	}
}
