package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusNew, TicketStatusOpen, true},
		{TicketStatusNew, TicketStatusInProgress, false},
		{TicketStatusNew, TicketStatusEscalated, false},
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusOpen, TicketStatusEscalated, true},
		{TicketStatusOpen, TicketStatusNew, false},
		{TicketStatusInProgress, TicketStatusEscalated, true},
		{TicketStatusInProgress, TicketStatusOpen, false},
		{TicketStatusEscalated, TicketStatusInProgress, true},
		{TicketStatusEscalated, TicketStatusOpen, false},
		{TicketStatusResolved, TicketStatusOpen, false},
		{TicketStatusResolved, TicketStatusInProgress, false},
		{TicketStatusResolved, TicketStatusEscalated, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}

	for _, s := range []TicketStatus{TicketStatusNew, TicketStatusOpen, TicketStatusInProgress, TicketStatusEscalated} {
		assert.True(t, CanTransition(s, TicketStatusResolved), "%s should resolve", s)
	}
}

func TestTicketClone(t *testing.T) {
	agent := "agent-1"
	orig := Ticket{
		ID:              "ticket-1",
		Messages:        []Message{{ID: "m1", Text: "hi"}},
		AssignedAgentID: &agent,
	}
	clone := orig.Clone()
	clone.Messages[0].Text = "changed"
	*clone.AssignedAgentID = "agent-2"

	assert.Equal(t, "hi", orig.Messages[0].Text)
	assert.Equal(t, "agent-1", *orig.AssignedAgentID)
}

func TestUserAccessors(t *testing.T) {
	c := CustomerUser(Customer{ID: "cust-1", Name: "Rahul"})
	a := AgentUser(Agent{ID: "agent-1", Name: "Amit"})

	assert.Equal(t, "cust-1", c.ID())
	assert.Equal(t, "Rahul", c.Name())
	assert.Equal(t, "agent-1", a.ID())
	assert.Equal(t, "Amit", a.Name())
	assert.Empty(t, User{}.ID())
}
