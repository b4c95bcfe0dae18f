package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/roster"
	"github.com/kruxfinance/support-chat/internal/store"
)

func escalatedTicket(t *testing.T, st *store.Store) domain.Ticket {
	t.Helper()
	ctx := context.Background()
	ticket, _, err := NewChatService(st).SendMessage(ctx, rahul(t), CustomerMessageInput{Text: "agent please"})
	require.NoError(t, err)
	require.NoError(t, st.Dispatch(ctx, store.UpdateTicketStatus{TicketID: ticket.ID, Status: domain.TicketStatusOpen}))
	require.NoError(t, st.Dispatch(ctx, store.UpdateTicketStatus{TicketID: ticket.ID, Status: domain.TicketStatusEscalated}))
	escalated, _ := st.Ticket(ticket.ID)
	return escalated
}

func TestOpenTicketClaimsEscalated(t *testing.T) {
	st, _ := newTestStore(t)
	support := NewSupportService(st, roster.Default(), nil)
	ticket := escalatedTicket(t, st)

	detail, err := support.OpenTicket(context.Background(), amit(t), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, detail.Ticket.Status)
	require.NotNil(t, detail.Ticket.AssignedAgentID)
	assert.Equal(t, "agent-1", *detail.Ticket.AssignedAgentID)
	require.NotNil(t, detail.Customer)
	assert.Equal(t, "+919876543210", detail.Customer.Phone)
	require.Len(t, detail.Customer.LoanHistory, 1)
	assert.Equal(t, "KRUX12345", detail.Customer.LoanHistory[0].ID)
}

func TestOpenTicketLeavesOpenTicketAlone(t *testing.T) {
	st, _ := newTestStore(t)
	support := NewSupportService(st, roster.Default(), nil)
	ticket, err := NewChatService(st).OpenChat(context.Background(), rahul(t))
	require.NoError(t, err)

	detail, err := support.OpenTicket(context.Background(), amit(t), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusNew, detail.Ticket.Status)
	assert.Nil(t, detail.Ticket.AssignedAgentID)

	_, err = support.OpenTicket(context.Background(), amit(t), "ticket-nope")
	requireCode(t, err, "NOT_FOUND")
}

func TestAgentMessageMovesEscalatedToInProgress(t *testing.T) {
	st, _ := newTestStore(t)
	support := NewSupportService(st, roster.Default(), nil)
	ticket := escalatedTicket(t, st)

	updated, msg, err := support.SendMessage(context.Background(), amit(t), ticket.ID, "Hello Rahul, I can help.")
	require.NoError(t, err)
	assert.Equal(t, domain.SenderAgent, msg.Sender)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedAgentID)
	assert.Equal(t, "agent-1", *updated.AssignedAgentID)

	_, _, err = support.SendMessage(context.Background(), amit(t), ticket.ID, "  ")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestResolveAppendsNoteAndIsTerminal(t *testing.T) {
	st, _ := newTestStore(t)
	support := NewSupportService(st, roster.Default(), nil)
	ticket := escalatedTicket(t, st)
	ctx := context.Background()

	resolved, err := support.Resolve(ctx, amit(t), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	last, _ := resolved.LastMessage()
	assert.Equal(t, ResolutionNote, last.Text)
	assert.Equal(t, domain.SenderAgent, last.Sender)
	require.NotNil(t, resolved.AssignedAgentID)
	assert.Equal(t, "agent-1", *resolved.AssignedAgentID)

	_, err = support.Resolve(ctx, amit(t), ticket.ID)
	requireCode(t, err, "CONFLICT")
	_, _, err = support.SendMessage(ctx, amit(t), ticket.ID, "one more thing")
	requireCode(t, err, "CONFLICT")
}

func TestQueueOrdersByRecentActivity(t *testing.T) {
	st, _ := newTestStore(t)
	support := NewSupportService(st, roster.Default(), nil)
	chat := NewChatService(st)
	ctx := context.Background()

	first, _, err := chat.SendMessage(ctx, rahul(t), CustomerMessageInput{Text: "first"})
	require.NoError(t, err)
	priya, _ := roster.Default().Customer("cust-2")
	second, _, err := chat.SendMessage(ctx, priya, CustomerMessageInput{Text: "second"})
	require.NoError(t, err)

	queue := support.Queue(ctx)
	require.Len(t, queue, 2)
	assert.Equal(t, second.ID, queue[0].ID)

	_, _, err = chat.SendMessage(ctx, rahul(t), CustomerMessageInput{Text: "bump"})
	require.NoError(t, err)
	queue = support.Queue(ctx)
	assert.Equal(t, first.ID, queue[0].ID)
}

func TestQuickRepliesAreCopies(t *testing.T) {
	support := NewSupportService(nil, roster.Default(), nil)
	replies := support.QuickReplies()
	require.Len(t, replies, 4)
	replies[0] = "changed"
	assert.NotEqual(t, "changed", support.QuickReplies()[0])
}
