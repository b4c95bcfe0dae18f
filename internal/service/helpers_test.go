package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/events"
	"github.com/kruxfinance/support-chat/internal/roster"
	"github.com/kruxfinance/support-chat/internal/store"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) (*store.Store, events.Dispatcher) {
	t.Helper()
	clock := &tickingClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	dispatcher := events.NewInMemoryDispatcher()
	st := store.New(context.Background(), store.Dependencies{Dispatcher: dispatcher, Clock: clock.Now})
	return st, dispatcher
}

func rahul(t *testing.T) domain.Customer {
	t.Helper()
	c, ok := roster.Default().Customer("cust-1")
	require.True(t, ok)
	return c
}

func amit(t *testing.T) domain.Agent {
	t.Helper()
	a, ok := roster.Default().Agent("agent-1")
	require.True(t, ok)
	return a
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T", err)
	require.Equal(t, code, domainErr.Code)
}

type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string, _ []domain.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "ok", nil
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r, nil
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func senders(ticket domain.Ticket) []domain.MessageSender {
	out := make([]domain.MessageSender, 0, len(ticket.Messages))
	for _, m := range ticket.Messages {
		out = append(out, m.Sender)
	}
	return out
}
