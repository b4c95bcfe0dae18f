package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/events"
	"github.com/kruxfinance/support-chat/internal/observability"
	"github.com/kruxfinance/support-chat/internal/repository"
)

const persistTimeout = 5 * time.Second

// Store owns all tickets and messages. Every mutation goes through Dispatch, which
// serializes reducer runs; readers get deep copies.
type Store struct {
	mu         sync.Mutex
	state      State
	repo       repository.StateRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles collaborators for the store.
type Dependencies struct {
	Repo       repository.StateRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// New builds a store and loads the persisted document. Read failures are logged and
// the store starts empty.
func New(ctx context.Context, deps Dependencies) *Store {
	s := &Store{
		repo:       deps.Repo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.repo == nil {
		s.repo = repository.NewMemoryStateRepository()
	}
	s.state = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) State {
	data, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrStateNotFound) {
			s.logger.Error("error reading state; starting empty", zap.Error(err))
		}
		return State{Tickets: []domain.Ticket{}}
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Error("error parsing state; starting empty", zap.Error(err))
		return State{Tickets: []domain.Ticket{}}
	}
	if state.Tickets == nil {
		state.Tickets = []domain.Ticket{}
	}
	s.logger.Info("state loaded", zap.Int("tickets", len(state.Tickets)))
	return state
}

// Dispatch runs action through the reducer, persists the result and publishes the
// resulting events once the lock is released.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	s.mu.Lock()
	prev := s.state
	next, changed, err := Reduce(prev, action, s.now())
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("action rejected", zap.String("action", string(action.Type())), zap.Error(err))
		return err
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.state = next
	s.persist(ctx, next)
	evts := s.eventsFor(prev, next, action)
	s.mu.Unlock()

	if s.dispatcher == nil {
		return nil
	}
	for _, evt := range evts {
		if err := s.dispatcher.Publish(ctx, evt); err != nil {
			s.logger.Warn("event handler failed", zap.String("event", string(evt.Type)), zap.String("ticket_id", evt.TicketID), zap.Error(err))
		}
	}
	return nil
}

// persist writes the document. Failures are logged, never returned.
func (s *Store) persist(ctx context.Context, state State) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("error encoding state", zap.Error(err))
		s.metrics.RecordPersistFailure()
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, data); err != nil {
		s.logger.Error("error saving state", zap.Error(err))
		s.metrics.RecordPersistFailure()
	}
}

func (s *Store) eventsFor(prev, next State, action Action) []events.Event {
	now := s.now()
	newEvent := func(t events.EventType, ticketID string, payload any) events.Event {
		return events.Event{ID: uuid.NewString(), Type: t, TicketID: ticketID, Timestamp: now, Payload: payload}
	}

	switch a := action.(type) {
	case Login:
		return []events.Event{newEvent(events.EventUserLoggedIn, "", events.UserSessionPayload{UserType: a.User.Type, UserID: a.User.ID()})}
	case Logout:
		payload := events.UserSessionPayload{}
		if prev.CurrentUser != nil {
			payload = events.UserSessionPayload{UserType: prev.CurrentUser.Type, UserID: prev.CurrentUser.ID()}
		}
		return []events.Event{newEvent(events.EventUserLoggedOut, "", payload)}
	case CreateTicket:
		return []events.Event{newEvent(events.EventTicketCreated, a.Ticket.ID, events.TicketCreatedPayload{
			CustomerID:   a.Ticket.CustomerID,
			CustomerName: a.Ticket.CustomerName,
			Priority:     a.Ticket.Priority,
			Category:     a.Ticket.Category,
		})}
	case AddMessage:
		return []events.Event{newEvent(events.EventTicketMessageAdded, a.Message.TicketID, events.TicketMessageAddedPayload{
			MessageID:   a.Message.ID,
			Sender:      a.Message.Sender,
			BodyPreview: stringPreview(a.Message.Text, 120),
		})}
	case UpdateTicketStatus:
		before := prev.Tickets[prev.ticketIndex(a.TicketID)]
		after := next.Tickets[next.ticketIndex(a.TicketID)]
		s.metrics.RecordTransition(string(before.Status), string(after.Status))
		out := []events.Event{newEvent(events.EventTicketStatusChanged, a.TicketID, events.TicketStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: after.Status,
			AgentID:   a.AgentID,
		})}
		if after.AssignedAgentID != nil && (before.AssignedAgentID == nil || *before.AssignedAgentID != *after.AssignedAgentID) {
			out = append(out, newEvent(events.EventTicketAssigned, a.TicketID, events.TicketAssignedPayload{
				OldAgentID: before.AssignedAgentID,
				NewAgentID: *after.AssignedAgentID,
			}))
		}
		return out
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Ticket returns a copy of the ticket with the given id.
func (s *Store) Ticket(id string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.ticketIndex(id)
	if idx < 0 {
		return domain.Ticket{}, false
	}
	return s.state.Tickets[idx].Clone(), true
}

// ActiveTicket returns a copy of the customer's non-resolved ticket, if any.
func (s *Store) ActiveTicket(customerID string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.activeTicketIndex(customerID)
	if idx < 0 {
		return domain.Ticket{}, false
	}
	return s.state.Tickets[idx].Clone(), true
}

// TicketsByRecentActivity returns copies of all tickets, most recent message first.
func (s *Store) TicketsByRecentActivity() []domain.Ticket {
	snapshot := s.Snapshot()
	sort.SliceStable(snapshot.Tickets, func(i, j int) bool {
		return snapshot.Tickets[i].LastMessageAt.After(snapshot.Tickets[j].LastMessageAt)
	})
	return snapshot.Tickets
}

// CurrentUser returns the most recently logged in user, if any.
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentUser == nil {
		return domain.User{}, false
	}
	return cloneUser(*s.state.CurrentUser), true
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Ping checks the backing repository.
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// stringPreview shortens body to at most max runes.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
