package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/roster"
	"github.com/kruxfinance/support-chat/internal/store"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// SupportService backs the agent dashboard.
type SupportService struct {
	store     *store.Store
	directory *roster.Directory
	logger    *zap.Logger
}

// NewSupportService constructs the service.
func NewSupportService(st *store.Store, directory *roster.Directory, logger *zap.Logger) *SupportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{store: st, directory: directory, logger: logger}
}

// TicketDetail is a ticket together with the customer's roster record.
type TicketDetail struct {
	Ticket   domain.Ticket
	Customer *domain.Customer
}

// Queue lists every ticket, most recent activity first.
func (s *SupportService) Queue(_ context.Context) []domain.Ticket {
	return s.store.TicketsByRecentActivity()
}

// OpenTicket returns the ticket for review. Opening an escalated ticket claims it
// for the agent.
func (s *SupportService) OpenTicket(ctx context.Context, agent domain.Agent, ticketID string) (TicketDetail, error) {
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return TicketDetail{}, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	if ticket.Status == domain.TicketStatusEscalated {
		agentID := agent.ID
		if err := s.store.Dispatch(ctx, store.UpdateTicketStatus{
			TicketID: ticket.ID,
			Status:   domain.TicketStatusInProgress,
			AgentID:  &agentID,
		}); err != nil {
			return TicketDetail{}, mapStoreError(err)
		}
		s.logger.Info("ticket claimed", zap.String("ticket_id", ticket.ID), zap.String("agent_id", agent.ID))
		ticket, _ = s.store.Ticket(ticket.ID)
	}
	return s.detail(ticket), nil
}

// SendMessage appends an agent reply. Open and escalated tickets move to
// in-progress, assigned to the sender.
func (s *SupportService) SendMessage(ctx context.Context, agent domain.Agent, ticketID, text string) (domain.Ticket, domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Ticket{}, domain.Message{}, apperrors.NewValidationError("message text is required", map[string]any{"text": "required"})
	}
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return domain.Ticket{}, domain.Message{}, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	if ticket.Status == domain.TicketStatusResolved {
		return domain.Ticket{}, domain.Message{}, apperrors.NewConflict("ticket is resolved", map[string]any{"id": ticket.ID})
	}

	msg := domain.Message{
		ID:        newMessageID(),
		TicketID:  ticket.ID,
		Sender:    domain.SenderAgent,
		Text:      text,
		Timestamp: s.store.Now(),
	}
	if err := s.store.Dispatch(ctx, store.AddMessage{Message: msg}); err != nil {
		return domain.Ticket{}, domain.Message{}, mapStoreError(err)
	}
	if ticket.Status == domain.TicketStatusOpen || ticket.Status == domain.TicketStatusEscalated {
		agentID := agent.ID
		if err := s.store.Dispatch(ctx, store.UpdateTicketStatus{
			TicketID: ticket.ID,
			Status:   domain.TicketStatusInProgress,
			AgentID:  &agentID,
		}); err != nil {
			return domain.Ticket{}, domain.Message{}, mapStoreError(err)
		}
	}
	updated, _ := s.store.Ticket(ticket.ID)
	return updated, msg, nil
}

// Resolve closes the ticket and appends the resolution note.
func (s *SupportService) Resolve(ctx context.Context, agent domain.Agent, ticketID string) (domain.Ticket, error) {
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	if ticket.Status == domain.TicketStatusResolved {
		return domain.Ticket{}, apperrors.NewConflict("ticket already resolved", map[string]any{"id": ticket.ID})
	}
	agentID := agent.ID
	if err := s.store.Dispatch(ctx, store.UpdateTicketStatus{
		TicketID: ticket.ID,
		Status:   domain.TicketStatusResolved,
		AgentID:  &agentID,
	}); err != nil {
		return domain.Ticket{}, mapStoreError(err)
	}
	if err := s.store.Dispatch(ctx, store.AddMessage{Message: domain.Message{
		ID:        newMessageID(),
		TicketID:  ticket.ID,
		Sender:    domain.SenderAgent,
		Text:      ResolutionNote,
		Timestamp: s.store.Now(),
	}}); err != nil {
		return domain.Ticket{}, mapStoreError(err)
	}
	s.logger.Info("ticket resolved", zap.String("ticket_id", ticket.ID), zap.String("agent_id", agent.ID))
	updated, _ := s.store.Ticket(ticket.ID)
	return updated, nil
}

// QuickReplies returns the canned agent responses.
func (s *SupportService) QuickReplies() []string {
	out := make([]string, len(roster.QuickReplies))
	copy(out, roster.QuickReplies)
	return out
}

func (s *SupportService) detail(ticket domain.Ticket) TicketDetail {
	out := TicketDetail{Ticket: ticket}
	if customer, ok := s.directory.Customer(ticket.CustomerID); ok {
		out.Customer = &customer
	}
	return out
}
