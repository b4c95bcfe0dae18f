package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/bot"
	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/observability"
	"github.com/kruxfinance/support-chat/internal/store"
)

// BotService runs KruxBot turns against the store.
type BotService struct {
	store     *store.Store
	responder *bot.Responder
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewBotService constructs the service.
func NewBotService(st *store.Store, responder *bot.Responder, metrics *observability.Metrics, logger *zap.Logger) *BotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotService{store: st, responder: responder, metrics: metrics, logger: logger}
}

func botOwned(status domain.TicketStatus) bool {
	return status == domain.TicketStatusNew || status == domain.TicketStatusOpen
}

var botStatuses = []domain.TicketStatus{domain.TicketStatusNew, domain.TicketStatusOpen}

// Greet appends the welcome message to a ticket that is still empty. It reports
// whether a greeting was written.
func (s *BotService) Greet(ctx context.Context, ticketID string) (bool, error) {
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return false, mapStoreError(store.ErrTicketNotFound)
	}
	if len(ticket.Messages) > 0 || !botOwned(ticket.Status) {
		return false, nil
	}
	if err := s.appendBotMessage(ctx, ticket.ID, bot.Greeting(ticket.CustomerName)); err != nil {
		return false, s.dropIfTakenOver(ticket.ID, err)
	}
	if err := s.setStatus(ctx, ticket.ID, domain.TicketStatusOpen, botStatuses); err != nil {
		return false, s.dropIfTakenOver(ticket.ID, err)
	}
	s.logger.Info("greeting sent", zap.String("ticket_id", ticket.ID))
	return true, nil
}

// Reply runs one bot turn for the ticket. Nothing happens unless the ticket is
// new or open and the transcript ends with a customer message. It reports
// whether a reply was produced. Every write is conditional on the ticket still
// being bot-owned, so an agent claim at any point stops the turn.
func (s *BotService) Reply(ctx context.Context, ticketID string) (bool, error) {
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return false, mapStoreError(store.ErrTicketNotFound)
	}
	if !botOwned(ticket.Status) {
		return false, nil
	}

	reply, ok := s.responder.Respond(ctx, ticket.Messages)
	if !ok || ctx.Err() != nil {
		return false, nil
	}

	if reply.Text != "" {
		if err := s.appendBotMessage(ctx, ticketID, reply.Text); err != nil {
			return false, s.dropIfTakenOver(ticketID, err)
		}
	}
	if err := s.setStatus(ctx, ticketID, domain.TicketStatusOpen, botStatuses); err != nil {
		return false, s.dropIfTakenOver(ticketID, err)
	}

	outcome := observability.BotOutcomeReply
	if reply.Escalate {
		if err := s.setStatus(ctx, ticketID, domain.TicketStatusEscalated, []domain.TicketStatus{domain.TicketStatusOpen}); err != nil {
			return false, s.dropIfTakenOver(ticketID, err)
		}
		outcome = observability.BotOutcomeEscalated
		s.logger.Info("ticket escalated to human", zap.String("ticket_id", ticketID))
	}
	if reply.Fallback {
		outcome = observability.BotOutcomeFallback
	}
	s.metrics.RecordBotInvocation(outcome)
	return true, nil
}

// dropIfTakenOver swallows ErrStatusChanged: an agent claimed or resolved the
// ticket mid-turn and the rest of the turn is discarded.
func (s *BotService) dropIfTakenOver(ticketID string, err error) error {
	if errors.Is(err, store.ErrStatusChanged) {
		s.logger.Info("dropping bot turn; ticket taken over", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil
	}
	return mapStoreError(err)
}

func (s *BotService) appendBotMessage(ctx context.Context, ticketID, text string) error {
	return s.store.Dispatch(ctx, store.AddMessage{
		Message: domain.Message{
			ID:        newMessageID(),
			TicketID:  ticketID,
			Sender:    domain.SenderBot,
			Text:      text,
			Timestamp: s.store.Now(),
		},
		IfStatus: botStatuses,
	})
}

func (s *BotService) setStatus(ctx context.Context, ticketID string, status domain.TicketStatus, ifStatus []domain.TicketStatus) error {
	return s.store.Dispatch(ctx, store.UpdateTicketStatus{TicketID: ticketID, Status: status, IfStatus: ifStatus})
}
