package service

import (
	"context"
	"strings"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/store"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// ChatService is the customer's side of the conversation.
type ChatService struct {
	store *store.Store
}

// NewChatService constructs the service.
func NewChatService(st *store.Store) *ChatService {
	return &ChatService{store: st}
}

// CustomerMessageInput describes a message sent by a customer. TicketID is
// optional; when empty the customer's active ticket is used.
type CustomerMessageInput struct {
	TicketID string
	Text     string
}

// GetOrCreateActiveTicket returns the customer's non-resolved ticket, creating a
// fresh one when none exists.
func (s *ChatService) GetOrCreateActiveTicket(ctx context.Context, customer domain.Customer) (domain.Ticket, error) {
	if ticket, ok := s.store.ActiveTicket(customer.ID); ok {
		return ticket, nil
	}
	now := s.store.Now()
	ticket := domain.Ticket{
		ID:            newTicketID(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Status:        domain.TicketStatusNew,
		Priority:      domain.TicketPriorityMedium,
		Category:      domain.CategoryGeneralInquiry,
		Messages:      []domain.Message{},
		CreatedAt:     now,
		LastMessageAt: now,
	}
	if err := s.store.Dispatch(ctx, store.CreateTicket{Ticket: ticket}); err != nil {
		return domain.Ticket{}, mapStoreError(err)
	}
	// A concurrent open may have won; the reducer kept theirs.
	active, ok := s.store.ActiveTicket(customer.ID)
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", nil)
	}
	return active, nil
}

// OpenChat returns the conversation the customer should see.
func (s *ChatService) OpenChat(ctx context.Context, customer domain.Customer) (domain.Ticket, error) {
	return s.GetOrCreateActiveTicket(ctx, customer)
}

// SendMessage appends a customer message and returns the updated ticket.
func (s *ChatService) SendMessage(ctx context.Context, customer domain.Customer, input CustomerMessageInput) (domain.Ticket, domain.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return domain.Ticket{}, domain.Message{}, apperrors.NewValidationError("message text is required", map[string]any{"text": "required"})
	}

	var ticket domain.Ticket
	if input.TicketID != "" {
		t, ok := s.store.Ticket(input.TicketID)
		if !ok || t.CustomerID != customer.ID {
			return domain.Ticket{}, domain.Message{}, apperrors.NewNotFound("ticket", map[string]any{"id": input.TicketID})
		}
		if t.Status == domain.TicketStatusResolved {
			return domain.Ticket{}, domain.Message{}, apperrors.NewConflict("ticket is resolved", map[string]any{"id": t.ID})
		}
		ticket = t
	} else {
		t, err := s.GetOrCreateActiveTicket(ctx, customer)
		if err != nil {
			return domain.Ticket{}, domain.Message{}, err
		}
		ticket = t
	}

	msg := domain.Message{
		ID:        newMessageID(),
		TicketID:  ticket.ID,
		Sender:    domain.SenderCustomer,
		Text:      text,
		Timestamp: s.store.Now(),
	}
	if err := s.store.Dispatch(ctx, store.AddMessage{Message: msg}); err != nil {
		return domain.Ticket{}, domain.Message{}, mapStoreError(err)
	}
	updated, _ := s.store.Ticket(ticket.ID)
	return updated, msg, nil
}
