package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kruxfinance/support-chat/internal/api/dto"
	"github.com/kruxfinance/support-chat/internal/auth"
	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/service"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// CustomerHandler serves the customer chat endpoints.
type CustomerHandler struct {
	chat *service.ChatService
}

// NewCustomerHandler constructs handler.
func NewCustomerHandler(chat *service.ChatService) *CustomerHandler {
	return &CustomerHandler{chat: chat}
}

// GetChat GET /customer/chat.
func (h *CustomerHandler) GetChat(c *fiber.Ctx) error {
	customer, err := customerFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.chat.OpenChat(c.UserContext(), customer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// SendMessage POST /customer/chat/messages.
func (h *CustomerHandler) SendMessage(c *fiber.Ctx) error {
	customer, err := customerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ticket, msg, err := h.chat.SendMessage(c.UserContext(), customer, service.CustomerMessageInput{
		TicketID: req.TicketID,
		Text:     req.Text,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.MessageSentResponse{
		Message: dto.NewMessageResponse(msg),
		Ticket:  dto.NewTicketResponse(ticket),
	}})
}

func customerFromContext(c *fiber.Ctx) (domain.Customer, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || !principal.IsCustomer() {
		return domain.Customer{}, apperrors.NewUnauthorized("customer required")
	}
	return *principal.User.Customer, nil
}
