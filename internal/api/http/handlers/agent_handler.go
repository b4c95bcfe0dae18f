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

// AgentHandler serves the agent dashboard endpoints.
type AgentHandler struct {
	support *service.SupportService
}

// NewAgentHandler constructs handler.
func NewAgentHandler(support *service.SupportService) *AgentHandler {
	return &AgentHandler{support: support}
}

// ListTickets GET /agent/tickets. Optional ?status= filters the queue.
func (h *AgentHandler) ListTickets(c *fiber.Ctx) error {
	status := domain.TicketStatus(c.Query("status"))
	if status != "" && !domain.ValidStatus(status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
	}
	tickets := h.support.Queue(c.UserContext())
	items := make([]dto.TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		if status != "" && t.Status != status {
			continue
		}
		items = append(items, dto.NewTicketSummary(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /agent/tickets/:id.
func (h *AgentHandler) GetTicket(c *fiber.Ctx) error {
	agent, err := agentFromContext(c)
	if err != nil {
		return err
	}
	detail, err := h.support.OpenTicket(c.UserContext(), agent, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.TicketDetailResponse{Ticket: dto.NewTicketResponse(detail.Ticket)}
	if detail.Customer != nil {
		customer := dto.NewCustomerResponse(*detail.Customer)
		resp.Customer = &customer
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SendMessage POST /agent/tickets/:id/messages.
func (h *AgentHandler) SendMessage(c *fiber.Ctx) error {
	agent, err := agentFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ticket, msg, err := h.support.SendMessage(c.UserContext(), agent, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.MessageSentResponse{
		Message: dto.NewMessageResponse(msg),
		Ticket:  dto.NewTicketResponse(ticket),
	}})
}

// Resolve POST /agent/tickets/:id/resolve.
func (h *AgentHandler) Resolve(c *fiber.Ctx) error {
	agent, err := agentFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.support.Resolve(c.UserContext(), agent, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// QuickReplies GET /agent/quick-replies.
func (h *AgentHandler) QuickReplies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.support.QuickReplies()})
}

func agentFromContext(c *fiber.Ctx) (domain.Agent, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || !principal.IsAgent() {
		return domain.Agent{}, apperrors.NewUnauthorized("agent required")
	}
	return *principal.User.Agent, nil
}
