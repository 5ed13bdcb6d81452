package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/validation"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler maps ticket endpoints onto the ticket service.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), ticketPayload(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, responses, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketDetail{Ticket: *ticket, Responses: responses})
}

// UpdateTicket POST /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), ticketPayload(req))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddResponse POST /api/tickets/:id/responses and its /respond alias.
func (h *TicketsHandler) AddResponse(c *fiber.Ctx) error {
	var req dto.ResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	response, err := h.service.AddResponse(c.UserContext(), c.Params("id"), validation.ResponsePayload{
		Author:  req.Author,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// SetStatus POST /api/tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Status == nil {
		return apperrors.NewValidationError("status is required")
	}
	ticket, err := h.service.SetStatus(c.UserContext(), c.Params("id"), *req.Status)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

func ticketPayload(req dto.TicketRequest) validation.TicketPayload {
	return validation.TicketPayload{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Subject:       req.Subject,
		Description:   req.Description,
		SerialNumber:  req.SerialNumber,
		Category:      req.Category,
		Priority:      req.Priority,
		Status:        req.Status,
	}
}
