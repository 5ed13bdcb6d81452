package dto

import "github.com/spec-kit/support-desk/internal/domain"

// TicketRequest is the payload for ticket creation and partial update. Nil
// fields were absent from the body, which matters for partial updates.
type TicketRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerEmail *string `json:"customer_email"`
	Subject       *string `json:"subject"`
	Description   *string `json:"description"`
	SerialNumber  *string `json:"serial_number"`
	Category      *string `json:"category"`
	Priority      *string `json:"priority"`
	Status        *string `json:"status"`
}

// ResponseRequest is the payload for adding a response to a ticket.
type ResponseRequest struct {
	Author  *string `json:"author"`
	Message *string `json:"message"`
}

// StatusRequest is the payload for the status endpoint.
type StatusRequest struct {
	Status *string `json:"status"`
}

// TicketDetail is a ticket with its responses embedded, in insertion order.
type TicketDetail struct {
	domain.Ticket
	Responses []domain.Response `json:"responses"`
}
