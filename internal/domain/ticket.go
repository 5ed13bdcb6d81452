package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusEscalated  TicketStatus = "escalated"
)

// ParseTicketStatus normalizes case-insensitive input to a known status.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	status := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed, TicketStatusEscalated:
		return status, true
	}
	return "", false
}

// Ticket is the aggregate for support requests. The json tags double as the
// persisted snapshot layout and the wire layout.
type Ticket struct {
	ID            string       `json:"id"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	Subject       string       `json:"subject"`
	Description   string       `json:"description"`
	SerialNumber  string       `json:"serial_number"`
	Category      string       `json:"category"`
	Priority      string       `json:"priority"`
	Status        TicketStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}
