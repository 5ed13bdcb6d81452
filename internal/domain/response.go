package domain

import "time"

// Response is a threaded reply attached to a ticket. The owning ticket
// reference is set at creation and never re-pointed.
type Response struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
