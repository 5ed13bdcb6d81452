package store

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Snapshot is the full collection of tickets and responses, the unit of
// persistence. Every mutation reads the current snapshot, applies the change
// and writes the whole snapshot back.
type Snapshot struct {
	Tickets   []domain.Ticket   `json:"tickets"`
	Responses []domain.Response `json:"responses"`
}

// SnapshotStore encapsulates durable snapshot persistence.
type SnapshotStore interface {
	// Load reads durable state, returning empty collections when no prior
	// state exists.
	Load(ctx context.Context) (*Snapshot, error)
	// Persist overwrites durable state with the given snapshot.
	Persist(ctx context.Context, snapshot *Snapshot) error
}

// NewSnapshot returns an empty snapshot with non-nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tickets:   []domain.Ticket{},
		Responses: []domain.Response{},
	}
}

// TicketIndex returns the position of the ticket with the given id, or -1.
func (s *Snapshot) TicketIndex(id string) int {
	for i := range s.Tickets {
		if s.Tickets[i].ID == id {
			return i
		}
	}
	return -1
}

// ResponsesFor returns the responses owned by a ticket, in insertion order.
func (s *Snapshot) ResponsesFor(ticketID string) []domain.Response {
	responses := []domain.Response{}
	for _, response := range s.Responses {
		if response.TicketID == ticketID {
			responses = append(responses, response)
		}
	}
	return responses
}

// RemoveTicket deletes a ticket and cascades deletion to its responses.
// It reports whether the ticket existed.
func (s *Snapshot) RemoveTicket(id string) bool {
	idx := s.TicketIndex(id)
	if idx < 0 {
		return false
	}
	s.Tickets = append(s.Tickets[:idx], s.Tickets[idx+1:]...)

	remaining := s.Responses[:0]
	for _, response := range s.Responses {
		if response.TicketID != id {
			remaining = append(remaining, response)
		}
	}
	s.Responses = remaining
	return true
}

func (s *Snapshot) normalize() {
	if s.Tickets == nil {
		s.Tickets = []domain.Ticket{}
	}
	if s.Responses == nil {
		s.Responses = []domain.Response{}
	}
}
