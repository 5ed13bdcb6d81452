package store

import (
	"testing"

	"github.com/spec-kit/support-desk/internal/domain"
)

func seededSnapshot() *Snapshot {
	s := NewSnapshot()
	s.Tickets = append(s.Tickets,
		domain.Ticket{ID: "t1", Subject: "first"},
		domain.Ticket{ID: "t2", Subject: "second"},
	)
	s.Responses = append(s.Responses,
		domain.Response{ID: "r1", TicketID: "t1", Message: "one"},
		domain.Response{ID: "r2", TicketID: "t2", Message: "two"},
		domain.Response{ID: "r3", TicketID: "t1", Message: "three"},
	)
	return s
}

func TestTicketIndex(t *testing.T) {
	s := seededSnapshot()
	if idx := s.TicketIndex("t2"); idx != 1 {
		t.Errorf("TicketIndex(t2) = %d, want 1", idx)
	}
	if idx := s.TicketIndex("missing"); idx != -1 {
		t.Errorf("TicketIndex(missing) = %d, want -1", idx)
	}
}

func TestResponsesForInsertionOrder(t *testing.T) {
	s := seededSnapshot()
	responses := s.ResponsesFor("t1")
	if len(responses) != 2 || responses[0].ID != "r1" || responses[1].ID != "r3" {
		t.Errorf("responses out of order: %+v", responses)
	}
	if got := s.ResponsesFor("missing"); len(got) != 0 {
		t.Errorf("expected no responses, got %+v", got)
	}
}

func TestRemoveTicketCascades(t *testing.T) {
	s := seededSnapshot()
	if !s.RemoveTicket("t1") {
		t.Fatal("RemoveTicket(t1) = false, want true")
	}
	if s.TicketIndex("t1") != -1 {
		t.Error("ticket t1 still present after removal")
	}
	if len(s.Responses) != 1 || s.Responses[0].TicketID != "t2" {
		t.Errorf("cascade delete left wrong responses: %+v", s.Responses)
	}
	if s.RemoveTicket("t1") {
		t.Error("removing an absent ticket reported true")
	}
}
