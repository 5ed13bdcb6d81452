package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/store"
	"github.com/spec-kit/support-desk/internal/validation"
	"github.com/spec-kit/support-desk/pkg/util"
)

// TicketService coordinates ticket workflows over the snapshot store. Every
// operation loads a fresh snapshot first, so it observes all previously
// persisted writes; mutations are serialized behind a single mutex so the
// read-modify-persist sequence never loses an update.
type TicketService struct {
	mu         sync.Mutex
	store      store.SnapshotStore
	validator  *validation.Validator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      store.SnapshotStore
	Validator  *validation.Validator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListTickets returns all tickets in insertion order, without responses.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Tickets, nil
}

// CreateTicket validates the payload, assigns an identifier and creation
// timestamp, appends the ticket and persists the snapshot.
func (s *TicketService) CreateTicket(ctx context.Context, payload validation.TicketPayload) (*domain.Ticket, error) {
	validated, err := s.validator.ValidateNewTicket(payload)
	if err != nil {
		return nil, err
	}

	ticket := domain.Ticket{
		ID:            uuid.NewString(),
		CustomerName:  validated.CustomerName,
		CustomerEmail: validated.CustomerEmail,
		Subject:       validated.Subject,
		Description:   validated.Description,
		SerialNumber:  validated.SerialNumber,
		Category:      validated.Category,
		Priority:      validated.Priority,
		Status:        validated.Status,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Tickets = append(snapshot.Tickets, ticket)
	if err := s.store.Persist(ctx, snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID))
	s.publishEvent(ctx, ticket.ID, events.UpdateTicketCreated)
	return &ticket, nil
}

// GetTicket returns a ticket together with its responses in insertion order.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, []domain.Response, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	idx := snapshot.TicketIndex(id)
	if idx < 0 {
		return nil, nil, util.NewNotFound("ticket")
	}
	ticket := snapshot.Tickets[idx]
	return &ticket, snapshot.ResponsesFor(id), nil
}

// UpdateTicket merges the supplied fields into an existing ticket. Fields
// absent from the payload are left untouched.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, payload validation.TicketPayload) (*domain.Ticket, error) {
	patch, err := s.validator.ValidatePartialTicket(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := snapshot.TicketIndex(id)
	if idx < 0 {
		return nil, util.NewNotFound("ticket")
	}

	ticket := &snapshot.Tickets[idx]
	applyPatch(ticket, patch)
	if err := s.store.Persist(ctx, snapshot); err != nil {
		return nil, err
	}

	updated := *ticket
	s.publishEvent(ctx, updated.ID, events.UpdateTicketUpdated)
	return &updated, nil
}

// DeleteTicket removes a ticket and cascades deletion to all its responses
// in the same persisted write.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if !snapshot.RemoveTicket(id) {
		return util.NewNotFound("ticket")
	}
	if err := s.store.Persist(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.publishEvent(ctx, id, events.UpdateTicketDeleted)
	return nil
}

// AddResponse appends a response to an existing ticket.
func (s *TicketService) AddResponse(ctx context.Context, ticketID string, payload validation.ResponsePayload) (*domain.Response, error) {
	validated, err := s.validator.ValidateResponse(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.TicketIndex(ticketID) < 0 {
		return nil, util.NewNotFound("ticket")
	}

	response := domain.Response{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Author:    validated.Author,
		Message:   validated.Message,
		CreatedAt: time.Now().UTC(),
	}
	snapshot.Responses = append(snapshot.Responses, response)
	if err := s.store.Persist(ctx, snapshot); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ticketID, events.UpdateResponseAdded)
	return &response, nil
}

// SetStatus updates only the status field of a ticket. Any status is
// reachable from any other; there is no terminal state.
func (s *TicketService) SetStatus(ctx context.Context, ticketID, rawStatus string) (*domain.Ticket, error) {
	status, ok := domain.ParseTicketStatus(rawStatus)
	if !ok {
		return nil, util.NewValidationError("status must be one of open, in_progress, closed, escalated")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := snapshot.TicketIndex(ticketID)
	if idx < 0 {
		return nil, util.NewNotFound("ticket")
	}

	snapshot.Tickets[idx].Status = status
	if err := s.store.Persist(ctx, snapshot); err != nil {
		return nil, err
	}

	updated := snapshot.Tickets[idx]
	s.publishEvent(ctx, updated.ID, events.UpdateStatusChanged)
	return &updated, nil
}

func applyPatch(ticket *domain.Ticket, patch *validation.TicketPatch) {
	if patch.CustomerName != nil {
		ticket.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		ticket.CustomerEmail = *patch.CustomerEmail
	}
	if patch.Subject != nil {
		ticket.Subject = *patch.Subject
	}
	if patch.Description != nil {
		ticket.Description = *patch.Description
	}
	if patch.SerialNumber != nil {
		ticket.SerialNumber = *patch.SerialNumber
	}
	if patch.Category != nil {
		ticket.Category = *patch.Category
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
}

// publishEvent notifies subscribers after a successful persist. Fan-out
// faults never surface to the mutating caller.
func (s *TicketService) publishEvent(ctx context.Context, ticketID string, updateType events.UpdateType) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		TicketID:   ticketID,
		UpdateType: updateType,
	})
}
