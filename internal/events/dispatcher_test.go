package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRoutesByUpdateType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, status []Event
	d.Subscribe(UpdateTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(UpdateStatusChanged, func(_ context.Context, e Event) error {
		status = append(status, e)
		return nil
	})

	ctx := context.Background()
	_ = d.Publish(ctx, Event{TicketID: "t1", UpdateType: UpdateTicketCreated})
	_ = d.Publish(ctx, Event{TicketID: "t1", UpdateType: UpdateStatusChanged})
	_ = d.Publish(ctx, Event{TicketID: "t1", UpdateType: UpdateTicketDeleted})

	if len(created) != 1 || created[0].UpdateType != UpdateTicketCreated {
		t.Errorf("created handler got %+v", created)
	}
	if len(status) != 1 || status[0].UpdateType != UpdateStatusChanged {
		t.Errorf("status handler got %+v", status)
	}
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(UpdateTicketCreated, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(UpdateTicketCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	if err := d.Publish(context.Background(), Event{TicketID: "t1", UpdateType: UpdateTicketCreated}); err != nil {
		t.Fatalf("publish returned %v, want nil", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (error must not stop fan-out)", calls)
	}
}
