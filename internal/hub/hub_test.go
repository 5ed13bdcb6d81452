package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// ----- Fake connection -----

type fakeConn struct {
	mu       sync.Mutex
	frames   []events.Event
	writeErr error
	closed   bool
	block    chan struct{} // non-nil makes WriteJSON stall until closed
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.frames = append(f.frames, v.(events.Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) frameAt(i int) events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames[i]
}

func (f *fakeConn) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func waitForFrames(t *testing.T, conn *fakeConn, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn.frameCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber received %d frames, want %d", conn.frameCount(), want)
}

// ----- Tests -----

func TestBroadcastDeliversInEmissionOrder(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()
	conn := &fakeConn{}
	h.Register(conn)

	h.Broadcast(events.Event{TicketID: "t1", UpdateType: events.UpdateTicketCreated})
	h.Broadcast(events.Event{TicketID: "t1", UpdateType: events.UpdateStatusChanged})

	if conn.frameCount() != 2 {
		t.Fatalf("frames = %d, want 2", conn.frameCount())
	}
	if conn.frameAt(0).UpdateType != events.UpdateTicketCreated || conn.frameAt(1).UpdateType != events.UpdateStatusChanged {
		t.Errorf("frames out of order: %+v %+v", conn.frameAt(0), conn.frameAt(1))
	}
}

func TestBroadcastDropsFailingConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("connection reset")}
	h.Register(healthy)
	h.Register(broken)

	h.Broadcast(events.Event{TicketID: "t1", UpdateType: events.UpdateTicketDeleted})

	if healthy.frameCount() != 1 {
		t.Errorf("healthy connection got %d frames, want 1", healthy.frameCount())
	}
	if !broken.wasClosed() {
		t.Error("failing connection was not closed")
	}
	if h.Subscribers() != 1 {
		t.Errorf("subscribers = %d, want 1", h.Subscribers())
	}

	// A later broadcast must not touch the dropped connection.
	h.Broadcast(events.Event{TicketID: "t2", UpdateType: events.UpdateTicketCreated})
	if healthy.frameCount() != 2 {
		t.Errorf("healthy connection got %d frames, want 2", healthy.frameCount())
	}
}

func TestUnregisterRemovesConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()
	conn := &fakeConn{}
	h.Register(conn)
	h.Unregister(conn)

	h.Broadcast(events.Event{TicketID: "t1", UpdateType: events.UpdateTicketCreated})
	if conn.frameCount() != 0 {
		t.Errorf("unregistered connection received %d frames", conn.frameCount())
	}
	if h.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", h.Subscribers())
	}
}

func TestRegisterHandlersBridgesDispatcher(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()
	d := events.NewInMemoryDispatcher()
	h.RegisterHandlers(d)

	conn := &fakeConn{}
	h.Register(conn)

	for _, updateType := range events.UpdateTypes {
		_ = d.Publish(context.Background(), events.Event{TicketID: "t1", UpdateType: updateType})
	}

	waitForFrames(t, conn, len(events.UpdateTypes))
	for i, updateType := range events.UpdateTypes {
		if got := conn.frameAt(i).UpdateType; got != updateType {
			t.Errorf("frame %d = %q, want %q", i, got, updateType)
		}
	}
}

func TestStalledSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(zap.NewNop())
	defer h.Close()
	d := events.NewInMemoryDispatcher()
	h.RegisterHandlers(d)

	stalled := &fakeConn{block: make(chan struct{})}
	defer close(stalled.block)
	h.Register(stalled)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = d.Publish(context.Background(), events.Event{TicketID: "t1", UpdateType: events.UpdateTicketCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked behind a stalled subscriber")
	}
}
