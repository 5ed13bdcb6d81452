package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/hub"
)

// subscriberWriteTimeout bounds each push frame so a dead peer fails the
// write and gets dropped instead of stalling the hub's delivery loop.
const subscriberWriteTimeout = 5 * time.Second

// timedConn applies a write deadline before every frame pushed to a
// subscriber.
type timedConn struct {
	conn *websocket.Conn
}

func (t timedConn) WriteJSON(v interface{}) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(subscriberWriteTimeout))
	return t.conn.WriteJSON(v)
}

func (t timedConn) Close() error {
	return t.conn.Close()
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Hub     *hub.Hub
}

// RegisterRoutes wires HTTP routes and the websocket subscriber channel.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Post("/tickets/:id", cfg.Tickets.UpdateTicket)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	api.Post("/tickets/:id/responses", cfg.Tickets.AddResponse)
	// Alias with identical semantics, kept for existing clients.
	api.Post("/tickets/:id/respond", cfg.Tickets.AddResponse)
	api.Post("/tickets/:id/status", cfg.Tickets.SetStatus)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		subscriber := timedConn{conn: conn}
		cfg.Hub.Register(subscriber)
		defer cfg.Hub.Unregister(subscriber)

		// Hold the connection open; inbound frames are ignored. A read
		// error means the client went away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
