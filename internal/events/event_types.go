package events

// UpdateType enumerates the change kinds pushed to subscribers.
type UpdateType string

const (
	UpdateTicketCreated UpdateType = "created"
	UpdateTicketUpdated UpdateType = "updated"
	UpdateTicketDeleted UpdateType = "deleted"
	UpdateResponseAdded UpdateType = "response"
	UpdateStatusChanged UpdateType = "status"
)

// UpdateTypes lists every update type, in the order they were introduced.
var UpdateTypes = []UpdateType{
	UpdateTicketCreated,
	UpdateTicketUpdated,
	UpdateTicketDeleted,
	UpdateResponseAdded,
	UpdateStatusChanged,
}

// Event is emitted after a mutation is persisted. Its json layout is the
// exact frame delivered on the websocket channel.
type Event struct {
	TicketID   string     `json:"ticketId"`
	UpdateType UpdateType `json:"updateType"`
}
