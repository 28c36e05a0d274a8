package models

// Event names carried on the bus and pushed to live clients.
const (
	EventOrderCreated     = "order_created"
	EventOrderItemAdded   = "order_item_added"
	EventOrderItemUpdated = "order_item_updated"
	EventOrderCanceled    = "order_canceled"
)

// Event is the immutable envelope published on the event bus and
// forwarded verbatim to websocket clients. Decimals serialize as
// decimal strings and timestamps as RFC 3339, so the payload is safe to
// hand straight to JSON clients.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// EventData is the payload snapshot of the affected order and item.
type EventData struct {
	TargetRole StaffRole     `json:"target_role"`
	Order      *OrderSession `json:"order,omitempty"`
	Item       *OrderItem    `json:"item,omitempty"`
}

// NewOrderEvent builds an event carrying an order session snapshot.
func NewOrderEvent(name string, role StaffRole, order *OrderSession) *Event {
	return &Event{
		Event: name,
		Data: EventData{
			TargetRole: role,
			Order:      order,
		},
	}
}

// NewItemEvent builds an event carrying both the updated item and its
// parent order snapshot.
func NewItemEvent(name string, role StaffRole, order *OrderSession, item *OrderItem) *Event {
	return &Event{
		Event: name,
		Data: EventData{
			TargetRole: role,
			Order:      order,
			Item:       item,
		},
	}
}
