package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order session.
type OrderStatus string

const (
	OrderOpening  OrderStatus = "opening"
	OrderClosed   OrderStatus = "closed"
	OrderCanceled OrderStatus = "canceled"
)

// OrderItemStatus represents the status of a single order item.
type OrderItemStatus string

const (
	ItemPending   OrderItemStatus = "pending"
	ItemReceived  OrderItemStatus = "received"
	ItemCompleted OrderItemStatus = "completed"
	ItemCanceled  OrderItemStatus = "canceled"
)

// orderTransitions is the allowed-next set for order session statuses.
// Both closed and canceled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderOpening:  {OrderClosed, OrderCanceled},
	OrderClosed:   {},
	OrderCanceled: {},
}

// itemTransitions is the allowed-next set for order item statuses.
// No transition may skip states or reverse.
var itemTransitions = map[OrderItemStatus][]OrderItemStatus{
	ItemPending:   {ItemReceived, ItemCanceled},
	ItemReceived:  {ItemCompleted},
	ItemCompleted: {},
	ItemCanceled:  {},
}

// ValidateOrderTransition checks an order session status change against
// the transition graph.
func ValidateOrderTransition(current, requested OrderStatus) error {
	for _, next := range orderTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &InvalidTransitionError{From: string(current), To: string(requested)}
}

// ValidateItemTransition checks an order item status change against the
// transition graph. It must be called before any item status write.
func ValidateItemTransition(current, requested OrderItemStatus) error {
	for _, next := range itemTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &InvalidTransitionError{From: string(current), To: string(requested)}
}

// RoleMayTransition enforces the role policy for item status changes:
// only chefs and managers may mark items received or completed, while
// any staff role may cancel a pending item.
func RoleMayTransition(role StaffRole, requested OrderItemStatus) bool {
	switch requested {
	case ItemReceived, ItemCompleted:
		return role == RoleChef || role == RoleManager
	case ItemCanceled:
		return role.Valid()
	default:
		return false
	}
}

// IsTerminal reports whether the item status has no outgoing transitions.
func (s OrderItemStatus) IsTerminal() bool {
	return len(itemTransitions[s]) == 0
}

// Valid reports whether the value is a known item status.
func (s OrderItemStatus) Valid() bool {
	_, ok := itemTransitions[s]
	return ok
}

// OrderSession is one table's active or finished bill, grouping order items.
type OrderSession struct {
	ID          int64           `json:"id"`
	TableID     int64           `json:"table_id"`
	ServerID    int64           `json:"server_id"`
	Status      OrderStatus     `json:"status"`
	IsPaid      bool            `json:"is_paid"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
	OrderItems  []OrderItem     `json:"order_items"`
}

// OrderItem is a single menu-item line within an order session. It
// references its parent only by id.
type OrderItem struct {
	ID       int64           `json:"id"`
	OrderID  int64           `json:"order_id,omitempty"`
	ItemID   int64           `json:"item_id"`
	Quantity int             `json:"quantity"`
	Note     *string         `json:"note,omitempty"`
	Status   OrderItemStatus `json:"status"`
}

// CreateOrderRequest is the body of POST /orders/.
type CreateOrderRequest struct {
	TableID    int64             `json:"table_id"`
	OrderItems []OrderItemCreate `json:"order_items"`
}

// OrderItemCreate is one requested line item on order creation or extension.
type OrderItemCreate struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Note     *string `json:"note,omitempty"`
}

// OrderSessionUpdate is the partial-update body of PUT /orders/{id}/.
type OrderSessionUpdate struct {
	Status      *OrderStatus     `json:"status,omitempty"`
	IsPaid      *bool            `json:"is_paid,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
}

// OrderItemUpdate is the partial-update body of
// PUT /orders/{id}/order-items/{itemID}/.
type OrderItemUpdate struct {
	Quantity *int             `json:"quantity,omitempty"`
	Status   *OrderItemStatus `json:"status,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

// BatchItemUpdate is one entry of PUT /orders/batch-update-items.
type BatchItemUpdate struct {
	OrderID int64           `json:"order_id"`
	ItemID  int64           `json:"item_id"`
	Status  OrderItemStatus `json:"status"`
}

// Validate checks the create order request.
func (req *CreateOrderRequest) Validate() error {
	if req.TableID < 1 {
		return ValidationError{Field: "table_id", Message: "table id is required"}
	}
	if len(req.OrderItems) == 0 {
		return ValidationError{Field: "order_items", Message: "at least one order item is required"}
	}
	return ValidateOrderItemCreates(req.OrderItems)
}

// ValidateOrderItemCreates checks a list of requested line items.
func ValidateOrderItemCreates(items []OrderItemCreate) error {
	if len(items) == 0 {
		return ValidationError{Field: "order_items", Message: "at least one order item is required"}
	}
	for _, item := range items {
		if item.ItemID < 1 {
			return ValidationError{Field: "item_id", Message: "item id is required"}
		}
		if item.Quantity < 1 {
			return ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
		}
	}
	return nil
}

// Validate checks the partial order session update.
func (upd *OrderSessionUpdate) Validate() error {
	if upd.TotalAmount != nil && upd.TotalAmount.IsNegative() {
		return ValidationError{Field: "total_amount", Message: "total amount must not be negative"}
	}
	return nil
}

// Validate checks the partial order item update.
func (upd *OrderItemUpdate) Validate() error {
	if upd.Quantity != nil && *upd.Quantity < 1 {
		return ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return ValidationError{Field: "status", Message: "unknown item status"}
	}
	return nil
}
