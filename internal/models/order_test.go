package models

import (
	"testing"
)

func TestValidateItemTransitionExhaustive(t *testing.T) {
	allowed := map[OrderItemStatus]map[OrderItemStatus]bool{
		ItemPending:   {ItemReceived: true, ItemCanceled: true},
		ItemReceived:  {ItemCompleted: true},
		ItemCompleted: {},
		ItemCanceled:  {},
	}

	statuses := []OrderItemStatus{ItemPending, ItemReceived, ItemCompleted, ItemCanceled}

	for _, from := range statuses {
		for _, to := range statuses {
			err := ValidateItemTransition(from, to)
			if allowed[from][to] {
				if err != nil {
					t.Errorf("ValidateItemTransition(%s, %s) = %v, want nil", from, to, err)
				}
				continue
			}
			if err == nil {
				t.Errorf("ValidateItemTransition(%s, %s) = nil, want error", from, to)
				continue
			}
			transErr, ok := err.(*InvalidTransitionError)
			if !ok {
				t.Errorf("ValidateItemTransition(%s, %s) error type = %T, want *InvalidTransitionError", from, to, err)
				continue
			}
			if transErr.From != string(from) || transErr.To != string(to) {
				t.Errorf("InvalidTransitionError = {%s %s}, want {%s %s}", transErr.From, transErr.To, from, to)
			}
		}
	}
}

func TestValidateOrderTransition(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{OrderOpening, OrderClosed, false},
		{OrderOpening, OrderCanceled, false},
		{OrderOpening, OrderOpening, true},
		{OrderClosed, OrderOpening, true},
		{OrderClosed, OrderCanceled, true},
		{OrderCanceled, OrderClosed, true},
		{OrderCanceled, OrderOpening, true},
	}

	for _, tt := range tests {
		err := ValidateOrderTransition(tt.from, tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOrderTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}

func TestRoleMayTransition(t *testing.T) {
	tests := []struct {
		name string
		role StaffRole
		to   OrderItemStatus
		want bool
	}{
		{"chef may receive", RoleChef, ItemReceived, true},
		{"chef may complete", RoleChef, ItemCompleted, true},
		{"manager may receive", RoleManager, ItemReceived, true},
		{"manager may complete", RoleManager, ItemCompleted, true},
		{"waiter may not receive", RoleWaiter, ItemReceived, false},
		{"waiter may not complete", RoleWaiter, ItemCompleted, false},
		{"waiter may cancel", RoleWaiter, ItemCanceled, true},
		{"chef may cancel", RoleChef, ItemCanceled, true},
		{"manager may cancel", RoleManager, ItemCanceled, true},
		{"unknown role may not cancel", StaffRole("cook"), ItemCanceled, false},
		{"nobody sets pending", RoleManager, ItemPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleMayTransition(tt.role, tt.to); got != tt.want {
				t.Errorf("RoleMayTransition(%s, %s) = %v, want %v", tt.role, tt.to, got, tt.want)
			}
		})
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	note := "no onions"
	tests := []struct {
		name    string
		req     *CreateOrderRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: &CreateOrderRequest{
				TableID: 3,
				OrderItems: []OrderItemCreate{
					{ItemID: 1, Quantity: 2, Note: &note},
					{ItemID: 2, Quantity: 1},
				},
			},
			wantErr: false,
		},
		{
			name:    "missing table id",
			req:     &CreateOrderRequest{OrderItems: []OrderItemCreate{{ItemID: 1, Quantity: 1}}},
			wantErr: true,
		},
		{
			name:    "empty items",
			req:     &CreateOrderRequest{TableID: 3},
			wantErr: true,
		},
		{
			name: "zero quantity",
			req: &CreateOrderRequest{
				TableID:    3,
				OrderItems: []OrderItemCreate{{ItemID: 1, Quantity: 0}},
			},
			wantErr: true,
		},
		{
			name: "missing item id",
			req: &CreateOrderRequest{
				TableID:    3,
				OrderItems: []OrderItemCreate{{Quantity: 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderItemUpdateValidate(t *testing.T) {
	badQty := 0
	goodQty := 2
	badStatus := OrderItemStatus("cooked")
	goodStatus := ItemReceived

	tests := []struct {
		name    string
		upd     *OrderItemUpdate
		wantErr bool
	}{
		{"empty update", &OrderItemUpdate{}, false},
		{"valid quantity", &OrderItemUpdate{Quantity: &goodQty}, false},
		{"zero quantity", &OrderItemUpdate{Quantity: &badQty}, true},
		{"valid status", &OrderItemUpdate{Status: &goodStatus}, false},
		{"unknown status", &OrderItemUpdate{Status: &badStatus}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.upd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
