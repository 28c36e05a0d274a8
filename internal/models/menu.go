package models

import "github.com/shopspring/decimal"

// MenuItem is a dish on the menu with a fixed-point decimal price.
type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	ImgPath     string          `json:"img_path,omitempty"`
}

// CreateMenuItemRequest is the body of POST /items/.
type CreateMenuItemRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available,omitempty"`
	ImgPath     string          `json:"img_path,omitempty"`
}

// Validate checks the create menu item request.
func (req *CreateMenuItemRequest) Validate() error {
	if req.Name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(req.Name) > 64 {
		return ValidationError{Field: "name", Message: "name must be at most 64 characters"}
	}
	if req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}

// MenuItemUpdate is the partial-update body of PUT /items/{id}.
type MenuItemUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// Validate checks the partial menu item update.
func (upd *MenuItemUpdate) Validate() error {
	if upd.Name != nil && (*upd.Name == "" || len(*upd.Name) > 64) {
		return ValidationError{Field: "name", Message: "name must be 1-64 characters"}
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}
