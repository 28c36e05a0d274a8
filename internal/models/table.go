package models

// Table is a dining table. Availability is a denormalized reflection of
// whether an order is currently open on it; consistency with the order
// service is eventual and best-effort.
type Table struct {
	ID          int64 `json:"id"`
	IsAvailable bool  `json:"is_available"`
}

// TableAvailabilityUpdate is the body of PUT /tables/{id}/availability.
type TableAvailabilityUpdate struct {
	IsAvailable bool `json:"is_available"`
}
