package model

import "time"

// OrderStatus is the closed vocabulary of order lifecycle states.
type OrderStatus string

const (
	StatusPendingPickup    OrderStatus = "pending pickup"
	StatusMissedPickup     OrderStatus = "missed pickup"
	StatusPickingUp        OrderStatus = "picking up"
	StatusProcessing       OrderStatus = "processing"
	StatusReadyForDelivery OrderStatus = "ready for delivery"
	StatusMissedDelivery   OrderStatus = "missed delivery"
	StatusOutForDelivery   OrderStatus = "out for delivery"
	StatusCompleted        OrderStatus = "completed"
	StatusCancelled        OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPendingPickup, StatusMissedPickup, StatusPickingUp,
		StatusProcessing, StatusReadyForDelivery, StatusMissedDelivery,
		StatusOutForDelivery, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents one customer laundry order.
// PickupDate and DeliveryDate are date-only values stored as "2006-01-02".
type Order struct {
	ID           string      `gorm:"primaryKey;size:64" json:"id"`
	PhoneNumber  string      `gorm:"index;size:32;not null" json:"phone_number"`
	CustomerName string      `gorm:"size:128" json:"customer_name"`
	OrderStatus  OrderStatus `gorm:"size:32;not null" json:"order_status"`
	PickupDate   string      `gorm:"size:10" json:"pickup_date"`
	DeliveryDate string      `gorm:"size:10" json:"delivery_date"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
