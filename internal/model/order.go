package model

import (
	"slices"
	"time"
)

// OrderStatus is the lifecycle state of a canteen order. Transitions
// move forward by convention only; the registry does not enforce them.
type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderConfirmed, OrderPreparing, OrderReady, OrderCompleted:
		return true
	}
	return false
}

// DefaultPaymentMethod is used when an order does not name one.
const DefaultPaymentMethod = "campus-wallet"

// OrderItem is one line of an order. Name is informational and echoed
// back as sent by the client.
type OrderItem struct {
	MenuItemID string `json:"menuItemId" form:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" form:"quantity" validate:"gte=1"`
	Name       string `json:"name,omitempty" form:"name"`
}

// Order is a placed canteen order. Total and EstimatedReady are computed
// once at creation time from the menu as it was then.
type Order struct {
	ID             string      `json:"id"`
	OrderNumber    string      `json:"orderNumber"`
	Items          []OrderItem `json:"items"`
	StudentName    string      `json:"studentName"`
	StudentID      string      `json:"studentId"`
	Total          float64     `json:"total"`
	PickupTime     string      `json:"pickupTime,omitempty"`
	PaymentMethod  string      `json:"paymentMethod"`
	Status         OrderStatus `json:"status"`
	EstimatedReady time.Time   `json:"estimatedReady"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Clone returns a deep copy safe to hand out of the registry.
func (o *Order) Clone() Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return c
}

// NewOrder carries the fields a student submits when placing an order.
type NewOrder struct {
	Items         []OrderItem `json:"items" validate:"dive"`
	StudentName   string      `json:"studentName"`
	StudentID     string      `json:"studentId"`
	PickupTime    string      `json:"pickupTime"`
	PaymentMethod string      `json:"paymentMethod"`
}

// OrderFilter narrows an order listing. Limit keeps only the most recent
// orders; zero means no limit.
type OrderFilter struct {
	StudentID string
	Limit     int
}
