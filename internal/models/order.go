package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether an order in this status will make no further
// progress. Terminal orders stay in history but are no longer polled.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Progress maps the fulfillment pipeline onto a percentage for the UI
// progress bar. The backend may skip or regress states; we display whatever
// it reports.
func (s OrderStatus) Progress() int {
	switch s {
	case OrderPending:
		return 25
	case OrderConfirmed:
		return 50
	case OrderPreparing:
		return 75
	case OrderReady, OrderCompleted:
		return 100
	default:
		return 0
	}
}

func (s OrderStatus) DisplayText() string {
	switch s {
	case OrderPending:
		return "Order Received"
	case OrderConfirmed:
		return "Confirmed"
	case OrderPreparing:
		return "Preparing"
	case OrderReady:
		return "Ready for Pickup"
	case OrderCompleted:
		return "Completed"
	case OrderCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// SortPriority orders statuses by how urgently a customer cares about them.
func (s OrderStatus) SortPriority() int {
	switch s {
	case OrderReady:
		return 1
	case OrderPreparing:
		return 2
	case OrderConfirmed:
		return 3
	case OrderPending:
		return 4
	case OrderCompleted:
		return 5
	case OrderCancelled:
		return 6
	default:
		return 7
	}
}

// ParseOrderStatus normalizes a backend-reported status string; anything
// unrecognized or empty defaults to pending.
func ParseOrderStatus(raw string) OrderStatus {
	switch OrderStatus(raw) {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return OrderStatus(raw)
	default:
		return OrderPending
	}
}

// Order is created once at submission and immutable afterwards except for
// Status and EstimatedPickupTime, which the history tracker updates as the
// backend reports progress.
type Order struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	Items               []CartItem      `json:"items"`
	Customer            Customer        `json:"customer"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Total               decimal.Decimal `json:"total"`
	Status              OrderStatus     `json:"status"`
	EstimatedPickupTime time.Time       `json:"estimated_pickup_time"`
	CreatedAt           time.Time       `json:"created_at"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	PaymentSlipURL      string          `json:"payment_slip_url,omitempty"`
}

// OrderStatusSnapshot is the normalized result of a single status poll.
type OrderStatusSnapshot struct {
	ID                  string      `json:"id"`
	Status              OrderStatus `json:"status"`
	EstimatedPickupTime time.Time   `json:"estimated_pickup_time"`
}
