package backend

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StringID decodes an id that the backend sends either as a JSON string or
// as a number.
type StringID string

func (s *StringID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = StringID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = StringID(n.String())
	return nil
}

// RawCategory is one entry of the category->items menu payload.
type RawCategory struct {
	Category string        `json:"category"`
	Items    []RawMenuItem `json:"items"`
}

// RawMenuItem is an upstream menu item before normalization. Customization
// values stay raw because backends vary both the key casing (Sizes vs sizes)
// and occasionally the value shapes; the normalizer decodes them leniently.
type RawMenuItem struct {
	ID             StringID                   `json:"id"`
	Name           string                     `json:"name"`
	Description    string                     `json:"description"`
	ImageURL       string                     `json:"image_url"`
	BasePrice      *decimal.Decimal           `json:"base_price"`
	Category       string                     `json:"category"`
	Customizations map[string]json.RawMessage `json:"customizations"`
	Popular        bool                       `json:"popular"`
}

// Order submission payload, field names fixed by the backend contract.
type OrderRequest struct {
	CustomerID    string             `json:"customer_id"`
	CustomerInfo  CustomerInfo       `json:"customer_info"`
	Items         []OrderItemRequest `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	AttachmentURL string             `json:"attachment_url,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

type CustomerInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	TableNumber string `json:"table_number,omitempty"`
}

type OrderItemRequest struct {
	MenuID         int            `json:"menu_id"`
	Name           string         `json:"name"`
	ImageURL       string         `json:"image_url"`
	Quantity       int            `json:"quantity"`
	Price          float64        `json:"price"`
	Customizations Customizations `json:"customizations"`
}

type Customizations struct {
	Size        string   `json:"size"`
	Milk        string   `json:"milk"`
	Sweetness   string   `json:"sweetness"`
	Temperature string   `json:"temperature"`
	Extras      []string `json:"extras"`
}

// OrderPayload is the canonical order-creation response after envelope
// normalization. A missing ID means the backend did not persist the order.
type OrderPayload struct {
	ID                  StringID `json:"id"`
	Status              string   `json:"status"`
	EstimatedPickupTime string   `json:"estimated_pickup_time"`
	CreatedAt           string   `json:"created_at"`
	PaymentMethod       string   `json:"payment_method"`
}

// orderEnvelope accepts both {id,...} and {success,data:{id,...}} shapes.
type orderEnvelope struct {
	Success bool          `json:"success"`
	Data    *OrderPayload `json:"data"`
	OrderPayload
}

func (e *orderEnvelope) payload() *OrderPayload {
	if e.Data != nil && e.Data.ID != "" {
		return e.Data
	}
	return &e.OrderPayload
}

// StatusPayload is a normalized status-poll response.
type StatusPayload struct {
	ID                  StringID         `json:"id"`
	Status              string           `json:"status"`
	EstimatedPickupTime string           `json:"estimated_pickup_time"`
	Items               []StatusLineItem `json:"items"`
}

type StatusLineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type statusEnvelope struct {
	Success bool           `json:"success"`
	Data    *StatusPayload `json:"data"`
	StatusPayload
}

func (e *statusEnvelope) payload() *StatusPayload {
	if e.Data != nil && (e.Data.ID != "" || e.Data.Status != "") {
		return e.Data
	}
	return &e.StatusPayload
}

// OrderHistoryItem is one order from the customer-orders endpoint. Field
// coverage is deliberately loose; the history endpoint has drifted over time
// and decoding must survive missing pieces.
type OrderHistoryItem struct {
	ID                  StringID          `json:"id"`
	UserID              string            `json:"user_id"`
	Items               []HistoryLineItem `json:"items"`
	CustomerInfo        *HistoryCustomer  `json:"customer_info"`
	Total               decimal.Decimal   `json:"total"`
	Status              string            `json:"status"`
	EstimatedPickupTime string            `json:"estimated_pickup_time"`
	CreatedAt           string            `json:"created_at"`
	PaymentMethod       string            `json:"payment_method"`
}

type HistoryCustomer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TableNumber string `json:"table_number"`
}

type HistoryLineItem struct {
	MenuID         StringID        `json:"menu_id"`
	Name           string          `json:"name"`
	ImageURL       string          `json:"image_url"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Customizations *Customizations `json:"customizations"`
}
