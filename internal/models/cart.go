package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartItem is one customized, quantity-bearing line in the cart. Its
// TotalPrice always equals the unit price locked at add time multiplied by
// the quantity; menu price changes after the item was added never alter it.
type CartItem struct {
	ID          string          `json:"id"`
	MenuID      string          `json:"menu_id"`
	MenuName    string          `json:"menu_name"`
	ImageURL    string          `json:"image_url"`
	Size        MenuOption      `json:"size"`
	Milk        MenuOption      `json:"milk"`
	Sweetness   string          `json:"sweetness"`
	Temperature string          `json:"temperature"`
	AddOns      []MenuAddOn     `json:"add_ons"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// UnitPrice is the implied per-unit price of the line.
func (i *CartItem) UnitPrice() decimal.Decimal {
	if i.Quantity <= 0 {
		return i.TotalPrice
	}
	return i.TotalPrice.Div(decimal.NewFromInt(int64(i.Quantity)))
}

type Customer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TableNumber string `json:"table_number,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (c *Customer) HasTableNumber() bool {
	return strings.TrimSpace(c.TableNumber) != ""
}

type CartState struct {
	Items    []CartItem `json:"items"`
	Customer *Customer  `json:"customer"`
	IsOpen   bool       `json:"is_open"`
}

func (s *CartState) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

func (s *CartState) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}
