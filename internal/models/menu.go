package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type MenuCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MenuOption is a selectable customization (size or milk). Disabled options
// still render, they just cannot be chosen.
type MenuOption struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Enabled bool            `json:"enable"`
}

type MenuAddOn struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Enabled bool            `json:"enable"`
}

type MenuItem struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	ImageURL           string          `json:"image_url"`
	Category           string          `json:"category"`
	BasePrice          decimal.Decimal `json:"base_price"`
	Sizes              []MenuOption    `json:"sizes"`
	MilkOptions        []MenuOption    `json:"milk_options"`
	SweetnessLevels    []string        `json:"sweetness_levels"`
	TemperatureOptions []string        `json:"temperature_options"`
	AddOns             []MenuAddOn     `json:"add_ons"`
	IsPopular          bool            `json:"is_popular"`
}

// An item with no sizes cannot be checked out; it renders as unavailable.
func (m *MenuItem) IsAvailable() bool {
	return len(m.Sizes) > 0
}

// Slugify derives a stable option/category id from a display name:
// lowercased, whitespace collapsed to hyphens. Repeated fetches of the same
// payload always produce the same ids.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
