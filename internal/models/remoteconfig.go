package models

import "github.com/shopspring/decimal"

// MerchantStatus tells the storefront whether the counter is accepting
// orders at all, with the copy to show when it is not.
type MerchantStatus struct {
	IsClose      bool   `json:"is_close"`
	CloseTitle   string `json:"close_title"`
	CloseMessage string `json:"close_message"`
}

// CategoryConfig controls visibility and ordering of one menu category.
type CategoryConfig struct {
	Type   string `json:"type"`
	IsShow bool   `json:"is_show"`
	Order  int    `json:"order"`
}

// CustomizationOverride adjusts the price or availability of an upstream
// menu option. Type is matched against option names by fuzzy token keys, not
// exact string equality, because menu data and config are authored
// independently.
type CustomizationOverride struct {
	Type   string           `json:"type"`
	Price  *decimal.Decimal `json:"price"`
	Enable *bool            `json:"enable"`
}

// Enabled defaults to true unless the config explicitly says false.
func (o *CustomizationOverride) Enabled() bool {
	return o.Enable == nil || *o.Enable
}

// CustomizationConfig is the remote-config override layer for per-item
// customizations. Overrides only toggle or reprice options already present
// upstream; they never add or remove options.
type CustomizationConfig struct {
	Milk []CustomizationOverride `json:"milk"`
	Size []CustomizationOverride `json:"size"`
}
