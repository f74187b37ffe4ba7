package menu

import (
	"encoding/json"
	"testing"

	"drink_order/internal/models"
	"drink_order/pkg/backend"

	"github.com/shopspring/decimal"
)

func rawLatte() *backend.RawMenuItem {
	return &backend.RawMenuItem{
		ID:   backend.StringID("3"),
		Name: "Matcha Latte",
		Customizations: map[string]json.RawMessage{
			"Sizes":       json.RawMessage(`["Small (12oz)","Medium (16oz)","Large (20oz)"]`),
			"Milk":        json.RawMessage(`["Normal Milk","Oat Milk","Almond Milk"]`),
			"Sweetness":   json.RawMessage(`["0%","50%","100%"]`),
			"Temperature": json.RawMessage(`["Hot","Iced"]`),
		},
	}
}

func TestNormalizeItemCaseInsensitiveKeys(t *testing.T) {
	item := NormalizeItem(rawLatte(), "Tea", nil)

	if len(item.Sizes) != 3 {
		t.Fatalf("expected 3 sizes from capitalized key, got %d", len(item.Sizes))
	}
	if len(item.MilkOptions) != 3 {
		t.Fatalf("expected 3 milk options, got %d", len(item.MilkOptions))
	}
	if got := item.Sizes[2]; got.Name != "Large (20oz)" {
		t.Fatalf("unexpected large size option: %+v", got)
	}
	if !item.Sizes[2].Price.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("expected large upcharge 2.5, got %s", item.Sizes[2].Price)
	}
}

func TestNormalizeItemDefaults(t *testing.T) {
	raw := &backend.RawMenuItem{ID: backend.StringID("9"), Name: "Mystery Drink"}
	item := NormalizeItem(raw, "", nil)

	if item.Category != "specialty" {
		t.Fatalf("expected default category specialty, got %q", item.Category)
	}
	if !item.BasePrice.Equal(decimal.NewFromFloat(4.5)) {
		t.Fatalf("expected default base price 4.5, got %s", item.BasePrice)
	}
	if item.Description == "" || item.ImageURL == "" {
		t.Fatalf("expected synthesized description and image, got %+v", item)
	}
	if item.Sizes == nil || item.MilkOptions == nil || item.SweetnessLevels == nil || item.TemperatureOptions == nil {
		t.Fatalf("option lists must never be nil: %+v", item)
	}
	if len(item.AddOns) == 0 {
		t.Fatalf("expected fallback add-ons when none are listed")
	}
	if len(item.TemperatureOptions) != 1 || item.TemperatureOptions[0] != "Iced" {
		t.Fatalf("expected default temperature [Iced], got %v", item.TemperatureOptions)
	}
}

func TestNormalizeItemAppliesOverrides(t *testing.T) {
	price := decimal.NewFromInt(10)
	disabled := false
	cfg := &models.CustomizationConfig{
		Milk: []models.CustomizationOverride{
			{Type: "oat", Price: &price},
			{Type: "almond", Enable: &disabled},
		},
	}

	item := NormalizeItem(rawLatte(), "Tea", cfg)

	var oat, almond, normal *models.MenuOption
	for i := range item.MilkOptions {
		switch item.MilkOptions[i].Name {
		case "Oat Milk":
			oat = &item.MilkOptions[i]
		case "Almond Milk":
			almond = &item.MilkOptions[i]
		case "Normal Milk":
			normal = &item.MilkOptions[i]
		}
	}
	if oat == nil || almond == nil || normal == nil {
		t.Fatalf("missing milk options: %+v", item.MilkOptions)
	}
	if !oat.Price.Equal(price) || !oat.Enabled {
		t.Fatalf("oat override not applied: %+v", oat)
	}
	if almond.Enabled {
		t.Fatalf("almond should be disabled by override: %+v", almond)
	}
	if !normal.Enabled {
		t.Fatalf("unmatched option must stay enabled: %+v", normal)
	}
}

func TestNormalizeItemLaterOverrideWins(t *testing.T) {
	first := decimal.NewFromInt(5)
	second := decimal.NewFromInt(8)
	cfg := &models.CustomizationConfig{
		Milk: []models.CustomizationOverride{
			{Type: "oat", Price: &first},
			{Type: "oat milk", Price: &second},
		},
	}

	item := NormalizeItem(rawLatte(), "Tea", cfg)
	for _, opt := range item.MilkOptions {
		if opt.Name == "Oat Milk" && !opt.Price.Equal(second) {
			t.Fatalf("later config entry must win, got price %s", opt.Price)
		}
	}
}

func TestNormalizeCategoriesFirstSeenOrder(t *testing.T) {
	raw := []backend.RawCategory{
		{Category: "Tea", Items: []backend.RawMenuItem{*rawLatte()}},
		{Category: "Coffee"},
		{Category: "Tea"},
	}

	categories, items := Normalize(raw, nil)
	if len(categories) != 2 {
		t.Fatalf("expected duplicate categories collapsed, got %d", len(categories))
	}
	if categories[0].ID != "tea" || categories[1].ID != "coffee" {
		t.Fatalf("expected first-seen order [tea coffee], got %+v", categories)
	}
	if len(items) != 1 || items[0].Category != "tea" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
