package menu

import (
	"encoding/json"
	"strings"

	"drink_order/internal/models"
	"drink_order/pkg/backend"

	"github.com/shopspring/decimal"
)

// Normalize converts the raw category->items backend payload into the
// canonical menu model, applying remote-config overrides to size and milk
// options when a config is given. Categories come out in first-seen order.
// The menu service passes a nil config here and overlays both the override
// layer and the category filter per call, so a config change never requires
// a refetch.
func Normalize(raw []backend.RawCategory, cfg *models.CustomizationConfig) ([]models.MenuCategory, []models.MenuItem) {
	categories := make([]models.MenuCategory, 0, len(raw))
	items := make([]models.MenuItem, 0)
	seen := make(map[string]struct{})

	for _, category := range raw {
		if _, dup := seen[category.Category]; !dup && category.Category != "" {
			seen[category.Category] = struct{}{}
			categories = append(categories, models.MenuCategory{
				ID:          models.Slugify(category.Category),
				Name:        category.Category,
				Description: "Premium " + strings.ToLower(category.Category) + " selections",
			})
		}
		for i := range category.Items {
			items = append(items, NormalizeItem(&category.Items[i], category.Category, cfg))
		}
	}

	return categories, items
}

// NormalizeItem converts one raw menu item. Every list degrades to an empty
// slice, never nil, so consumers can always iterate.
func NormalizeItem(raw *backend.RawMenuItem, category string, cfg *models.CustomizationConfig) models.MenuItem {
	custom := normalizeCustomizationKeys(raw.Customizations)

	sizeNames := stringList(custom, "sizes", "size")
	sizes := make([]models.MenuOption, 0, len(sizeNames))
	for i, name := range sizeNames {
		name = strings.TrimSpace(name)
		sizes = append(sizes, models.MenuOption{
			ID:      models.Slugify(name),
			Name:    name,
			Price:   SizePriceModifier(name, i),
			Enabled: true,
		})
	}

	milkNames := stringList(custom, "milk")
	milkOptions := make([]models.MenuOption, 0, len(milkNames))
	for _, name := range milkNames {
		name = strings.TrimSpace(name)
		milkOptions = append(milkOptions, models.MenuOption{
			ID:      models.Slugify(name),
			Name:    name,
			Price:   MilkPrice(name),
			Enabled: true,
		})
	}

	extraNames := stringList(custom, "extras", "syrups")
	addOns := make([]models.MenuAddOn, 0, len(extraNames))
	for _, name := range extraNames {
		name = strings.TrimSpace(name)
		addOns = append(addOns, models.MenuAddOn{
			ID:      models.Slugify(name),
			Name:    name,
			Price:   defaultAddOnPrice,
			Enabled: true,
		})
	}
	if len(addOns) == 0 {
		addOns = fallbackAddOns()
	}

	sweetness := stringList(custom, "sweetness", "sweet")
	if sweetness == nil {
		sweetness = []string{}
	}
	temperature := stringList(custom, "temperature")
	if temperature == nil {
		temperature = []string{"Iced"}
	}

	if cfg != nil {
		sizes = applyOverrides(sizes, cfg.Size)
		milkOptions = applyOverrides(milkOptions, cfg.Milk)
	}

	item := models.MenuItem{
		ID:                 string(raw.ID),
		Name:               raw.Name,
		Description:        raw.Description,
		ImageURL:           raw.ImageURL,
		Category:           strings.ToLower(category),
		BasePrice:          defaultBasePrice,
		Sizes:              sizes,
		MilkOptions:        milkOptions,
		SweetnessLevels:    sweetness,
		TemperatureOptions: temperature,
		AddOns:             addOns,
		IsPopular:          raw.Popular,
	}
	if raw.BasePrice != nil {
		item.BasePrice = *raw.BasePrice
	}
	if item.Description == "" {
		item.Description = "Delicious " + raw.Name
	}
	if item.ImageURL == "" {
		item.ImageURL = "/images/" + models.Slugify(raw.Name) + ".svg"
	}
	if item.Category == "" {
		item.Category = "specialty"
	}
	return item
}

// applyOverrides retoggles/reprices options via fuzzy token matching. The
// override map is keyed by every token key of every configured type (later
// config entries win on key collisions); each option takes the first
// override found along its own key order.
func applyOverrides(options []models.MenuOption, overrides []models.CustomizationOverride) []models.MenuOption {
	if len(overrides) == 0 {
		return options
	}

	byKey := make(map[string]*models.CustomizationOverride)
	for i := range overrides {
		o := &overrides[i]
		if o.Type == "" {
			continue
		}
		for _, key := range CustomizationTokens(o.Type) {
			byKey[key] = o
		}
	}

	for i := range options {
		var match *models.CustomizationOverride
		for _, key := range CustomizationTokens(options[i].Name) {
			if o, ok := byKey[key]; ok {
				match = o
				break
			}
		}
		if match == nil {
			continue
		}
		if match.Price != nil {
			options[i].Price = *match.Price
		}
		options[i].Enabled = match.Enabled()
	}
	return options
}

func fallbackAddOns() []models.MenuAddOn {
	return []models.MenuAddOn{
		{ID: "extra-shot", Name: "Extra Shot", Price: decimal.NewFromInt(15), Enabled: true},
		{ID: "whipped-cream", Name: "Whipped Cream", Price: decimal.NewFromInt(15), Enabled: true},
		{ID: "extra-syrup", Name: "Extra Syrup", Price: decimal.Zero, Enabled: true},
	}
}

// normalizeCustomizationKeys lowercases the customization map keys so
// backends that vary the casing of Sizes/sizes/Size all decode the same.
func normalizeCustomizationKeys(raw map[string]json.RawMessage) map[string]json.RawMessage {
	if raw == nil {
		return nil
	}
	normalized := make(map[string]json.RawMessage, len(raw))
	for key, value := range raw {
		normalized[strings.ToLower(key)] = value
	}
	return normalized
}

// stringList returns the first alias key that decodes as a string array.
// Missing keys and non-array values degrade to nil.
func stringList(custom map[string]json.RawMessage, keys ...string) []string {
	for _, key := range keys {
		raw, ok := custom[key]
		if !ok {
			continue
		}
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil || values == nil {
			continue
		}
		return values
	}
	return nil
}
