package menu

import (
	"context"
	"log"
	"time"

	"drink_order/internal/models"
	"drink_order/internal/remoteconfig"
	"drink_order/internal/storage"
	"drink_order/pkg/backend"
)

const cacheKey = "menu_cache"

// cachedMenu is the persisted cache entry; FetchedAt drives expiry since the
// store itself has no TTL semantics.
type cachedMenu struct {
	Categories []models.MenuCategory `json:"categories"`
	Items      []models.MenuItem     `json:"items"`
	FetchedAt  time.Time             `json:"fetched_at"`
}

type Service struct {
	backend  *backend.Client
	config   *remoteconfig.Service
	cache    storage.Store
	cacheTTL time.Duration
}

func NewService(backendClient *backend.Client, config *remoteconfig.Service, cache storage.Store, cacheTTL time.Duration) *Service {
	return &Service{
		backend:  backendClient,
		config:   config,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// GetMenu returns the normalized, override-applied, category-filtered menu.
// The cache holds the pre-override menu; customization overrides and the
// category filter are applied per call with the current config, so a config
// change (including a forced refetch) takes effect without waiting out the
// cache TTL. A backend failure yields an empty menu rather than an error; a
// stale or corrupt cache entry is ignored.
func (s *Service) GetMenu(ctx context.Context) ([]models.MenuCategory, []models.MenuItem) {
	cfg := s.config.CheckMenuCustomizationConfig(ctx)

	if cached, ok := s.fromCache(ctx); ok {
		return s.filterByCategoryConfig(ctx, cached.Categories, applyCustomizationConfig(cached.Items, cfg))
	}

	raw, err := s.backend.Menu(ctx)
	if err != nil {
		log.Printf("Failed to fetch menu: %v", err)
		return []models.MenuCategory{}, []models.MenuItem{}
	}

	categories, items := Normalize(raw, nil)

	if err := s.cache.Set(ctx, cacheKey, cachedMenu{
		Categories: categories,
		Items:      items,
		FetchedAt:  time.Now(),
	}); err != nil {
		log.Printf("Failed to cache menu: %v", err)
	}

	return s.filterByCategoryConfig(ctx, categories, applyCustomizationConfig(items, cfg))
}

// GetMenuItem fetches and normalizes one item. Nil means not found or
// unreachable; detail pages degrade the same way in both cases.
func (s *Service) GetMenuItem(ctx context.Context, id string) *models.MenuItem {
	raw, err := s.backend.MenuItem(ctx, id)
	if err != nil {
		log.Printf("Failed to fetch menu item %s: %v", id, err)
		return nil
	}
	if raw == nil {
		return nil
	}

	cfg := s.config.CheckMenuCustomizationConfig(ctx)
	item := NormalizeItem(raw, raw.Category, cfg)
	return &item
}

func (s *Service) fromCache(ctx context.Context) (*cachedMenu, bool) {
	if s.cacheTTL <= 0 {
		return nil, false
	}
	var cached cachedMenu
	if err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false
	}
	if time.Since(cached.FetchedAt) > s.cacheTTL {
		return nil, false
	}
	return &cached, true
}

// applyCustomizationConfig overlays the current override config onto copies
// of the items' option lists, leaving the cached originals untouched.
func applyCustomizationConfig(items []models.MenuItem, cfg *models.CustomizationConfig) []models.MenuItem {
	if cfg == nil {
		return items
	}
	out := make([]models.MenuItem, len(items))
	for i, item := range items {
		item.Sizes = applyOverrides(append([]models.MenuOption(nil), item.Sizes...), cfg.Size)
		item.MilkOptions = applyOverrides(append([]models.MenuOption(nil), item.MilkOptions...), cfg.Milk)
		out[i] = item
	}
	return out
}

// filterByCategoryConfig hides categories the config does not list and
// reorders the rest by the configured order. A nil config means no filtering;
// a present config that lists nothing visible hides everything.
func (s *Service) filterByCategoryConfig(ctx context.Context, categories []models.MenuCategory, items []models.MenuItem) ([]models.MenuCategory, []models.MenuItem) {
	cfg := s.config.CheckMenuCategoryConfig(ctx)
	if cfg == nil {
		return categories, items
	}

	byID := make(map[string]models.MenuCategory, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	visible := make([]models.MenuCategory, 0, len(cfg))
	visibleIDs := make(map[string]struct{}, len(cfg))
	for _, entry := range cfg {
		id := models.Slugify(entry.Type)
		cat, ok := byID[id]
		if !ok {
			continue
		}
		visible = append(visible, cat)
		visibleIDs[id] = struct{}{}
	}

	filteredItems := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if _, ok := visibleIDs[models.Slugify(item.Category)]; ok {
			filteredItems = append(filteredItems, item)
		}
	}

	return visible, filteredItems
}
