// Package remoteconfig is the throttled gateway to the merchant's remotely
// managed flags: open/closed state, the checkout kill-switch, category
// visibility and per-option customization overrides. A config outage must
// degrade to "fully open for business", so every getter falls back to safe
// defaults and fetch failures are never surfaced to callers.
package remoteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"drink_order/internal/models"
)

// Minimum time between background fetches. ForceFetch bypasses it and
// resets the clock.
const fetchInterval = 30 * time.Minute

const (
	keyIsClose             = "is_close"
	keyCloseTitle          = "close_title"
	keyCloseMessage        = "close_message"
	keyDisableCheckout     = "is_disable_checkout"
	keyCategoryConfig      = "menu_category_config"
	keyCustomizationConfig = "menu_customization_config"
)

const (
	defaultCloseTitle   = "Store Temporarily Closed"
	defaultCloseMessage = "Sorry, we are temporarily closed. Please try again later."
)

type Service struct {
	baseURL    string
	httpClient *http.Client
	locale     func() string

	mu        sync.Mutex
	values    map[string]string
	lastFetch time.Time
}

func NewService(baseURL string, locale func() string) *Service {
	return &Service{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		locale: locale,
		values: make(map[string]string),
	}
}

// fetchConfig downloads and activates the latest config values. Without
// force, a fetch within the minimum interval of the last successful one is
// skipped. The throttle clock only advances on success, so a failed fetch
// retries on the next call.
func (s *Service) fetchConfig(ctx context.Context, force bool) {
	s.mu.Lock()
	if !force && time.Since(s.lastFetch) < fetchInterval {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	values, err := s.download(ctx)
	if err != nil {
		log.Printf("Failed to fetch remote config: %v", err)
		return
	}

	s.mu.Lock()
	s.values = values
	s.lastFetch = time.Now()
	s.mu.Unlock()
}

func (s *Service) download(ctx context.Context) (map[string]string, error) {
	u, err := url.Parse(s.baseURL + "/config")
	if err != nil {
		return nil, fmt.Errorf("failed to build config URL: %w", err)
	}
	q := u.Query()
	if s.locale != nil {
		q.Set("locale", s.locale())
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config service error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Accept {parameters:{...}} or a bare string map.
	var env struct {
		Parameters map[string]string `json:"parameters"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Parameters != nil {
		return env.Parameters, nil
	}
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("unexpected config response shape: %w", err)
	}
	return flat, nil
}

func (s *Service) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Service) boolValue(key string) bool {
	raw, ok := s.value(key)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

// MerchantStatus reads the currently activated open/closed flag and copy.
func (s *Service) MerchantStatus() models.MerchantStatus {
	status := models.MerchantStatus{
		IsClose:      s.boolValue(keyIsClose),
		CloseTitle:   defaultCloseTitle,
		CloseMessage: defaultCloseMessage,
	}
	if v, ok := s.value(keyCloseTitle); ok && v != "" {
		status.CloseTitle = v
	}
	if v, ok := s.value(keyCloseMessage); ok && v != "" {
		status.CloseMessage = v
	}
	return status
}

// CheckoutDisabled reports the checkout kill-switch; default is enabled.
func (s *Service) CheckoutDisabled() bool {
	return s.boolValue(keyDisableCheckout)
}

// MenuCategoryConfig returns the visible categories sorted by their explicit
// order. Nil means no config is present and all categories show unfiltered;
// config presence is itself the feature switch. A config whose entries are
// all hidden returns an empty non-nil slice, which hides every category.
func (s *Service) MenuCategoryConfig() []models.CategoryConfig {
	raw, ok := s.value(keyCategoryConfig)
	if !ok || raw == "" {
		return nil
	}

	var entries []models.CategoryConfig
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("Malformed menu category config, ignoring: %v", err)
		return nil
	}
	if entries == nil {
		return nil
	}

	visible := make([]models.CategoryConfig, 0, len(entries))
	for _, e := range entries {
		if e.IsShow {
			visible = append(visible, e)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})
	return visible
}

// MenuCustomizationConfig returns the per-option override layer, or nil when
// absent or malformed (the menu then passes through untouched).
func (s *Service) MenuCustomizationConfig() *models.CustomizationConfig {
	raw, ok := s.value(keyCustomizationConfig)
	if !ok || raw == "" {
		return nil
	}

	var cfg models.CustomizationConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log.Printf("Malformed menu customization config, ignoring: %v", err)
		return nil
	}
	return &cfg
}

// Check* variants fetch (throttled) before reading.

func (s *Service) CheckMerchantStatus(ctx context.Context) models.MerchantStatus {
	s.fetchConfig(ctx, false)
	return s.MerchantStatus()
}

func (s *Service) CheckCheckoutStatus(ctx context.Context) bool {
	s.fetchConfig(ctx, false)
	return s.CheckoutDisabled()
}

func (s *Service) CheckMenuCategoryConfig(ctx context.Context) []models.CategoryConfig {
	s.fetchConfig(ctx, false)
	return s.MenuCategoryConfig()
}

func (s *Service) CheckMenuCustomizationConfig(ctx context.Context) *models.CustomizationConfig {
	s.fetchConfig(ctx, false)
	return s.MenuCustomizationConfig()
}

// ForceFetch bypasses the throttle and resets its clock.
func (s *Service) ForceFetch(ctx context.Context) {
	s.fetchConfig(ctx, true)
}
