// Package orders submits orders to the backend and tracks their lifecycle.
// Submission failures are surfaced to the caller (an order must never look
// placed unless the backend confirmed it); status polls degrade to nil so
// the tracker can fall back to cached data.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"drink_order/internal/identity"
	"drink_order/internal/models"
	"drink_order/pkg/backend"

	"github.com/shopspring/decimal"
)

// ErrOrderCreationFailed means the transport succeeded but the response
// carried no order id, i.e. the backend did not actually persist the order.
var ErrOrderCreationFailed = errors.New("order creation failed: no order id returned")

const (
	// Contact email domain synthesized when no email is collected.
	contactEmailDomain = "customer.timing.com"

	pickupFallback       = 15 * time.Minute
	statusPickupFallback = 10 * time.Minute
)

type Service struct {
	backend  *backend.Client
	identity *identity.Store
}

func NewService(backendClient *backend.Client, identityStore *identity.Store) *Service {
	return &Service{backend: backendClient, identity: identityStore}
}

// Submit builds and sends the order request and normalizes the response into
// an Order. Network and HTTP failures propagate; the caller keeps the cart
// intact so the user can retry.
func (s *Service) Submit(ctx context.Context, items []models.CartItem, customer models.Customer, paymentMethod, userID, attachmentURL string) (*models.Order, error) {
	if userID == "" {
		userID = s.identity.GetOrCreateCustomerID(ctx)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}

	if paymentMethod != "cash" {
		paymentMethod = "qr"
	}

	req := backend.OrderRequest{
		CustomerID: userID,
		CustomerInfo: backend.CustomerInfo{
			Name:  customer.Name,
			Email: synthesizeEmail(customer.Name),
		},
		Items:         make([]backend.OrderItemRequest, 0, len(items)),
		Total:         total.InexactFloat64(),
		PaymentMethod: paymentMethod,
		AttachmentURL: attachmentURL,
	}
	if phone := strings.TrimSpace(customer.Phone); phone != "" {
		req.CustomerInfo.Phone = phone
	}
	if table := strings.TrimSpace(customer.TableNumber); table != "" {
		req.CustomerInfo.TableNumber = table
	}
	if notes := strings.TrimSpace(customer.Notes); notes != "" {
		req.Notes = notes
	}

	for _, item := range items {
		menuID, _ := strconv.Atoi(item.MenuID)
		extras := make([]string, 0, len(item.AddOns))
		for _, addOn := range item.AddOns {
			extras = append(extras, addOn.Name)
		}
		req.Items = append(req.Items, backend.OrderItemRequest{
			MenuID:   menuID,
			Name:     item.MenuName,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
			Price:    item.UnitPrice().InexactFloat64(),
			Customizations: backend.Customizations{
				Size:        item.Size.Name,
				Milk:        item.Milk.Name,
				Sweetness:   item.Sweetness,
				Temperature: item.Temperature,
				Extras:      extras,
			},
		})
	}

	payload, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if payload.ID == "" {
		return nil, ErrOrderCreationFailed
	}

	order := &models.Order{
		ID:                  string(payload.ID),
		UserID:              userID,
		Items:               append([]models.CartItem(nil), items...),
		Customer:            customer,
		Subtotal:            total,
		Total:               total,
		Status:              models.ParseOrderStatus(payload.Status),
		EstimatedPickupTime: parseTime(payload.EstimatedPickupTime, time.Now().Add(pickupFallback)),
		CreatedAt:           parseTime(payload.CreatedAt, time.Now()),
		PaymentMethod:       paymentMethod,
		PaymentSlipURL:      attachmentURL,
	}
	if payload.PaymentMethod != "" {
		order.PaymentMethod = payload.PaymentMethod
	}
	return order, nil
}

// Status polls one order's live status. Any failure returns nil so callers
// can degrade to cached data instead of erroring the UI.
func (s *Service) Status(ctx context.Context, orderID string) *models.OrderStatusSnapshot {
	payload, err := s.backend.OrderStatus(ctx, orderID)
	if err != nil {
		log.Printf("Failed to fetch status for order %s: %v", orderID, err)
		return nil
	}

	snapshot := &models.OrderStatusSnapshot{
		ID:                  string(payload.ID),
		Status:              models.ParseOrderStatus(payload.Status),
		EstimatedPickupTime: parseTime(payload.EstimatedPickupTime, time.Now().Add(statusPickupFallback)),
	}
	if snapshot.ID == "" {
		snapshot.ID = orderID
	}
	return snapshot
}

// OrdersForCustomer fetches the customer's order history from the backend.
// Transport failure returns an error so the tracker can distinguish "server
// says empty" from "server unreachable".
func (s *Service) OrdersForCustomer(ctx context.Context, userID string) ([]models.Order, error) {
	raw, err := s.backend.CustomerOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer orders: %w", err)
	}

	orders := make([]models.Order, 0, len(raw))
	for _, item := range raw {
		orders = append(orders, convertHistoryOrder(item, userID))
	}
	return orders, nil
}

// convertHistoryOrder rebuilds an Order from the loosely shaped history
// endpoint, defaulting every missing piece so old records still render.
func convertHistoryOrder(raw backend.OrderHistoryItem, userID string) models.Order {
	order := models.Order{
		ID:                  string(raw.ID),
		UserID:              raw.UserID,
		Items:               convertHistoryItems(raw.Items),
		Customer:            models.Customer{Name: "Unknown Customer"},
		Subtotal:            raw.Total,
		Total:               raw.Total,
		Status:              models.ParseOrderStatus(raw.Status),
		EstimatedPickupTime: parseTime(raw.EstimatedPickupTime, time.Now().Add(pickupFallback)),
		CreatedAt:           parseTime(raw.CreatedAt, time.Now()),
		PaymentMethod:       raw.PaymentMethod,
	}
	if order.UserID == "" {
		order.UserID = userID
	}
	if raw.CustomerInfo != nil {
		order.Customer = models.Customer{
			Name:        raw.CustomerInfo.Name,
			Phone:       raw.CustomerInfo.Phone,
			TableNumber: raw.CustomerInfo.TableNumber,
		}
		if order.Customer.Name == "" {
			order.Customer.Name = "Unknown Customer"
		}
	}
	return order
}

func convertHistoryItems(raw []backend.HistoryLineItem) []models.CartItem {
	items := make([]models.CartItem, 0, len(raw))
	for i, line := range raw {
		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		name := line.Name
		if name == "" {
			name = "Menu #" + string(line.MenuID)
		}

		item := models.CartItem{
			ID:          fmt.Sprintf("item-%d", i),
			MenuID:      string(line.MenuID),
			MenuName:    name,
			ImageURL:    line.ImageURL,
			Size:        models.MenuOption{ID: "medium", Name: "Medium", Price: decimal.Zero, Enabled: true},
			Milk:        models.MenuOption{ID: "regular-milk", Name: "Regular Milk", Price: decimal.Zero, Enabled: true},
			Sweetness:   "50%",
			Temperature: "Hot",
			AddOns:      []models.MenuAddOn{},
			Quantity:    quantity,
			TotalPrice:  line.Price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		if item.ImageURL == "" {
			item.ImageURL = "/images/" + models.Slugify(name) + ".svg"
		}
		if line.Customizations != nil {
			c := line.Customizations
			if c.Size != "" {
				item.Size = models.MenuOption{ID: models.Slugify(c.Size), Name: c.Size, Price: decimal.Zero, Enabled: true}
			}
			if c.Milk != "" {
				item.Milk.Name = c.Milk
			}
			if c.Sweetness != "" {
				item.Sweetness = c.Sweetness
			}
			if c.Temperature != "" {
				item.Temperature = c.Temperature
			}
			for _, extra := range c.Extras {
				item.AddOns = append(item.AddOns, models.MenuAddOn{
					ID:      models.Slugify(extra),
					Name:    extra,
					Price:   decimal.NewFromFloat(0.5),
					Enabled: true,
				})
			}
		}
		items = append(items, item)
	}
	return items
}

// synthesizeEmail derives the contact email the backend requires from the
// customer's name: lowercased, spaces to dots, fixed domain.
func synthesizeEmail(name string) string {
	local := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), ".")
	return local + "@" + contactEmailDomain
}

func parseTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return fallback
}
