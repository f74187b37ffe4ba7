package handlers

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"drink_order/internal/cart"
	"drink_order/internal/locale"
	"drink_order/internal/menu"
	"drink_order/internal/models"
	"drink_order/internal/orders"
	"drink_order/internal/remoteconfig"
	"drink_order/pkg/upload"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	menuService  *menu.Service
	cartEngine   *cart.Engine
	orderService *orders.Service
	tracker      *orders.Tracker
	config       *remoteconfig.Service
	locale       *locale.Store
	uploader     upload.Uploader
}

func NewAPIHandler(
	menuService *menu.Service,
	cartEngine *cart.Engine,
	orderService *orders.Service,
	tracker *orders.Tracker,
	config *remoteconfig.Service,
	localeStore *locale.Store,
	uploader upload.Uploader,
) *APIHandler {
	return &APIHandler{
		menuService:  menuService,
		cartEngine:   cartEngine,
		orderService: orderService,
		tracker:      tracker,
		config:       config,
		locale:       localeStore,
		uploader:     uploader,
	}
}

// Menu endpoints

func (h *APIHandler) GetMenu(c *gin.Context) {
	categories, items := h.menuService.GetMenu(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"items":      items,
	})
}

func (h *APIHandler) GetMenuItem(c *gin.Context) {
	item := h.menuService.GetMenuItem(c.Request.Context(), c.Param("id"))
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Cart endpoints

func (h *APIHandler) GetCart(c *gin.Context) {
	state := h.cartEngine.State()
	c.JSON(http.StatusOK, gin.H{
		"items":       state.Items,
		"customer":    state.Customer,
		"is_open":     state.IsOpen,
		"total_items": state.TotalItems(),
		"total_price": state.TotalPrice(),
	})
}

func (h *APIHandler) AddCartItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.MenuID == "" || item.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_id and a positive quantity are required"})
		return
	}

	h.cartEngine.AddItem(c.Request.Context(), item)
	h.GetCart(c)
}

func (h *APIHandler) UpdateCartItemQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.cartEngine.SetQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	h.GetCart(c)
}

func (h *APIHandler) RemoveCartItem(c *gin.Context) {
	h.cartEngine.RemoveItem(c.Request.Context(), c.Param("id"))
	h.GetCart(c)
}

func (h *APIHandler) ClearCart(c *gin.Context) {
	h.cartEngine.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *APIHandler) SetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(customer.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name is required"})
		return
	}

	h.cartEngine.SetCustomer(c.Request.Context(), customer)
	h.GetCart(c)
}

func (h *APIHandler) ToggleCart(c *gin.Context) {
	open := h.cartEngine.ToggleOpen(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"is_open": open})
}

// Checkout

func (h *APIHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		PaymentMethod string `json:"payment_method"`
		AttachmentURL string `json:"attachment_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status := h.config.CheckMerchantStatus(ctx); status.IsClose {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   status.CloseTitle,
			"message": status.CloseMessage,
		})
		return
	}
	if h.config.CheckCheckoutStatus(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkout is temporarily disabled"})
		return
	}

	state := h.cartEngine.State()
	if len(state.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}
	if state.Customer == nil || strings.TrimSpace(state.Customer.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer details are required"})
		return
	}

	order, err := h.orderService.Submit(ctx, state.Items, *state.Customer, req.PaymentMethod, "", req.AttachmentURL)
	if err != nil {
		// The cart is deliberately left intact so the user can retry.
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to place order, please try again"})
		return
	}

	h.tracker.Add(ctx, *order)
	h.cartEngine.Clear(ctx)
	c.JSON(http.StatusCreated, order)
}

// UploadSlip accepts the payment slip image and returns its public URL for
// use as the checkout attachment.
func (h *APIHandler) UploadSlip(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, data, "payment-slips")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Order endpoints

func (h *APIHandler) GetOrders(c *gin.Context) {
	list := h.tracker.Orders()

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := list[:0]
		for _, order := range list {
			if orderMatches(&order, search) {
				filtered = append(filtered, order)
			}
		}
		list = filtered
	}

	if status := c.Query("status"); status != "" && status != "all" {
		filtered := list[:0]
		for _, order := range list {
			if string(order.Status) == status {
				filtered = append(filtered, order)
			}
		}
		list = filtered
	}

	switch c.Query("sort") {
	case "status":
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Status.SortPriority() < list[j].Status.SortPriority()
		})
	case "total":
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Total.GreaterThan(list[j].Total)
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":  list,
		"loading": h.tracker.Loading(),
	})
}

func (h *APIHandler) RefreshOrders(c *gin.Context) {
	h.tracker.Wake()
	c.JSON(http.StatusAccepted, gin.H{"status": "refreshing"})
}

// GetOrderStatus returns the live status when the backend answers, otherwise
// the cached order's last known status.
func (h *APIHandler) GetOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	if snapshot := h.orderService.Status(c.Request.Context(), orderID); snapshot != nil {
		c.JSON(http.StatusOK, gin.H{
			"id":                    snapshot.ID,
			"status":                snapshot.Status,
			"status_text":           snapshot.Status.DisplayText(),
			"progress":              snapshot.Status.Progress(),
			"estimated_pickup_time": snapshot.EstimatedPickupTime,
		})
		return
	}

	if cached := h.tracker.Find(orderID); cached != nil {
		c.JSON(http.StatusOK, gin.H{
			"id":                    cached.ID,
			"status":                cached.Status,
			"status_text":           cached.Status.DisplayText(),
			"progress":              cached.Status.Progress(),
			"estimated_pickup_time": cached.EstimatedPickupTime,
			"cached":                true,
		})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
}

// Store status and config

func (h *APIHandler) GetStoreStatus(c *gin.Context) {
	status := h.config.CheckMerchantStatus(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"is_close":            status.IsClose,
		"close_title":         status.CloseTitle,
		"close_message":       status.CloseMessage,
		"is_disable_checkout": h.config.CheckoutDisabled(),
	})
}

func (h *APIHandler) RefreshConfig(c *gin.Context) {
	h.config.ForceFetch(c.Request.Context())
	h.GetStoreStatus(c)
}

// SetLanguage updates the persisted locale preference.
func (h *APIHandler) SetLanguage(c *gin.Context) {
	var req struct {
		Locale string `json:"locale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Locale) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locale is required"})
		return
	}

	h.locale.Set(c.Request.Context(), req.Locale)
	c.JSON(http.StatusOK, gin.H{"locale": h.locale.Current()})
}

func orderMatches(order *models.Order, search string) bool {
	if strings.Contains(strings.ToLower(order.ID), search) {
		return true
	}
	if strings.Contains(strings.ToLower(order.Customer.Name), search) {
		return true
	}
	for _, item := range order.Items {
		if strings.Contains(strings.ToLower(item.MenuName), search) {
			return true
		}
	}
	return false
}
