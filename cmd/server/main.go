package main

import (
	"context"
	"log"

	"drink_order/internal/cart"
	"drink_order/internal/config"
	"drink_order/internal/events"
	"drink_order/internal/handlers"
	"drink_order/internal/identity"
	"drink_order/internal/locale"
	"drink_order/internal/menu"
	"drink_order/internal/orders"
	"drink_order/internal/remoteconfig"
	"drink_order/internal/storage"
	"drink_order/pkg/backend"
	"drink_order/pkg/upload"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize persistence
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	// Initialize locale preference and identity
	localeStore := locale.NewStore(ctx, store, cfg.DefaultLocale)
	localeStore.OnChange(func(e locale.Changed) {
		log.Printf("Language changed to %s", e.Locale)
	})
	identityStore := identity.NewStore(store)

	// Initialize backend and config clients
	backendClient := backend.NewClient(cfg.BackendAPIURL, localeStore.Current)
	configService := remoteconfig.NewService(cfg.ConfigAPIURL, localeStore.Current)
	uploader := upload.NewHTTPUploader(cfg.UploadAPIURL)

	// Initialize cart engine
	cartBus := events.NewBus[cart.Updated]()
	cartBus.Subscribe(func(e cart.Updated) {
		log.Printf("Cart updated: %d items, total %s", e.TotalItems, e.TotalPrice)
	})
	cartEngine := cart.NewEngine(store, cartBus, cart.MergeIncomingPrice)
	cartEngine.Load(ctx)

	// Initialize services
	menuService := menu.NewService(backendClient, configService, store, cfg.MenuCacheTTL)
	orderService := orders.NewService(backendClient, identityStore)
	tracker := orders.NewTracker(orderService, store, identityStore)
	tracker.Load(ctx)

	// Start status polling
	go tracker.Run(ctx, cfg.OrderPollInterval)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(menuService, cartEngine, orderService, tracker, configService, localeStore, uploader)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/menu", apiHandler.GetMenu)
		api.GET("/menu/:id", apiHandler.GetMenuItem)

		api.GET("/cart", apiHandler.GetCart)
		api.POST("/cart/items", apiHandler.AddCartItem)
		api.PUT("/cart/items/:id", apiHandler.UpdateCartItemQuantity)
		api.DELETE("/cart/items/:id", apiHandler.RemoveCartItem)
		api.DELETE("/cart", apiHandler.ClearCart)
		api.POST("/cart/customer", apiHandler.SetCustomer)
		api.POST("/cart/toggle", apiHandler.ToggleCart)

		api.POST("/checkout", apiHandler.Checkout)
		api.POST("/uploads", apiHandler.UploadSlip)

		api.GET("/orders", apiHandler.GetOrders)
		api.POST("/orders/refresh", apiHandler.RefreshOrders)
		api.GET("/orders/:id/status", apiHandler.GetOrderStatus)

		api.GET("/store/status", apiHandler.GetStoreStatus)
		api.POST("/config/refresh", apiHandler.RefreshConfig)
		api.PUT("/language", apiHandler.SetLanguage)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "redis":
		return storage.NewRedisStore(cfg.RedisURL)
	case "postgres":
		return storage.NewGormStore(cfg.DatabaseURL)
	default:
		return storage.NewFileStore(cfg.StorageDir)
	}
}
