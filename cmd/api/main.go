package main

import (
	"context"
	"log"
	"time"

	"spice-market/internal/core/cache"
	"spice-market/internal/core/config"
	"spice-market/internal/core/logger"
	"spice-market/internal/core/server"
	cartadapter "spice-market/internal/features/cart/adapters"
	carthandler "spice-market/internal/features/cart/handler"
	cartservice "spice-market/internal/features/cart/service"
	catalogadapter "spice-market/internal/features/catalog/adapters"
	cataloghandler "spice-market/internal/features/catalog/handler"
	catalogservice "spice-market/internal/features/catalog/service"
	checkoutadapter "spice-market/internal/features/checkout/adapters"
	checkouthandler "spice-market/internal/features/checkout/handler"
	checkoutports "spice-market/internal/features/checkout/ports"
	checkoutservice "spice-market/internal/features/checkout/service"
	orderadapter "spice-market/internal/features/orders/adapters"
	orderhandler "spice-market/internal/features/orders/handler"
	orderservice "spice-market/internal/features/orders/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title Spice Market API
// @version 1.0
// @description Marketplace core: catalog browsing, session carts, checkout, and order lifecycle.
// @contact.name API Support
// @contact.email support@spicemarket.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Redis and run Health Check
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to create Redis adapter", zap.Error(err))
	}
	defer redisCache.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Initialize Catalog Service & Handler
	productRepo := catalogadapter.NewSeededProductRepository()
	catalogSvc := catalogservice.NewCatalogService(productRepo)
	catalogHdl := cataloghandler.NewCatalogHandler(catalogSvc)

	// Initialize Cart Service & Handler
	cartRepo := cartadapter.NewRedisCartRepository(redisCache)
	cartSvc := cartservice.NewCartService(productRepo, cartRepo)
	cartHdl := carthandler.NewCartHandler(cartSvc)

	// Initialize Order Service & Handler
	orderRepo := orderadapter.NewRedisOrderRepository(redisCache)
	orderSvc := orderservice.NewOrderService(orderRepo)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Initialize Checkout Service & Handler
	shippingFee, err := decimal.NewFromString(cfg.Checkout.ShippingFee)
	if err != nil {
		l.Fatal("Invalid shipping fee", zap.String("value", cfg.Checkout.ShippingFee), zap.Error(err))
	}

	var gateway checkoutports.PaymentGateway
	switch cfg.Payment.Mode {
	case "http":
		if cfg.Payment.GatewayURL == "" {
			l.Fatal("PAYMENT_GATEWAY_URL is required when PAYMENT_MODE is http")
		}
		gateway = checkoutadapter.NewHTTPGateway(
			cfg.Payment.GatewayURL,
			cfg.Payment.APIKey,
			time.Duration(cfg.Payment.TimeoutSeconds)*time.Second,
		)
	case "simulated":
		gateway = checkoutadapter.NewSimulatedGateway(
			time.Duration(cfg.Payment.LatencyMS)*time.Millisecond,
			cfg.Payment.FailureRate,
		)
	default:
		l.Fatal("Unknown payment mode", zap.String("mode", cfg.Payment.Mode))
	}
	l.Info("Payment gateway initialized", zap.String("mode", cfg.Payment.Mode))

	optionsRepo := checkoutadapter.NewSeededOptionsRepository()
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, optionsRepo, gateway, orderRepo, checkoutservice.Config{
		ShippingFee:   shippingFee,
		ClearCart:     cfg.Checkout.ClearCart,
		ChargeTimeout: time.Duration(cfg.Payment.TimeoutSeconds) * time.Second,
	})
	checkoutHdl := checkouthandler.NewCheckoutHandler(checkoutSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/products", catalogHdl.ListProducts)
	srv.App.Get("/products/:id", catalogHdl.GetProduct)

	srv.App.Get("/cart", cartHdl.GetCart)
	srv.App.Delete("/cart", cartHdl.ClearCart)
	srv.App.Post("/cart/items", cartHdl.AddItem)
	srv.App.Put("/cart/items/:productId", cartHdl.SetQuantity)
	srv.App.Delete("/cart/items/:productId", cartHdl.RemoveItem)

	srv.App.Get("/checkout/options", checkoutHdl.GetOptions)
	srv.App.Put("/checkout/address", checkoutHdl.SelectAddress)
	srv.App.Put("/checkout/payment-method", checkoutHdl.SelectPaymentMethod)
	srv.App.Get("/checkout/quote", checkoutHdl.GetQuote)
	srv.App.Post("/checkout", checkoutHdl.PlaceOrder)

	srv.App.Get("/orders", orderHdl.ListOrders)
	srv.App.Get("/orders/:id", orderHdl.GetOrder)
	srv.App.Get("/orders/:id/status", orderHdl.GetStatus)
	srv.App.Post("/orders/:id/advance", orderHdl.AdvanceOrder)
	srv.App.Post("/orders/:id/cancel", orderHdl.CancelOrder)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
