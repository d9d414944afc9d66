package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"haldeki/internal/auth"
	"haldeki/internal/cart"
	"haldeki/internal/config"
	"haldeki/internal/db"
	"haldeki/internal/domain/user"
	"haldeki/internal/invites"
	"haldeki/internal/mail"
	"haldeki/internal/middleware"
	"haldeki/internal/orders"
	"haldeki/internal/products"
	"haldeki/internal/regions"
	"haldeki/internal/suppliers"
	"haldeki/internal/warehouse"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	pool, err := db.NewPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("database unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:         cfg.JWTIssuer,
		AccessSecret:   cfg.JWTAccessSecret,
		RefreshSecret:  cfg.JWTRefreshSecret,
		AccessTTLMin:   cfg.AccessTokenTTLMin,
		RefreshTTLDays: cfg.RefreshTokenTTLDays,
	})

	// Repos
	userRepo := auth.NewUserRepo(pool)
	refreshRepo := auth.NewRefreshRepo(pool)
	productRepo := products.NewRepo(pool)
	regionRepo := regions.NewRepo(pool)
	supplierRepo := suppliers.NewRepo(pool)
	orderRepo := orders.NewRepo(pool)
	warehouseRepo := warehouse.NewRepo(pool)
	inviteRepo := invites.NewRepo(pool)
	cartStore := cart.NewPGStore(pool)

	// Handlers
	authHandler := auth.NewHandler(auth.Dependencies{
		JWT:     jwtMgr,
		Users:   userRepo,
		Refresh: refreshRepo,
	})
	productHandler := products.NewHandler(productRepo)
	regionHandler := regions.NewHandler(regionRepo)
	supplierHandler := suppliers.NewHandler(supplierRepo)
	cartHandler := cart.NewHandler(cartStore, productRepo, supplierRepo)
	orderHandler := orders.NewHandler(orderRepo, cartStore)
	warehouseHandler := warehouse.NewHandler(warehouseRepo)
	inviteHandler := invites.NewHandler(cfg, inviteRepo, userRepo, refreshRepo, mailer)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	api := r.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public catalog routes (no login required)
	api.GET("/regions", regionHandler.ListPublic)
	api.GET("/products", productHandler.ListPublic)
	api.GET("/products/:id", productHandler.GetPublic)
	api.POST("/invites/accept", inviteHandler.Accept)

	// Protected routes
	protected := api.Group("/")
	protected.Use(auth.AuthMiddleware(jwtMgr))
	{
		protected.GET("/me", authHandler.Me)

		// cart + orders for anyone who can shop
		protected.GET("/cart", cartHandler.Get)
		protected.POST("/cart/items", cartHandler.AddItem)
		protected.PATCH("/cart/items", cartHandler.UpdateQty)
		protected.DELETE("/cart/items", cartHandler.RemoveItem)
		protected.DELETE("/cart", cartHandler.Clear)

		protected.POST("/orders", orderHandler.Checkout)
		protected.GET("/orders", orderHandler.MyOrders)
		protected.GET("/orders/:id", orderHandler.Get)
		protected.POST("/orders/:id/cancel", orderHandler.Cancel)

		dealerOnly := protected.Group("/dealer")
		dealerOnly.Use(auth.RequireRole(user.RoleDealer, user.RoleAdmin))
		{
			dealerOnly.GET("/orders", orderHandler.RegionOrders)
			dealerOnly.POST("/orders/:id/status", orderHandler.Transition)
			dealerOnly.POST("/regions/:id/products", regionHandler.SetOverride)
		}

		supplierOnly := protected.Group("/supplier")
		supplierOnly.Use(auth.RequireRole(user.RoleSupplier, user.RoleAdmin))
		{
			supplierOnly.POST("/products", productHandler.Create)
			supplierOnly.POST("/offers", supplierHandler.UpsertOffer)
			supplierOnly.GET("/offers", supplierHandler.MyOffers)
			supplierOnly.GET("/search", supplierHandler.Search)
		}

		// picking list and order views stay price-free for warehouse staff
		warehouseOnly := protected.Group("/warehouse")
		warehouseOnly.Use(auth.RequireRole(user.RoleWarehouse, user.RoleAdmin))
		{
			warehouseOnly.GET("/picking-list", warehouseHandler.PickingList)
			warehouseOnly.GET("/orders", warehouseHandler.Orders)
			warehouseOnly.POST("/orders/:id/prepared", warehouseHandler.MarkPrepared)
		}

		adminOnly := protected.Group("/admin")
		adminOnly.Use(auth.RequireRole(user.RoleAdmin))
		{
			adminOnly.GET("/regions", regionHandler.AdminList)
			adminOnly.POST("/regions", regionHandler.AdminCreate)
			adminOnly.PATCH("/regions/:id", regionHandler.AdminUpdate)

			adminOnly.POST("/products", productHandler.Create)
			adminOnly.PATCH("/products/:id/price", productHandler.UpdatePrice)
			adminOnly.GET("/products/:id/price-stats", productHandler.GetPriceStats)

			adminOnly.GET("/invites", inviteHandler.AdminList)
			adminOnly.POST("/invites", inviteHandler.AdminCreate)

			adminOnly.POST("/orders/:id/status", orderHandler.Transition)
		}
	}

	slog.Info("listening", slog.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
