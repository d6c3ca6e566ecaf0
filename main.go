package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/cache"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/mailer"
	"storefront/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("[DB] [WARN] disconnect:", err)
		}
	}()

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("[DB] [WARN] product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("[DB] [WARN] user index warning: %v", err)
	}
	if err := database.EnsureAddressIndexes(db); err != nil {
		log.Printf("[DB] [WARN] address index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("[DB] [WARN] order index warning: %v", err)
	}

	rdb, err := database.ConnectRedis(config.AppEnv.RedisURI)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()

	secret := config.AppEnv.JWTSecret
	carts := cache.NewRedisCartStore(rdb, config.AppEnv.CartTTL)
	products := handlers.NewProductFinder(db)
	checkoutDeps := handlers.CheckoutDeps{
		Sessions:  cache.NewRedisSessionStore(rdb, config.AppEnv.CheckoutTTL),
		Carts:     carts,
		Products:  products,
		Payments:  checkout.SimulatedProcessor{Delay: config.AppEnv.PaymentDelay},
		Mail:      mailer.New(config.AppEnv.SendGridAPIKey, config.AppEnv.MailFrom),
		Addresses: handlers.NewAddressBook(db),
		Orders:    handlers.NewOrderBook(db),
	}

	r := gin.Default()
	r.Use(middleware.RequestID())

	api := r.Group("/api")

	api.POST("/auth/register", handlers.Register(db, secret, config.AppEnv.AccessTokenTTL))
	api.POST("/auth/login", handlers.Login(db, secret, config.AppEnv.AccessTokenTTL))
	api.GET("/auth/me", middleware.UserAuth(secret), handlers.Me(db))

	api.POST("/seed", handlers.SeedSuperAdmin(db, config.AppEnv.SeedAdminEmail, config.AppEnv.SeedAdminPassword))
	api.POST("/seed-products", handlers.SeedProducts(db))

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/:id", handlers.GetProduct(db))
	api.GET("/categories", handlers.GetCategories(db))
	api.GET("/countries", handlers.GetCountries())
	api.GET("/delivery-options", handlers.GetDeliveryOptions())

	user := api.Group("")
	user.Use(middleware.UserAuth(secret))
	{
		user.GET("/addresses", handlers.GetAddresses(db))
		user.POST("/addresses", handlers.CreateAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteAddress(db))
		user.POST("/addresses/:id/default", handlers.SetDefaultAddress(db))

		user.GET("/orders", handlers.GetOrders(db))
		user.POST("/orders", handlers.CreateOrder(db, products))
		user.GET("/orders/:orderId", handlers.GetOrder(db))

		user.GET("/cart", handlers.GetCart(carts))
		user.POST("/cart/items", handlers.AddCartItem(carts, products))
		user.PUT("/cart/items/:productId", handlers.UpdateCartItem(carts))
		user.DELETE("/cart/items/:productId", handlers.RemoveCartItem(carts))
		user.DELETE("/cart", handlers.ClearCart(carts))

		user.POST("/checkout", handlers.StartCheckout(checkoutDeps))
		user.GET("/checkout/:id", handlers.GetCheckout(checkoutDeps))
		user.POST("/checkout/:id/review", handlers.ConfirmReview(checkoutDeps))
		user.PUT("/checkout/:id/shipping", handlers.SetShipping(checkoutDeps))
		user.PUT("/checkout/:id/delivery", handlers.SetDelivery(checkoutDeps))
		user.POST("/checkout/:id/payment", handlers.SubmitPayment(checkoutDeps))
		user.POST("/checkout/:id/step", handlers.GoToStep(checkoutDeps))
	}

	admin := api.Group("")
	admin.Use(middleware.AdminAuth(secret))
	{
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products", handlers.UpdateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products", handlers.DeleteProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/admin/orders", handlers.ListAllOrders(db))
		admin.PATCH("/admin/orders/:orderId/status", handlers.UpdateOrderStatus(db))
	}

	srv := &http.Server{
		Addr:              ":" + config.AppEnv.Port,
		Handler:           middleware.CORS(config.AppEnv.AllowedOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("listening on", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[HTTP] [WARN] shutdown:", err)
	}
}
