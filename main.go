package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harshit18-tiwari/MarketPlace/internal/auth"
	"github.com/harshit18-tiwari/MarketPlace/internal/config"
	"github.com/harshit18-tiwari/MarketPlace/internal/database"
	"github.com/harshit18-tiwari/MarketPlace/internal/handlers"
	"github.com/harshit18-tiwari/MarketPlace/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		logrus.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	logrus.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		logrus.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		logrus.Printf("product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		logrus.Printf("order index warning: %v", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Marketplace API is running"})
	})

	protect := middleware.Protect(db, config.AppEnv.JWTSecret)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
			authGroup.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
			authGroup.GET("/me", protect, handlers.GetMe())
		}

		products := api.Group("/products")
		{
			products.GET("", handlers.GetProducts(db))
			products.GET("/:id", handlers.GetProductByID(db))
			products.POST("", protect, middleware.RequireRole(auth.RoleSeller), handlers.CreateProduct(db))
			products.PUT("/:id", protect, handlers.UpdateProduct(db))
			products.DELETE("/:id", protect, handlers.DeleteProduct(db))
		}

		orders := api.Group("/orders")
		orders.Use(protect)
		{
			// Buyer-only: sellers cannot place orders.
			orders.POST("", middleware.RequireRole(auth.RoleBuyer), handlers.CreateOrder(db))
			orders.GET("/my", middleware.RequireRole(auth.RoleBuyer), handlers.GetMyOrders(db))

			orders.GET("", middleware.RequireRole(auth.RoleAdmin), handlers.GetAllOrders(db))
			orders.GET("/:id", handlers.GetOrderByID(db))
			orders.PUT("/:id/status", middleware.RequireRole(auth.RoleAdmin), handlers.UpdateOrderStatus(db))
			orders.POST("/:id/messages", handlers.PostOrderMessage(db))

			orders.POST("/payment/process", middleware.RequireRole(auth.RoleBuyer), handlers.ProcessPayment(db))

			orders.POST("/razorpay/create", middleware.RequireRole(auth.RoleBuyer), handlers.CreateRazorpayOrder(config.AppEnv.RazorpayKeyID))
			orders.POST("/razorpay/verify", middleware.RequireRole(auth.RoleBuyer), handlers.VerifyRazorpayPayment(db, config.AppEnv.RazorpayKeySecret))
		}
		api.GET("/orders/razorpay/key", handlers.GetRazorpayKey(config.AppEnv.RazorpayKeyID))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logrus.Fatal(err)
	}
}
