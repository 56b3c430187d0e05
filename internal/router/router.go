package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/controller"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	paymentController  *controller.PaymentController
	addressController  *controller.AddressController
	adminController    *controller.AdminController
	uploadController   *controller.UploadController
	showcaseController *controller.ShowcaseController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	addressController *controller.AddressController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	showcaseController *controller.ShowcaseController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		paymentController:  paymentController,
		addressController:  addressController,
		adminController:    adminController,
		uploadController:   uploadController,
		showcaseController: showcaseController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.CartSession(r.config.Cart))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Shopyar API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/otp/request", r.authController.RequestCode)
			auth.POST("/otp/verify", r.authController.VerifyCode)
			auth.POST("/admin/login", r.authController.AdminLogin)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.ListFeatured)
			products.GET("/lucky", r.productController.ListLucky)
			products.GET("/:slug", r.productController.GetProduct)
		}

		// Cart works for guests too: an optional token plus the session cookie
		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		{
			// Guests may check out with a session cart
			orders.POST("", r.authMiddleware.OptionalAuthenticate(), r.orderController.PlaceOrder)
			orders.GET("", r.authMiddleware.Authenticate(), r.orderController.ListMyOrders)
			orders.GET("/:id", r.authMiddleware.Authenticate(), r.orderController.GetMyOrder)
		}

		// The gateway redirects the buyer here after payment
		v1.GET("/payment/callback", r.paymentController.Callback)

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
		}

		// External cron pings these; the controller checks the shared secret
		cron := v1.Group("/cron")
		{
			cron.GET("/featured", r.showcaseController.RegenerateFeatured)
			cron.GET("/lucky", r.showcaseController.RegenerateLucky)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/products", r.adminController.ListProducts)
			admin.POST("/products", r.adminController.CreateProduct)
			admin.PUT("/products/:id", r.adminController.UpdateProduct)
			admin.POST("/products/:id/archive", r.adminController.ArchiveProduct)
			admin.DELETE("/products/:id", r.adminController.DeleteProduct)

			admin.POST("/products/:id/variants", r.adminController.AddVariant)
			admin.PUT("/products/:id/variants/:variantId", r.adminController.UpdateVariant)
			admin.DELETE("/products/:id/variants/:variantId", r.adminController.RemoveVariant)

			admin.GET("/orders", r.adminController.ListOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)
			admin.PUT("/orders/:id/status", r.adminController.UpdateOrderStatus)

			admin.POST("/uploads", r.uploadController.UploadImage)
			admin.POST("/uploads/presign", r.uploadController.GetPresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Cron-Secret")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
