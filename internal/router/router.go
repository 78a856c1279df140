package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/config"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/controller"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type Router struct {
	productController  *controller.ProductController
	cartController     *controller.CartController
	shippingController *controller.ShippingController
	checkoutController *controller.CheckoutController
	webhookController  *controller.WebhookController
	adminController    *controller.AdminController
	config             *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	shippingController *controller.ShippingController,
	checkoutController *controller.CheckoutController,
	webhookController *controller.WebhookController,
	adminController *controller.AdminController,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:  productController,
		cartController:     cartController,
		shippingController: shippingController,
		checkoutController: checkoutController,
		webhookController:  webhookController,
		adminController:    adminController,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "OverlayMaps API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:slug", r.productController.GetProductBySlug)
			products.GET("/:slug/options/:label", r.productController.SelectPrimaryOption)
			products.GET("/:slug/variants/:variant_id", r.productController.SelectVariant)
		}

		// Cart, shipping, and checkout are all keyed by the cart token
		// cookie.
		cart := v1.Group("/cart", middleware.CartTokenMiddleware())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddLine)
			cart.PUT("/items/:variant_id", r.cartController.SetQuantity)
			cart.DELETE("/items/:variant_id", r.cartController.RemoveLine)
			cart.DELETE("", r.cartController.ClearCart)
		}

		shipping := v1.Group("/shipping", middleware.CartTokenMiddleware())
		{
			shipping.POST("/estimate", r.shippingController.Estimate)
			shipping.POST("/select", r.shippingController.SelectOption)
			shipping.GET("/selected", r.shippingController.SelectedOption)
		}

		checkout := v1.Group("/checkout", middleware.CartTokenMiddleware())
		{
			checkout.POST("", r.checkoutController.CreateSession)
		}

		v1.POST("/webhooks/payment", r.webhookController.HandlePaymentEvent)

		admin := v1.Group("/admin", middleware.AdminKeyMiddleware(r.config.Server.AdminKey))
		{
			admin.POST("/sync", r.adminController.TriggerSync)
			admin.GET("/export", r.adminController.ExportCatalog)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Admin-Key, Stripe-Signature")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
