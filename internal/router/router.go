// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-backend/internal/cache"
	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/events"
	"github.com/javajoker/catalog-backend/internal/handlers"
	"github.com/javajoker/catalog-backend/internal/middleware"
	"github.com/javajoker/catalog-backend/internal/models"
	"github.com/javajoker/catalog-backend/internal/services"
	"github.com/javajoker/catalog-backend/internal/utils"
)

const version = "1.0.0"

// Initialize wires services and handlers onto a gin engine. A nil publisher
// or cache disables that side effect. The returned stop func releases the
// engine's background workers and must be called once the engine is retired.
func Initialize(db *gorm.DB, cfg *config.Config, publisher events.Publisher, listings cache.ListingCache) (*gin.Engine, func(), error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	authorizationService := services.NewAuthorizationService()

	categoryService := services.NewCategoryService(db, publisher, listings)
	productService := services.NewProductService(db, authorizationService, publisher, listings)
	reviewService := services.NewReviewService(db, authorizationService, publisher, listings)

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, productService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(limiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": version,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:slug/products", categoryHandler.GetCategoryProducts)

			protected := categories.Group("")
			protected.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.PUT("/:slug", categoryHandler.UpdateCategory)
				protected.DELETE("/:slug", categoryHandler.DeleteCategory)
			}
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:slug", productHandler.GetProduct)
			products.GET("/:slug/reviews", reviewHandler.GetProductReviews)

			// Ownership is checked by the product service.
			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleSupplier, models.RoleAdmin))
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:slug", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/images", productHandler.UploadProductImages)
			}
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", reviewHandler.GetReviews)
			reviews.POST("", middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer), reviewHandler.CreateReview)
			reviews.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), reviewHandler.DeleteReview)
		}
	}

	// Locally stored uploads
	if cfg.AWS.AccessKeyID == "" {
		r.Static(services.LocalUploadRoute, cfg.AWS.LocalUploadDir)
	}

	return r, limiter.Stop, nil
}
