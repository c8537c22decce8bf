package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorozov/showcase-backend/internal/config"
	"github.com/dmorozov/showcase-backend/internal/http/handlers"
	"github.com/dmorozov/showcase-backend/internal/http/middleware"
	"github.com/dmorozov/showcase-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	caseStudyHandler *handlers.CaseStudyHandler,
	mediaHandler *handlers.MediaHandler,
	testimonialHandler *handlers.TestimonialHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/uploads", http.Dir(cfg.UploadsRoot))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/case-studies", caseStudyHandler.List)
	api.GET("/case-studies/slug/:slug", caseStudyHandler.GetBySlug)
	api.GET("/case-studies/:id", middleware.UUIDValidator("id"), caseStudyHandler.Get)
	api.GET("/testimonials", testimonialHandler.List)

	// Маршруты администратора
	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.POST("/case-studies", caseStudyHandler.Create)
		admin.PUT("/case-studies/:id", middleware.UUIDValidator("id"), caseStudyHandler.Update)
		admin.DELETE("/case-studies/:id", middleware.UUIDValidator("id"), caseStudyHandler.Delete)
		admin.POST("/case-studies/:id/media", middleware.UUIDValidator("id"), mediaHandler.Upload)

		admin.POST("/testimonials", testimonialHandler.Create)
		admin.PUT("/testimonials/:id", middleware.UUIDValidator("id"), testimonialHandler.Update)
		admin.DELETE("/testimonials/:id", middleware.UUIDValidator("id"), testimonialHandler.Delete)
	}

	return r
}
