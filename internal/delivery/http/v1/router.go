package v1

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"brittlebones-backend/config"
	"brittlebones-backend/internal/delivery/http/middleware"
	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/internal/domain"
	"brittlebones-backend/internal/usecase"
)

type RouterDeps struct {
	FormRelayUC domain.FormRelayUsecase
	DonationUC  domain.DonationUsecase
	HealthUC    usecase.HealthUsecase
	// RateLimiter guards the POST routes; nil disables limiting
	RateLimiter *middleware.RateLimiter
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/donate/qr"})))
	r.Use(middleware.BodyLimit(middleware.DefaultMaxBodyBytes))

	NewHealthHandler(r, deps.HealthUC)

	// Form routes answer {success, message}; donation routes answer {error}
	forms := r.Group("", middleware.ErrorHandler(response.Error))
	donate := r.Group("/donate", middleware.ErrorHandler(response.FaultError))
	if deps.RateLimiter != nil {
		forms.Use(deps.RateLimiter.Middleware())
		donate.Use(deps.RateLimiter.Middleware())
	}

	NewFormHandler(forms, deps.FormRelayUC)
	NewDonationHandler(donate, deps.DonationUC)

	// Swagger
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
