package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brittlebones-backend/pkg/logger"
)

// CORSMiddleware allows browser calls from the listed site origins only.
// Origins without an http(s) scheme are dropped since cors rejects them.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			origins = append(origins, o)
			continue
		}
		logger.Log.Warn("Ignoring invalid CORS origin", zap.String("origin", o))
	}

	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{RequestIDHeader, "Retry-After"},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 {
		// Nothing valid configured: deny every cross-origin request
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
