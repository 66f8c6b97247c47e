package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/platform/envutil"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:4200",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:4200",
	"http://127.0.0.1:5173",
}

// CORS allows the editor front-ends. CORS_ALLOWED_ORIGINS replaces the local
// dev list; "*" allows any origin.
func CORS() gin.HandlerFunc {
	origins := envutil.List("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-Id", "X-Trace-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
