package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig builds the cors configuration for the configured origins.
// "*" allows any origin; an empty list allows none.
func CORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowOrigins = nil
			return cfg
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, o)
	}

	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cfg
}

// CORS returns the gin-contrib/cors handler for origins. Cross-origin requests from
// other origins are rejected with 403; preflight requests end with 204.
func CORS(origins []string) (gin.HandlerFunc, error) {
	cfg := CORSConfig(origins)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cors origins: %w", err)
	}
	return cors.New(cfg), nil
}

// SecurityHeaders sets conservative browser hardening headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}
