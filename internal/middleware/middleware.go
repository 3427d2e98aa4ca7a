package middleware

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		LoggerMiddleware(output io.Writer, timeZone string) fiber.Handler
		RateLimitMiddleware(max int, window time.Duration) fiber.Handler
	}

	middleware struct {
		allowOrigins []string
	}
)

func NewMiddleware(allowOrigins ...string) Middleware {
	return &middleware{allowOrigins: allowOrigins}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	origins := "*"
	if len(m.allowOrigins) > 0 {
		origins = strings.Join(m.allowOrigins, ",")
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	})
}

func (m *middleware) LoggerMiddleware(output io.Writer, timeZone string) fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   timeZone,
		Output:     output,
	})
}

// RateLimitMiddleware allows max requests per window and client IP. The
// metrics endpoint is exempt.
func (m *middleware) RateLimitMiddleware(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
	})
}
