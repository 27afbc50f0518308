package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"foodshare/pkg/errors"
	"foodshare/pkg/response"
)

// RateLimitPerIP limits each client IP to requestsPerMinute with a burst of
// the same size. Idle visitors are forgotten after three minutes.
func RateLimitPerIP(requestsPerMinute int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requestsPerMinute) / 60),
		Burst:     requestsPerMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.Forbidden("Unable to identify client", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Printf("RATE LIMIT: blocked request from IP %s to %s", identifier, c.Path())
			return response.Error(c, errors.TooManyRequests("Rate limit exceeded", err))
		},
	})
}
