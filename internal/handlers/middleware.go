package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const customerIDKey = "customer_id"

// RequireCustomer resolves the caller to a customer id from a bearer session
// token, or from the X-Username header when no token is sent.
func RequireCustomer(resolver services.CustomerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			id  uint
			err error
		)
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			id, err = resolver.ResolveToken(c.Request.Context(), strings.TrimPrefix(auth, "Bearer "))
		} else {
			id, err = resolver.Resolve(c.Request.Context(), c.GetHeader("X-Username"))
		}
		if errors.Is(err, services.ErrNotFound) {
			err = fmt.Errorf("%w: %w", services.ErrUnauthenticated, err)
		}
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(customerIDKey, id)
		c.Next()
	}
}

// RequestTimeout bounds every store round trip made while serving a request.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func customerID(c *gin.Context) uint {
	return c.GetUint(customerIDKey)
}
