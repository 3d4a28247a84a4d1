// internal/workers/cart/cart-gateway/models.go
package cartgateway

import (
	"context"

	"lucy-chat/internal/models"

	"github.com/redis/go-redis/v9"
)

// getter is the read half shared by *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// mutation edits the cart lines in place and reports whether anything changed.
type mutation func(lines []models.CartLine) ([]models.CartLine, bool)
