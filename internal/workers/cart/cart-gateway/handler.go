// internal/workers/cart/cart-gateway/handler.go
package cartgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "cart-gateway"
)

var (
	ErrCartUpdateFailed = errors.New("CART_UPDATE_FAILED")
	ErrCartReadFailed   = errors.New("CART_READ_FAILED")
	ErrCartContention   = errors.New("CART_CONTENTION")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Gateway stores one user's cart as a JSON array of lines under a single
// Redis key. Writes run in WATCH/MULTI transactions.
type Gateway struct {
	config *Config
	redis  *redis.Client
	logger Logger
}

func NewGateway(config *Config, client *redis.Client, log Logger) *Gateway {
	if config == nil {
		config = LoadConfig()
	}
	return &Gateway{
		config: config,
		redis:  client,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"cartKey":  config.Key(),
		}),
	}
}

// Lines returns the cart lines in insertion order.
func (g *Gateway) Lines(ctx context.Context) ([]models.CartLine, error) {
	lines, err := readLines(ctx, g.redis, g.config.Key())
	if err != nil {
		return nil, apperrors.NewCartReadFailedError(fmt.Errorf("%w: %w", ErrCartReadFailed, err))
	}
	return lines, nil
}

// Add increments the line for product, or appends a new line with quantity 1.
func (g *Gateway) Add(ctx context.Context, product models.Product) error {
	return g.update(ctx, "add", func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == product.ID {
				lines[i].Quantity++
				return lines, true
			}
		}
		return append(lines, models.NewCartLine(product)), true
	})
}

// Remove deletes the line for productID. Removing an absent line is a no-op.
func (g *Gateway) Remove(ctx context.Context, productID int) error {
	return g.update(ctx, "remove", func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				return append(lines[:i], lines[i+1:]...), true
			}
		}
		return lines, false
	})
}

// UpdateQuantity sets the quantity of productID, clamped to at least 1.
func (g *Gateway) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return g.update(ctx, "update_quantity", func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				if lines[i].Quantity == quantity {
					return lines, false
				}
				lines[i].Quantity = quantity
				return lines, true
			}
		}
		return lines, false
	})
}

func (g *Gateway) update(ctx context.Context, op string, mutate mutation) error {
	key := g.config.Key()
	txf := func(tx *redis.Tx) error {
		lines, err := readLines(ctx, tx, key)
		if err != nil {
			return err
		}
		next, changed := mutate(lines)
		if !changed {
			return nil
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= g.config.MaxRetries; attempt++ {
		err := g.redis.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			g.logger.Error("cart update failed", map[string]interface{}{
				"operation": op,
				"error":     err.Error(),
			})
			return apperrors.NewCartUpdateFailedError(op, fmt.Errorf("%w: %w", ErrCartUpdateFailed, err))
		}
		g.logger.Warn("cart changed concurrently, retrying", map[string]interface{}{
			"operation": op,
			"attempt":   attempt,
		})
	}
	return apperrors.NewCartUpdateFailedError(op,
		fmt.Errorf("%w: %w after %d attempts", ErrCartUpdateFailed, ErrCartContention, g.config.MaxRetries))
}

func readLines(ctx context.Context, r getter, key string) ([]models.CartLine, error) {
	raw, err := r.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, nil
}
