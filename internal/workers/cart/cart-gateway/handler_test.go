// internal/workers/cart/cart-gateway/handler_test.go
package cartgateway

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Logger Implementation
// ==========================

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: make(map[string]interface{})}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	newLogger := &TestLogger{t: l.t, fields: make(map[string]interface{})}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// ==========================
// Test Helper Functions
// ==========================

var (
	flour  = models.Product{ID: 1, Title: "Flour", Price: 1.99}
	cheese = models.Product{ID: 2, Title: "Cheese", Price: 3.49}
	milk   = models.Product{ID: 3, Title: "Milk", Price: 0.99}
)

func createTestConfig() *Config {
	return &Config{UserID: "42", KeyPrefix: "test:cart", MaxRetries: 5}
}

func setupGateway(t *testing.T) (*Gateway, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGateway(createTestConfig(), client, NewTestLogger(t)), mr
}

func quantities(lines []models.CartLine) map[string]int {
	out := make(map[string]int, len(lines))
	for _, l := range lines {
		out[l.Title] = l.Quantity
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestGateway_EmptyCart(t *testing.T) {
	gw, mr := setupGateway(t)

	lines, err := gw.Lines(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
	assert.False(t, mr.Exists("test:cart:42"))
}

func TestGateway_AddKeepsInsertionOrder(t *testing.T) {
	gw, _ := setupGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.Add(ctx, flour))
	require.NoError(t, gw.Add(ctx, cheese))
	require.NoError(t, gw.Add(ctx, flour))
	require.NoError(t, gw.Add(ctx, milk))

	lines, err := gw.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flour", "Cheese", "Milk"}, models.CartTitles(lines))
	assert.Equal(t, map[string]int{"Flour": 2, "Cheese": 1, "Milk": 1}, quantities(lines))
	assert.Equal(t, 1.99, lines[0].Price)
}

func TestGateway_Remove(t *testing.T) {
	gw, _ := setupGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.Add(ctx, flour))
	require.NoError(t, gw.Add(ctx, cheese))
	require.NoError(t, gw.Add(ctx, milk))

	require.NoError(t, gw.Remove(ctx, cheese.ID))
	require.NoError(t, gw.Remove(ctx, 999))

	lines, err := gw.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flour", "Milk"}, models.CartTitles(lines))

	require.NoError(t, gw.Remove(ctx, flour.ID))
	require.NoError(t, gw.Remove(ctx, milk.ID))
	lines, err = gw.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGateway_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "increase", quantity: 5, want: 5},
		{name: "unchanged", quantity: 1, want: 1},
		{name: "zero clamps to one", quantity: 0, want: 1},
		{name: "negative clamps to one", quantity: -4, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := setupGateway(t)
			ctx := context.Background()
			require.NoError(t, gw.Add(ctx, milk))

			require.NoError(t, gw.UpdateQuantity(ctx, milk.ID, tt.quantity))

			lines, err := gw.Lines(ctx)
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Quantity)
		})
	}
}

func TestGateway_UpdateQuantityAbsentLineIsNoOp(t *testing.T) {
	gw, mr := setupGateway(t)

	require.NoError(t, gw.UpdateQuantity(context.Background(), milk.ID, 3))
	assert.False(t, mr.Exists("test:cart:42"))
}

func TestGateway_ConcurrentAdds(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cfg := createTestConfig()
	cfg.MaxRetries = 20
	gw := NewGateway(cfg, client, NewTestLogger(t))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- gw.Add(context.Background(), flour)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, err := gw.Lines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, workers, lines[0].Quantity)
}

// ==========================
// Error Handling Tests
// ==========================

func TestGateway_RedisUnavailable(t *testing.T) {
	gw, mr := setupGateway(t)
	mr.Close()
	ctx := context.Background()

	err := gw.Add(ctx, flour)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCartUpdateFailed)
	assert.Equal(t, apperrors.ErrCodeCartUpdateFailed, apperrors.CodeOf(err))

	_, err = gw.Lines(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCartReadFailed)
	assert.Equal(t, apperrors.ErrCodeCartReadFailed, apperrors.CodeOf(err))
}

func TestGateway_ContentionExhausted(t *testing.T) {
	gw, _ := setupGateway(t)
	gw.config.MaxRetries = 0

	err := gw.Add(context.Background(), flour)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCartContention)
	assert.Equal(t, apperrors.ErrCodeCartUpdateFailed, apperrors.CodeOf(err))
}

func TestGateway_ReadFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(mock redismock.ClientMock)
	}{
		{
			name:  "transport error",
			setup: func(mock redismock.ClientMock) { mock.ExpectGet("test:cart:42").SetErr(errors.New("i/o timeout")) },
		},
		{
			name:  "corrupt payload",
			setup: func(mock redismock.ClientMock) { mock.ExpectGet("test:cart:42").SetVal("{not json") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setup(mock)
			gw := NewGateway(createTestConfig(), client, NewTestLogger(t))

			lines, err := gw.Lines(context.Background())
			require.Error(t, err)
			assert.Nil(t, lines)
			assert.Equal(t, apperrors.ErrCodeCartReadFailed, apperrors.CodeOf(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGateway_StoredLinesRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("test:cart:42").SetVal(`[{"id":3,"title":"Milk","price":0.99,"quantity":2}]`)
	gw := NewGateway(createTestConfig(), client, NewTestLogger(t))

	lines, err := gw.Lines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, models.CartLine{ProductID: 3, Title: "Milk", Price: 0.99, Quantity: 2}, lines[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfig(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, "lucy:cart:1", cfg.Key())
	assert.Equal(t, createTestConfig().Key(), "test:cart:42")
}
