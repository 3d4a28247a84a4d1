// cmd/lucy-chat/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lucy-chat/internal/common/config"
	"lucy-chat/internal/common/database"
	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/common/logger"
	"lucy-chat/internal/common/metrics"
	"lucy-chat/internal/common/observability"
	"lucy-chat/internal/common/openai"

	ar "lucy-chat/internal/workers/conversation/assistant-run"
	da "lucy-chat/internal/workers/conversation/dispatch-action"
	hm "lucy-chat/internal/workers/conversation/handle-message"
	pi "lucy-chat/internal/workers/conversation/parse-intent"
	cg "lucy-chat/internal/workers/cart/cart-gateway"
	lp "lucy-chat/internal/workers/catalog/lookup-product"
	qr "lucy-chat/internal/workers/recipes/query-recipes"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	// Logs go to stderr by default so stdout stays the chat transcript.
	zapLog := logger.NewWithOptions(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{cfg.Logging.Output},
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting lucy-chat...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(ctx, func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry, only for the postgres catalog ---
	var pg *database.PostgresClient
	if cfg.Catalog.Source == lp.SourcePostgres {
		err = retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	recorder := metrics.NewRecorder()

	// --- Collaborators ---
	recipes := qr.NewService(qr.FromAppConfig(cfg.Recipes), nil, redis, &queryRecipesLoggerAdapter{log})
	cart := cg.NewGateway(cg.FromAppConfig(cfg.Cart), redis.Client, &cartGatewayLoggerAdapter{log})
	products, err := lp.New(lp.FromAppConfig(cfg.Catalog), pg, &lookupProductLoggerAdapter{log})
	if err != nil {
		zapLog.Fatal("product catalog unavailable", zap.Error(err))
	}
	assistant := openai.NewClient(cfg.Assistant.APIKey,
		openai.WithBaseURL(cfg.Assistant.BaseURL),
		openai.WithTimeout(config.GetDuration(cfg.Assistant.RequestTimeout)),
	)

	// --- Pipeline ---
	parser := pi.NewParser(pi.LoadConfig(), &parseIntentLoggerAdapter{log}, recorder)

	dispatchCfg := da.LoadConfig()
	dispatchCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, da.TaskType).Timeout)
	dispatcher := da.NewHandler(dispatchCfg, recipes, cart, products, &dispatchActionLoggerAdapter{log}, recorder)

	runner := ar.NewRunner(ar.FromAppConfig(cfg.Assistant), assistant, &assistantRunLoggerAdapter{log}, recorder)

	handlerCfg := hm.LoadConfig()
	handlerCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, hm.TaskType).Timeout)
	handler := hm.NewHandler(handlerCfg, hm.Dependencies{
		Classifier: parser,
		Dispatcher: dispatcher,
		Runner:     runner,
		Recipes:    recipes,
		Cart:       cart,
		Errors:     apperrors.NewErrorHandler(log, recorder),
	}, &handleMessageLoggerAdapter{log}, obs.Tracer(), obs)

	// --- Health & Metrics Server ---
	var ready atomic.Bool
	if cfg.Metrics.Enabled {
		srv := newOpsServer(cfg.Metrics.Address, ready.Load)
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// --- Session ---
	sess, err := handler.OpenSession(ctx)
	if err != nil {
		zapLog.Error("assistant session bootstrap failed", zap.Error(err))
		return
	}
	ready.Store(true)

	// Unblock the reader on shutdown signals.
	context.AfterFunc(ctx, func() { _ = os.Stdin.Close() })

	if err := runREPL(ctx, os.Stdin, os.Stdout, handler, sess); err != nil {
		zapLog.Error("terminal input failed", zap.Error(err))
	}
	zapLog.Info("lucy-chat stopped", zap.Int("turns", sess.Len()))
}
