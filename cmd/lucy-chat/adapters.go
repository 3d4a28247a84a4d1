// cmd/lucy-chat/adapters.go
package main

import (
	"lucy-chat/internal/common/logger"

	ar "lucy-chat/internal/workers/conversation/assistant-run"
	da "lucy-chat/internal/workers/conversation/dispatch-action"
	hm "lucy-chat/internal/workers/conversation/handle-message"
	pi "lucy-chat/internal/workers/conversation/parse-intent"
	cg "lucy-chat/internal/workers/cart/cart-gateway"
	lp "lucy-chat/internal/workers/catalog/lookup-product"
	qr "lucy-chat/internal/workers/recipes/query-recipes"
)

// Each worker declares its own Logger whose With returns that interface, so
// the shared logger is wrapped once per worker.

type parseIntentLoggerAdapter struct {
	logger.Logger
}

func (a *parseIntentLoggerAdapter) With(fields map[string]interface{}) pi.Logger {
	return &parseIntentLoggerAdapter{a.Logger.With(fields)}
}

type dispatchActionLoggerAdapter struct {
	logger.Logger
}

func (a *dispatchActionLoggerAdapter) With(fields map[string]interface{}) da.Logger {
	return &dispatchActionLoggerAdapter{a.Logger.With(fields)}
}

type assistantRunLoggerAdapter struct {
	logger.Logger
}

func (a *assistantRunLoggerAdapter) With(fields map[string]interface{}) ar.Logger {
	return &assistantRunLoggerAdapter{a.Logger.With(fields)}
}

type handleMessageLoggerAdapter struct {
	logger.Logger
}

func (a *handleMessageLoggerAdapter) With(fields map[string]interface{}) hm.Logger {
	return &handleMessageLoggerAdapter{a.Logger.With(fields)}
}

type queryRecipesLoggerAdapter struct {
	logger.Logger
}

func (a *queryRecipesLoggerAdapter) With(fields map[string]interface{}) qr.Logger {
	return &queryRecipesLoggerAdapter{a.Logger.With(fields)}
}

type cartGatewayLoggerAdapter struct {
	logger.Logger
}

func (a *cartGatewayLoggerAdapter) With(fields map[string]interface{}) cg.Logger {
	return &cartGatewayLoggerAdapter{a.Logger.With(fields)}
}

type lookupProductLoggerAdapter struct {
	logger.Logger
}

func (a *lookupProductLoggerAdapter) With(fields map[string]interface{}) lp.Logger {
	return &lookupProductLoggerAdapter{a.Logger.With(fields)}
}
