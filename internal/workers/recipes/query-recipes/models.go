// internal/workers/recipes/query-recipes/models.go
package queryrecipes

import (
	"context"
	"time"
)

// Cache stores decoded JSON values. *database.RedisClient satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, out interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// JSONDoer performs one JSON request. *http.Client from internal/common/http
// satisfies it.
type JSONDoer interface {
	DoJSON(ctx context.Context, method, url string, body, out interface{}) error
}

// searchMode is one of the lookup endpoints a search fans out to.
type searchMode struct {
	name string
	path func(category string) string
}
