// internal/workers/recipes/query-recipes/handler_test.go
package queryrecipes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lucy-chat/internal/common/config"
	"lucy-chat/internal/common/database"
	apperrors "lucy-chat/internal/common/errors"
	httpclient "lucy-chat/internal/common/http"
	"lucy-chat/internal/models"

	"github.com/alicebob/miniredis/v2"
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
	pizza     = models.Recipe{ID: 1, Name: "Pizza", Ingredients: []string{"Flour", "Cheese"}}
	salad     = models.Recipe{ID: 2, Name: "Salad", Ingredients: []string{"Lettuce"}}
	carbonara = models.Recipe{ID: 3, Name: "Pasta Carbonara", Ingredients: []string{"Pasta", "Egg"}}
	pastaSal  = models.Recipe{ID: 4, Name: "Pasta Salad", Ingredients: []string{"Pasta", "Lettuce"}}
)

type recipeAPI struct {
	server   *httptest.Server
	hits     atomic.Int32
	failPath string
}

func newRecipeAPI(t *testing.T) *recipeAPI {
	api := &recipeAPI{}
	write := func(w http.ResponseWriter, recipes ...models.Recipe) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.RecipeList{Recipes: recipes, Total: len(recipes)})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/recipes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		write(w, pizza, salad, carbonara)
	})
	mux.HandleFunc("/recipes/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pasta", r.URL.Query().Get("q"))
		write(w, carbonara)
	})
	mux.HandleFunc("/recipes/tag/", func(w http.ResponseWriter, r *http.Request) {
		write(w, carbonara, pastaSal)
	})
	mux.HandleFunc("/recipes/meal-type/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		if api.failPath != "" && r.URL.Path == api.failPath {
			http.Error(w, "upstream unavailable", http.StatusInternalServerError)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.server.Close)
	return api
}

func createTestConfig(baseURL string) *Config {
	cfg := LoadConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return cfg
}

func newCache(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr := miniredis.RunT(t)
	rc, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func names(recipes []models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_All(t *testing.T) {
	api := newRecipeAPI(t)
	svc := NewService(createTestConfig(api.server.URL), nil, nil, NewTestLogger(t))

	recipes, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Salad", "Pasta Carbonara"}, names(recipes))
}

func TestService_ByTitles(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{name: "exact subsets", titles: []string{"Flour", "Cheese", "Lettuce"}, want: []string{"Pizza", "Salad"}},
		{name: "partial match excluded", titles: []string{"Flour"}, want: []string{}},
		{name: "case sensitive", titles: []string{"lettuce"}, want: []string{}},
		{name: "empty cart", titles: nil, want: []string{}},
	}

	api := newRecipeAPI(t)
	svc := NewService(createTestConfig(api.server.URL), nil, nil, NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := svc.ByTitles(context.Background(), tt.titles)
			require.NoError(t, err)
			require.NotNil(t, recipes)
			assert.Equal(t, tt.want, names(recipes))
		})
	}
}

func TestService_SearchAllMergesInOrder(t *testing.T) {
	api := newRecipeAPI(t)
	svc := NewService(createTestConfig(api.server.URL), nil, nil, NewTestLogger(t))

	recipes, err := svc.SearchAll(context.Background(), "pasta")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta Carbonara", "Pasta Salad"}, names(recipes))
	assert.Equal(t, int32(3), api.hits.Load())
}

func TestService_SearchAllWithoutCategory(t *testing.T) {
	api := newRecipeAPI(t)
	svc := NewService(createTestConfig(api.server.URL), nil, nil, NewTestLogger(t))

	recipes, err := svc.SearchAll(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Equal(t, int32(0), api.hits.Load())
}

func TestMergeUnique(t *testing.T) {
	merged := mergeUnique(
		[]models.Recipe{carbonara},
		[]models.Recipe{pastaSal, carbonara},
		nil,
		[]models.Recipe{pizza, pastaSal},
	)
	assert.Equal(t, []string{"Pasta Carbonara", "Pasta Salad", "Pizza"}, names(merged))
}

// ==========================
// Cache Tests
// ==========================

func TestService_CachesCollection(t *testing.T) {
	api := newRecipeAPI(t)
	mr, cache := newCache(t)
	svc := NewService(createTestConfig(api.server.URL), nil, cache, NewTestLogger(t))

	for i := 0; i < 3; i++ {
		recipes, err := svc.All(context.Background())
		require.NoError(t, err)
		assert.Len(t, recipes, 3)
	}
	assert.Equal(t, int32(1), api.hits.Load())

	key := "lucy:recipes:all"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 5*time.Minute, mr.TTL(key))

	mr.FastForward(6 * time.Minute)
	_, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestService_CachesSearchPerMode(t *testing.T) {
	api := newRecipeAPI(t)
	mr, cache := newCache(t)
	svc := NewService(createTestConfig(api.server.URL), nil, cache, NewTestLogger(t))

	_, err := svc.SearchAll(context.Background(), "pasta")
	require.NoError(t, err)
	_, err = svc.SearchAll(context.Background(), "Pasta")
	require.NoError(t, err)

	assert.Equal(t, int32(3), api.hits.Load())
	assert.True(t, mr.Exists("lucy:recipes:tag:pasta"))
	assert.True(t, mr.Exists("lucy:recipes:meal-type:pasta"))
}

func TestService_CorruptCacheEntryRefetches(t *testing.T) {
	api := newRecipeAPI(t)
	mr, cache := newCache(t)
	require.NoError(t, mr.Set("lucy:recipes:all", "not json"))
	svc := NewService(createTestConfig(api.server.URL), nil, cache, NewTestLogger(t))

	recipes, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
	assert.Equal(t, int32(1), api.hits.Load())
}

func TestService_CacheUnavailable(t *testing.T) {
	api := newRecipeAPI(t)
	mr, cache := newCache(t)
	mr.Close()
	svc := NewService(createTestConfig(api.server.URL), nil, cache, NewTestLogger(t))

	recipes, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}

// ==========================
// Error Handling Tests
// ==========================

func TestService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		failPath string
		call     func(s *Service) error
		wantMode string
	}{
		{
			name:     "collection",
			failPath: "/recipes",
			call:     func(s *Service) error { _, err := s.All(context.Background()); return err },
			wantMode: "all",
		},
		{
			name:     "by titles",
			failPath: "/recipes",
			call:     func(s *Service) error { _, err := s.ByTitles(context.Background(), []string{"Flour"}); return err },
			wantMode: "all",
		},
		{
			name:     "tag lookup",
			failPath: "/recipes/tag/pasta",
			call:     func(s *Service) error { _, err := s.SearchAll(context.Background(), "pasta"); return err },
			wantMode: "tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newRecipeAPI(t)
			api.failPath = tt.failPath
			svc := NewService(createTestConfig(api.server.URL), nil, nil, NewTestLogger(t))

			err := tt.call(svc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRecipeQueryFailed)
			assert.Equal(t, apperrors.ErrCodeRecipeQueryFailed, apperrors.CodeOf(err))

			var se *apperrors.StandardError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantMode, se.Metadata["mode"])

			var statusErr *httpclient.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.RecipesConfig{BaseURL: "http://recipes.local/", Timeout: 2500, CacheTTL: 0})
	assert.Equal(t, "http://recipes.local", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
}
