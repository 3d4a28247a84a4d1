// internal/workers/recipes/query-recipes/handler.go
package queryrecipes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"lucy-chat/internal/common/database"
	apperrors "lucy-chat/internal/common/errors"
	httpclient "lucy-chat/internal/common/http"
	"lucy-chat/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "query-recipes"
)

var (
	ErrRecipeQueryFailed = errors.New("RECIPE_QUERY_FAILED")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

var searchModes = []searchMode{
	{name: "search", path: func(c string) string { return "/recipes/search?q=" + url.QueryEscape(c) }},
	{name: "tag", path: func(c string) string { return "/recipes/tag/" + url.PathEscape(c) }},
	{name: "meal-type", path: func(c string) string { return "/recipes/meal-type/" + url.PathEscape(c) }},
}

// Service reads recipes from a dummyjson-compatible API. Responses are cached
// when a cache is configured.
type Service struct {
	config *Config
	client JSONDoer
	cache  Cache
	logger Logger
}

// NewService creates the service. cache may be nil.
func NewService(config *Config, client JSONDoer, cache Cache, log Logger) *Service {
	if config == nil {
		config = LoadConfig()
	}
	if client == nil {
		client = httpclient.NewClient(config.Timeout)
	}
	return &Service{
		config: config,
		client: client,
		cache:  cache,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// All returns the whole recipe collection.
func (s *Service) All(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.cached(ctx, "all", func(ctx context.Context) ([]models.Recipe, error) {
		return s.fetch(ctx, "/recipes?limit=0")
	})
	if err != nil {
		return nil, apperrors.NewRecipeQueryFailedError("all", fmt.Errorf("%w: %w", ErrRecipeQueryFailed, err))
	}
	return recipes, nil
}

// ByTitles returns the recipes whose every ingredient is one of titles.
func (s *Service) ByTitles(ctx context.Context, titles []string) ([]models.Recipe, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	have := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		have[t] = struct{}{}
	}

	matched := []models.Recipe{}
	for _, r := range all {
		if len(r.MissingIngredients(have)) == 0 {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// SearchAll queries the free-text, tag and meal-type endpoints concurrently
// and merges the results in that order, dropping repeated recipe ids.
func (s *Service) SearchAll(ctx context.Context, category string) ([]models.Recipe, error) {
	if strings.TrimSpace(category) == "" {
		s.logger.Warn("search without category", nil)
		return []models.Recipe{}, nil
	}

	results := make([][]models.Recipe, len(searchModes))
	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range searchModes {
		g.Go(func() error {
			key := mode.name + ":" + strings.ToLower(category)
			recipes, err := s.cached(gctx, key, func(ctx context.Context) ([]models.Recipe, error) {
				return s.fetch(ctx, mode.path(category))
			})
			if err != nil {
				return apperrors.NewRecipeQueryFailedError(mode.name, fmt.Errorf("%w: %w", ErrRecipeQueryFailed, err))
			}
			results[i] = recipes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeUnique(results...)
	s.logger.Info("recipes searched", map[string]interface{}{
		"category": category,
		"results":  len(merged),
	})
	return merged, nil
}

// fetch returns the recipes at path. A 404 means no matches.
func (s *Service) fetch(ctx context.Context, path string) ([]models.Recipe, error) {
	var list models.RecipeList
	err := s.client.DoJSON(ctx, http.MethodGet, s.config.BaseURL+path, nil, &list)
	if httpclient.IsNotFound(err) {
		return []models.Recipe{}, nil
	}
	if err != nil {
		return nil, err
	}
	if list.Recipes == nil {
		list.Recipes = []models.Recipe{}
	}
	return list.Recipes, nil
}

func (s *Service) cached(ctx context.Context, key string, load func(context.Context) ([]models.Recipe, error)) ([]models.Recipe, error) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return load(ctx)
	}

	fullKey := s.config.CacheKeyPrefix + ":" + key
	var recipes []models.Recipe
	err := s.cache.GetJSON(ctx, fullKey, &recipes)
	if err == nil {
		return recipes, nil
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		s.logger.Warn("recipe cache read failed", map[string]interface{}{
			"key":   fullKey,
			"error": err.Error(),
		})
	}

	recipes, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, fullKey, recipes, s.config.CacheTTL); err != nil {
		s.logger.Warn("recipe cache write failed", map[string]interface{}{
			"key":   fullKey,
			"error": err.Error(),
		})
	}
	return recipes, nil
}

func mergeUnique(lists ...[]models.Recipe) []models.Recipe {
	seen := make(map[int]struct{})
	merged := []models.Recipe{}
	for _, list := range lists {
		for _, r := range list {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}
