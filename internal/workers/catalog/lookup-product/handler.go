// internal/workers/catalog/lookup-product/handler.go
package lookupproduct

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lucy-chat/internal/common/database"
	apperrors "lucy-chat/internal/common/errors"
	"lucy-chat/internal/models"
	"lucy-chat/internal/workers/catalog/lookup-product/queries"
	"lucy-chat/pkg/catalog"
)

const (
	TaskType = "lookup-product"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

var (
	ErrCatalogLookupFailed = errors.New("CATALOG_LOOKUP_FAILED")
	ErrUnknownSource       = errors.New("UNKNOWN_CATALOG_SOURCE")
)

// New builds the catalog for config.Source. pg is required for the postgres source.
func New(config *Config, pg *database.PostgresClient, log Logger) (Catalog, error) {
	if config == nil {
		config = LoadConfig()
	}
	switch config.Source {
	case SourceFile:
		return NewFileCatalog(config, log)
	case SourcePostgres:
		if pg == nil {
			return nil, fmt.Errorf("%w: postgres client is required", ErrUnknownSource)
		}
		return NewPostgresCatalog(config, pg, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, config.Source)
	}
}

// FileCatalog serves products from a products.json file loaded at startup.
type FileCatalog struct {
	products []models.Product
	byTitle  map[string]models.Product
	logger   Logger
}

func NewFileCatalog(config *Config, log Logger) (*FileCatalog, error) {
	products, err := catalog.Load(config.Path)
	if err != nil {
		return nil, apperrors.NewCatalogLookupFailedError("", fmt.Errorf("%w: %w", ErrCatalogLookupFailed, err))
	}
	return newFileCatalog(products, log.With(map[string]interface{}{
		"taskType": TaskType,
		"path":     config.Path,
	})), nil
}

func newFileCatalog(products []models.Product, log Logger) *FileCatalog {
	byTitle := make(map[string]models.Product, len(products))
	for _, p := range products {
		key := strings.ToLower(p.Title)
		if _, exists := byTitle[key]; !exists {
			byTitle[key] = p
		}
	}
	log.Info("product catalog loaded", map[string]interface{}{"products": len(products)})
	return &FileCatalog{products: products, byTitle: byTitle, logger: log}
}

func (c *FileCatalog) FindByTitle(_ context.Context, title string) (models.Product, bool, error) {
	p, ok := c.byTitle[strings.ToLower(title)]
	return p, ok, nil
}

// Products returns every product in file order.
func (c *FileCatalog) Products() []models.Product {
	return c.products
}

// PostgresCatalog serves products from the products table.
type PostgresCatalog struct {
	config *Config
	pg     *database.PostgresClient
	logger Logger
}

func NewPostgresCatalog(config *Config, pg *database.PostgresClient, log Logger) *PostgresCatalog {
	return &PostgresCatalog{
		config: config,
		pg:     pg,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (c *PostgresCatalog) FindByTitle(ctx context.Context, title string) (models.Product, bool, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	p, err := queries.ProductByTitle(ctx, c.pg.DB, title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, false, nil
	}
	if err != nil {
		c.logger.Error("product lookup failed", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
		return models.Product{}, false, apperrors.NewCatalogLookupFailedError(title,
			fmt.Errorf("%w: %w", ErrCatalogLookupFailed, err))
	}
	return p, true, nil
}

// Seed creates the products table if needed and upserts products in one
// transaction.
func (c *PostgresCatalog) Seed(ctx context.Context, products []models.Product) error {
	err := c.pg.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, queries.CreateProductsTable); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		for _, p := range products {
			if err := queries.UpsertProduct(ctx, tx, p); err != nil {
				return fmt.Errorf("upsert product %d: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.NewCatalogLookupFailedError("", fmt.Errorf("%w: seed: %w", ErrCatalogLookupFailed, err))
	}
	c.logger.Info("product catalog seeded", map[string]interface{}{"products": len(products)})
	return nil
}
