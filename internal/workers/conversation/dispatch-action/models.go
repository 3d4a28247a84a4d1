// internal/workers/conversation/dispatch-action/models.go
package dispatchaction

import (
	"context"

	"lucy-chat/internal/models"
)

// RecipeQueryService is the read-only recipe source. Empty results are empty
// slices, never errors.
type RecipeQueryService interface {
	All(ctx context.Context) ([]models.Recipe, error)
	ByTitles(ctx context.Context, titles []string) ([]models.Recipe, error)
	SearchAll(ctx context.Context, category string) ([]models.Recipe, error)
}

// CartGateway owns the cart. UpdateQuantity clamps to a minimum of 1.
type CartGateway interface {
	Add(ctx context.Context, product models.Product) error
	Remove(ctx context.Context, productID int) error
	UpdateQuantity(ctx context.Context, productID, quantity int) error
	Lines(ctx context.Context) ([]models.CartLine, error)
}

// ProductCatalog resolves ingredient strings to products, case-insensitively.
type ProductCatalog interface {
	FindByTitle(ctx context.Context, title string) (models.Product, bool, error)
}

// Cart acknowledgement actions
const (
	ActionAddIngredients = "add_ingredients"
	ActionClearCart      = "clear_cart"
	ActionAdjustQuantity = "adjust_quantity"
)
