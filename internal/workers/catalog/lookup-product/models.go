// internal/workers/catalog/lookup-product/models.go
package lookupproduct

import (
	"context"

	"lucy-chat/internal/models"
)

// Catalog resolves an ingredient string to a product by case-insensitive title.
type Catalog interface {
	FindByTitle(ctx context.Context, title string) (models.Product, bool, error)
}
