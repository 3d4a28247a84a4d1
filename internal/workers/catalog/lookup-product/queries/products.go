// internal/workers/catalog/lookup-product/queries/products.go
package queries

import (
	"context"
	"database/sql"

	"lucy-chat/internal/models"
)

const CreateProductsTable = `
	CREATE TABLE IF NOT EXISTS products (
		id                  INTEGER PRIMARY KEY,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		price               NUMERIC(10,2) NOT NULL,
		discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
		rating              NUMERIC(3,2) NOT NULL DEFAULT 0,
		stock               INTEGER NOT NULL DEFAULT 0,
		brand               TEXT NOT NULL DEFAULT '',
		category            TEXT NOT NULL DEFAULT '',
		thumbnail           TEXT NOT NULL DEFAULT ''
	)`

const selectByTitle = `
	SELECT id, title, description, price, discount_percentage,
	       rating, stock, brand, category, thumbnail
	FROM products
	WHERE lower(title) = lower($1)
	ORDER BY id
	LIMIT 1`

const upsertProduct = `
	INSERT INTO products (id, title, description, price, discount_percentage,
	                      rating, stock, brand, category, thumbnail)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		discount_percentage = EXCLUDED.discount_percentage,
		rating = EXCLUDED.rating,
		stock = EXCLUDED.stock,
		brand = EXCLUDED.brand,
		category = EXCLUDED.category,
		thumbnail = EXCLUDED.thumbnail`

// ProductByTitle returns sql.ErrNoRows when no product has the title.
func ProductByTitle(ctx context.Context, db *sql.DB, title string) (models.Product, error) {
	var p models.Product
	err := db.QueryRowContext(ctx, selectByTitle, title).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.DiscountPercentage,
		&p.Rating, &p.Stock, &p.Brand, &p.Category, &p.Thumbnail,
	)
	return p, err
}

func UpsertProduct(ctx context.Context, tx *sql.Tx, p models.Product) error {
	_, err := tx.ExecContext(ctx, upsertProduct,
		p.ID, p.Title, p.Description, p.Price, p.DiscountPercentage,
		p.Rating, p.Stock, p.Brand, p.Category, p.Thumbnail,
	)
	return err
}
