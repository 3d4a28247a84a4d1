package models

// Product is one entry of the grocery catalog. Ingredient strings resolve to products
// by case-insensitive title equality.
type Product struct {
	ID                 int      `json:"id" db:"id"`
	Title              string   `json:"title" db:"title"`
	Description        string   `json:"description" db:"description"`
	Price              float64  `json:"price" db:"price"`
	DiscountPercentage float64  `json:"discountPercentage" db:"discount_percentage"`
	Rating             float64  `json:"rating" db:"rating"`
	Stock              int      `json:"stock" db:"stock"`
	Brand              string   `json:"brand" db:"brand"`
	Category           string   `json:"category" db:"category"`
	Thumbnail          string   `json:"thumbnail" db:"thumbnail"`
	Images             []string `json:"images,omitempty" db:"-"`
}
