package models

import "strings"

// CartLine is one product id + quantity pair in the cart.
type CartLine struct {
	ProductID int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Quantity  int     `json:"quantity"`
}

// NewCartLine creates a line for a product with quantity 1
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
		Quantity:  1,
	}
}

// CartTitles returns the titles of the lines, in cart order.
func CartTitles(lines []CartLine) []string {
	titles := make([]string, len(lines))
	for i, l := range lines {
		titles[i] = l.Title
	}
	return titles
}

// FindCartLine resolves a line by case-insensitive title match.
func FindCartLine(lines []CartLine, title string) (CartLine, bool) {
	for _, l := range lines {
		if strings.EqualFold(l.Title, title) {
			return l, true
		}
	}
	return CartLine{}, false
}
