package search

import (
	"fmt"

	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// --- Test Helpers ---

// testCatalog is a small apparel catalog. No field contains the letters x, y or z.
func testCatalog() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Red Jacket", Description: "Warm wool jacket for winter", Category: model.CategoryRef{ID: 1, Name: "Jackets"}, Manufacturer: "Acme", Colour: "Red", Material: "Wool"},
		{ID: 2, Name: "Blue Jeans", Description: "Slim fit denim jeans", Category: model.CategoryRef{ID: 2, Name: "Pants"}, Manufacturer: "Denimco", Colour: "Blue", Material: "Denim"},
		{ID: 3, Name: "Green Dress", Description: "Light summer dress", Category: model.CategoryRef{ID: 3, Name: "Dresses"}, Manufacturer: "Floral", Colour: "Green", Material: "Cotton"},
		{ID: 4, Name: "Black Boots", Description: "Leather ankle boots", Category: model.CategoryRef{ID: 4, Name: "Shoes"}, Manufacturer: "Acme", Colour: "Black", Material: "Leather"},
		{ID: 5, Name: "White Shirt", Description: "Classic cotton shirt", Category: model.CategoryRef{ID: 5, Name: "Shirts"}, Manufacturer: "Tailor", Colour: "White", Material: "Cotton"},
		{ID: 6, Name: "Blue Denim Jacket", Description: "Denim jacket with brass buttons", Category: model.CategoryRef{ID: 1, Name: "Jackets"}, Manufacturer: "Denimco", Colour: "Blue", Material: "Denim"},
	}
}

func generatedCatalog(n int) []model.Product {
	products := make([]model.Product, n)
	for i := range products {
		products[i] = model.Product{ID: i + 1, Name: fmt.Sprintf("Product %d", i+1)}
	}
	return products
}

func resultIDs(results []services.MatchResult) []int {
	return ResultIDs(results)
}

func productIDs(products []model.Product) []int {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func cloneCatalog(products []model.Product) []model.Product {
	return append([]model.Product(nil), products...)
}
