package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopcore/internal/catalog/domain"
)

// ReferenceProducts is the sample catalog loaded at startup.
func ReferenceProducts() []domain.Product {
	return []domain.Product{
		{ID: "P001", Name: "Laptop", Description: "High-performance laptop", Price: decimal.RequireFromString("999.99"), Stock: 10, Category: "Electronics"},
		{ID: "P002", Name: "Smartphone", Description: "Latest smartphone", Price: decimal.RequireFromString("699.99"), Stock: 25, Category: "Electronics"},
		{ID: "P003", Name: "Headphones", Description: "Wireless headphones", Price: decimal.RequireFromString("149.99"), Stock: 50, Category: "Electronics"},
		{ID: "P004", Name: "Book", Description: "Programming guide", Price: decimal.RequireFromString("39.99"), Stock: 100, Category: "Books"},
		{ID: "P005", Name: "Mouse", Description: "Wireless mouse", Price: decimal.RequireFromString("29.99"), Stock: 75, Category: "Electronics"},
	}
}

// Seed adds the reference products to the catalog.
func Seed(ctx context.Context, s *Service) error {
	for _, p := range ReferenceProducts() {
		if err := s.Add(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
