package domain

import "github.com/shopspring/decimal"

// Product is a sellable item in the catalog. Price is an exact decimal so
// line subtotals and order totals never accumulate float error.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}
