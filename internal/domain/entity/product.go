package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo identificado por SKU.
// Prices es la lista de precios de catálogo por moneda; la primera entrada es
// el precio por defecto del sistema ("original price" en las páginas de producto).
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	TaxRate   decimal.Decimal // porcentaje entero: 0, 5, 19
	Prices    []PriceValue
	CreatedAt time.Time
	UpdatedAt time.Time
}
