package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// NetPrice es el precio de catálogo neto en la moneda del sistema; el bruto se deriva.
type CreateProductRequest struct {
	SKU      string          `json:"sku" validate:"required,min=1,max=100"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	NetPrice decimal.Decimal `json:"net_price"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	TaxRate  *decimal.Decimal `json:"tax_rate"`
	NetPrice *decimal.Decimal `json:"net_price"`
}

// ProductResponse salida de un producto.
// OriginalPrice es el bruto de la primera entrada del price list; en listados
// puede ser nil (best-effort), en el detalle su ausencia es error duro.
type ProductResponse struct {
	ID            string               `json:"id"`
	SKU           string               `json:"sku"`
	Name          string               `json:"name"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`
	Prices        []PriceValueResponse `json:"prices"`
	OriginalPrice *decimal.Decimal     `json:"original_price"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ProductListResponse lista paginada de productos (selector search-as-you-type).
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
