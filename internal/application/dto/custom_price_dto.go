package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertCustomPriceRequest entrada del alta/edición manual desde el panel.
// El precio se captura en neto; el bruto se deriva con la tasa del producto.
type UpsertCustomPriceRequest struct {
	CustomerID string          `json:"customer_id" validate:"required,uuid"`
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	NetPrice   decimal.Decimal `json:"net_price"`
}

// PriceValueResponse precio por moneda dentro de una regla.
type PriceValueResponse struct {
	CurrencyID string          `json:"currency_id"`
	Net        decimal.Decimal `json:"net"`
	Gross      decimal.Decimal `json:"gross"`
	Linked     bool            `json:"linked"`
}

// PriceRuleResponse regla de precio por tramo de cantidad.
type PriceRuleResponse struct {
	QuantityStart int                  `json:"quantity_start"`
	QuantityEnd   *int                 `json:"quantity_end"`
	Prices        []PriceValueResponse `json:"prices"`
}

// CustomPriceResponse salida de un precio específico de cliente.
type CustomPriceResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	ProductID  string              `json:"product_id"`
	Rules      []PriceRuleResponse `json:"rules"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CustomPriceListItem fila del listado del panel con datos de cliente y producto unidos.
// NetPrice/GrossPrice vienen de la primera regla; "N/A" se resuelve en el front.
type CustomPriceListItem struct {
	ID           string           `json:"id"`
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	SKU          string           `json:"sku"`
	NetPrice     *decimal.Decimal `json:"net_price"`
	GrossPrice   *decimal.Decimal `json:"gross_price"`
	CreatedAt    time.Time        `json:"created_at"`
}

// CustomPriceListResponse listado paginado para el panel.
type CustomPriceListResponse struct {
	Items []CustomPriceListItem `json:"items"`
	Page  PageResponse          `json:"page"`
}
