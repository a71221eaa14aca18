package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceValue precio en una moneda concreta. Linked indica que net y gross se
// mantienen consistentes vía la tasa de impuesto en lugar de editarse por separado.
type PriceValue struct {
	CurrencyID string          `json:"currencyId"`
	Net        decimal.Decimal `json:"net"`
	Gross      decimal.Decimal `json:"gross"`
	Linked     bool            `json:"linked"`
}

// PriceRule regla de precio por tramo de cantidad [QuantityStart, QuantityEnd].
// QuantityEnd nil significa tramo abierto (sin tope superior).
type PriceRule struct {
	QuantityStart int          `json:"quantityStart"`
	QuantityEnd   *int         `json:"quantityEnd"`
	Prices        []PriceValue `json:"price"`
}

// CustomPrice precio específico de un cliente para un producto.
// Único por (CustomerID, ProductID); se sobreescribe al re-guardar, sin historial.
type CustomPrice struct {
	ID         string
	CustomerID string
	ProductID  string
	Rules      []PriceRule
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FirstNet devuelve el net de la primera regla/primer precio, o nil si no hay.
// Es el valor que exporta la columna "Custom WS Price" del CSV.
func (p *CustomPrice) FirstNet() *decimal.Decimal {
	if len(p.Rules) == 0 || len(p.Rules[0].Prices) == 0 {
		return nil
	}
	net := p.Rules[0].Prices[0].Net
	return &net
}

// FirstGross devuelve el gross de la primera regla/primer precio, o nil si no hay.
func (p *CustomPrice) FirstGross() *decimal.Decimal {
	if len(p.Rules) == 0 || len(p.Rules[0].Prices) == 0 {
		return nil
	}
	gross := p.Rules[0].Prices[0].Gross
	return &gross
}
