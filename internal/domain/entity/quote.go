package entity

import "github.com/shopspring/decimal"

// Estado de cotización que dispara la persistencia de precios.
const QuoteStateAccepted = "accepted"

// PersistPriceField custom field que marca una línea para persistir su precio
// al aceptarse la cotización.
const PersistPriceField = "persistPrice"

// TaxRule regla de impuesto aplicada sobre una línea de cotización.
type TaxRule struct {
	TaxRate    decimal.Decimal `json:"taxRate"`    // porcentaje: 19 = 19%
	Percentage decimal.Decimal `json:"percentage"` // porción de la base gravada con esta tasa
}

// QuoteLineItem línea de una cotización B2B. TotalPrice es bruto (IVA incluido).
// Las cotizaciones son propiedad del sistema externo de quotes; aquí solo se
// leen desde el payload del webhook o del evento Kafka.
type QuoteLineItem struct {
	ID           string                 `json:"id"`
	ProductID    string                 `json:"productId"`
	Quantity     int                    `json:"quantity"`
	TotalPrice   decimal.Decimal        `json:"totalPrice"`
	TaxRules     []TaxRule              `json:"taxRules"`
	CustomFields map[string]interface{} `json:"customFields"`
}

// PersistPrice indica si la línea está marcada para persistir su precio.
// Cualquier valor truthy del custom field cuenta (bool true, "1", números != 0).
func (li *QuoteLineItem) PersistPrice() bool {
	if li.CustomFields == nil {
		return false
	}
	v, ok := li.CustomFields[PersistPriceField]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "0" && t != "false"
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return v != nil
	}
}

// FirstTaxRate devuelve la tasa de la primera regla de impuesto y si existe.
// Solo se considera la primera regla; líneas con múltiples tasas no se manejan
// correctamente (limitación documentada).
func (li *QuoteLineItem) FirstTaxRate() (decimal.Decimal, bool) {
	if len(li.TaxRules) == 0 {
		return decimal.Zero, false
	}
	return li.TaxRules[0].TaxRate, true
}

// Quote cotización B2B entregada por el sistema externo al cambiar de estado.
type Quote struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	CurrencyID string          `json:"currencyId"`
	State      string          `json:"state"`
	LineItems  []QuoteLineItem `json:"lineItems"`
}
