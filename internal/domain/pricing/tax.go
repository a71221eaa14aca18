// Package pricing contiene la aritmética net/gross compartida por la
// sincronización de precios, la importación CSV y el hook de cotizaciones.
//
// Invariante: gross = net × (1 + taxRate/100), redondeado a 2 decimales.
// El campo linked=true indica que ambos valores se derivan uno del otro con la
// tasa vigente al momento de escribir; nunca se editan de forma independiente.
package pricing

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// GrossFromNet calcula el precio bruto a partir del neto y la tasa (porcentaje entero).
// Camino canónico del alta manual y la importación CSV: el neto manda.
func GrossFromNet(net, taxRate decimal.Decimal) decimal.Decimal {
	factor := one.Add(taxRate.Div(hundred))
	return net.Mul(factor).Round(2)
}

// NetFromGross calcula el precio neto a partir del bruto y la tasa (porcentaje entero).
// Camino canónico del hook de aceptación de cotizaciones: el bruto de la línea manda.
func NetFromGross(gross, taxRate decimal.Decimal) decimal.Decimal {
	factor := one.Add(taxRate.Div(hundred))
	return gross.Div(factor).Round(2)
}

// ValidAmount valida que un precio sea un número finito no negativo.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative()
}

// ValidTaxRate valida que una tasa sea no negativa. Con -100 el divisor de
// NetFromGross sería cero; el payload de cotizaciones es externo y puede traer
// cualquier valor.
func ValidTaxRate(d decimal.Decimal) bool {
	return !d.IsNegative()
}
