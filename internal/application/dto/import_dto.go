package dto

// Motivos de descarte de filas durante la importación CSV.
// La fila se omite sin abortar el lote; el motivo queda en el reporte para que
// el operador sepa qué se saltó (el comportamiento permisivo se conserva).
const (
	SkipMissingColumns  = "missing_required_columns"
	SkipCustomerUnknown = "customer_not_found"
	SkipProductUnknown  = "product_not_found"
	SkipInvalidPrice    = "invalid_price"
	SkipWriteFailed     = "write_failed"
)

// ImportRowResult diagnóstico por fila descartada (línea 1 = primera fila de datos).
type ImportRowResult struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// ImportReport resultado de una importación CSV.
type ImportReport struct {
	Total    int               `json:"total"`    // filas de datos leídas
	Imported int               `json:"imported"` // upserts realizados
	Skipped  []ImportRowResult `json:"skipped"`  // filas descartadas con motivo
}
