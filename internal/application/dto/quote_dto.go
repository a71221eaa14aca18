package dto

import "github.com/s25commerce/pricing-api/internal/domain/entity"

// QuoteStateChangedEvent payload del webhook HTTP y del evento Kafka.
// El sistema externo de cotizaciones entrega la cotización completa; aquí solo
// se lee. Únicamente el estado "accepted" dispara la persistencia de precios.
type QuoteStateChangedEvent struct {
	QuoteID  string       `json:"quoteId"`
	ToState  string       `json:"toState"`
	Quote    entity.Quote `json:"quote"`
	SentAtMS int64        `json:"sentAt,omitempty"`
}

// QuoteHookResult resumen de lo procesado por el hook de aceptación.
type QuoteHookResult struct {
	QuoteID   string `json:"quote_id"`
	Inspected int    `json:"inspected"` // líneas con persistPrice activado
	Synced    int    `json:"synced"`    // upserts realizados
	Failed    int    `json:"failed"`    // líneas con error (se continúa con el resto)
}
