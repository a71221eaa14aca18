// Package kafka consume eventos de cambio de estado de cotizaciones publicados
// por el sistema externo de quotes. Es una vía alternativa al webhook HTTP y se
// habilita por configuración.
package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/quotes"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

// QuoteConsumer lee eventos quote.state-changed y los entrega al hook de
// aceptación. Un mensaje malformado se registra y se descarta; nunca detiene
// el consumo.
type QuoteConsumer struct {
	reader *kafka.Reader
	accept *quotes.AcceptUseCase
	log    *logger.Logger
}

// Config parámetros del consumidor.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewQuoteConsumer construye el consumidor sobre segmentio/kafka-go.
func NewQuoteConsumer(cfg Config, accept *quotes.AcceptUseCase, log *logger.Logger) *QuoteConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &QuoteConsumer{reader: reader, accept: accept, log: log}
}

// Run consume mensajes hasta que el contexto se cancele. Bloqueante; lanzarlo
// en su propia goroutine.
func (c *QuoteConsumer) Run(ctx context.Context) {
	c.log.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("Consumidor de cotizaciones iniciado")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.log.Error().Err(err).Msg("Error leyendo mensaje de Kafka")
			continue
		}
		c.processMessage(ctx, msg)
	}
}

func (c *QuoteConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	var event dto.QuoteStateChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Error().Err(err).
			Str("key", string(msg.Key)).
			Msg("Evento de cotización malformado, descartado")
		return
	}

	result, err := c.accept.HandleStateChanged(ctx, event)
	if err != nil {
		c.log.Error().Err(err).
			Str("quote_id", event.QuoteID).
			Str("to_state", event.ToState).
			Msg("Error procesando evento de cotización")
		return
	}
	if result.Inspected > 0 {
		c.log.Info().
			Str("quote_id", result.QuoteID).
			Int("synced", result.Synced).
			Int("failed", result.Failed).
			Msg("Evento de cotización procesado")
	}
}

// Close cierra el reader y confirma los offsets pendientes.
func (c *QuoteConsumer) Close() error {
	return c.reader.Close()
}
