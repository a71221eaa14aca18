// Package quotes procesa los cambios de estado de cotizaciones B2B que entrega
// el sistema externo de quotes (webhook HTTP o evento Kafka).
package quotes

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

// AcceptUseCase hook de aceptación de cotizaciones.
//
// Solo reacciona a la transición al estado "accepted". Por cada línea marcada
// con el custom field persistPrice compara el total bruto de la línea contra
// el precio bruto de catálogo del producto; si difieren, persiste el precio de
// la cotización como precio específico del cliente (bruto canónico, el neto se
// deriva de la PRIMERA regla de impuesto de la línea — líneas con varias tasas
// no se manejan correctamente, limitación documentada).
//
// Sin transaccionalidad entre líneas: un fallo deja esa línea sin sincronizar
// y el resto continúa.
type AcceptUseCase struct {
	productRepo repository.ProductRepository
	sync        *pricing.SyncUseCase
	log         *logger.Logger
}

// NewAcceptUseCase construye el caso de uso.
func NewAcceptUseCase(productRepo repository.ProductRepository, sync *pricing.SyncUseCase, log *logger.Logger) *AcceptUseCase {
	return &AcceptUseCase{productRepo: productRepo, sync: sync, log: log}
}

// HandleStateChanged procesa un evento de cambio de estado. Estados distintos
// de "accepted" se ignoran con resultado vacío.
func (uc *AcceptUseCase) HandleStateChanged(ctx context.Context, event dto.QuoteStateChangedEvent) (*dto.QuoteHookResult, error) {
	result := &dto.QuoteHookResult{QuoteID: event.QuoteID}
	if event.ToState != entity.QuoteStateAccepted {
		return result, nil
	}

	quote := event.Quote
	if quote.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}

	products, err := uc.prefetchProducts(ctx, quote.LineItems)
	if err != nil {
		return nil, err
	}

	for _, line := range quote.LineItems {
		if !line.PersistPrice() {
			continue
		}
		result.Inspected++

		synced, err := uc.syncLineItem(ctx, &quote, &line, products[line.ProductID])
		if err != nil {
			result.Failed++
			uc.log.Error().Err(err).
				Str("quote_id", quote.ID).
				Str("line_item_id", line.ID).
				Str("product_id", line.ProductID).
				Msg("línea de cotización no sincronizada")
			continue
		}
		if synced {
			result.Synced++
		}
	}

	uc.log.Info().
		Str("quote_id", quote.ID).
		Int("inspected", result.Inspected).
		Int("synced", result.Synced).
		Int("failed", result.Failed).
		Msg("cotización aceptada procesada")
	return result, nil
}

// prefetchProducts trae en una sola consulta los productos de todas las líneas
// marcadas. Un ID sin producto simplemente no aparece en el mapa; esa línea
// fallará de forma individual al procesarse.
func (uc *AcceptUseCase) prefetchProducts(ctx context.Context, lines []entity.QuoteLineItem) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.PersistPrice() {
			ids = append(ids, line.ProductID)
		}
	}
	byID := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// syncLineItem devuelve true si la línea produjo un upsert (precio divergente).
func (uc *AcceptUseCase) syncLineItem(ctx context.Context, quote *entity.Quote, line *entity.QuoteLineItem, product *entity.Product) (bool, error) {
	if product == nil {
		return false, domain.ErrProductNotFound
	}

	catalogGross, err := catalogGrossInCurrency(product, quote.CurrencyID)
	if err != nil {
		return false, err
	}

	taxRate, ok := line.FirstTaxRate()
	if !ok {
		// Sin reglas de impuesto no hay forma de derivar el neto; usar la tasa
		// actual del producto como aproximación.
		taxRate = product.TaxRate
	}

	// Solo persiste si el total de la línea difiere del bruto de catálogo.
	if line.TotalPrice.Equal(catalogGross) {
		return false, nil
	}

	_, err = uc.sync.UpsertGross(ctx, quote.CustomerID, line.ProductID, line.TotalPrice, taxRate, quote.CurrencyID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// catalogGrossInCurrency bruto de catálogo en la moneda de la cotización; si el
// producto no tiene precio en esa moneda cae a la primera entrada del price list.
func catalogGrossInCurrency(product *entity.Product, currencyID string) (decimal.Decimal, error) {
	if len(product.Prices) == 0 {
		return decimal.Zero, domain.ErrPriceNotFound
	}
	for _, p := range product.Prices {
		if p.CurrencyID == currencyID {
			return p.Gross, nil
		}
	}
	return product.Prices[0].Gross, nil
}
