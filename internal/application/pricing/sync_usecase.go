package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	domainpricing "github.com/s25commerce/pricing-api/internal/domain/pricing"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

// SyncUseCase sincronización de precios específicos de cliente.
//
// Hay dos formas de upsert que NO se unifican a propósito:
//   - UpsertNet: el neto es canónico (alta manual del panel e importación CSV);
//     el bruto se deriva con la tasa vigente del producto.
//   - UpsertGross: el bruto es canónico (hook de aceptación de cotizaciones,
//     que parte del total bruto de la línea); el neto se deriva.
//
// Ambas escriben siempre una única regla plana quantityStart=1, quantityEnd=nil.
// La lectura-then-escritura no es atómica: dos ediciones concurrentes sobre el
// mismo par (cliente, producto) resuelven en last-write-wins.
type SyncUseCase struct {
	priceRepo    repository.CustomPriceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	currencyID   string // moneda del sistema para UpsertNet
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(
	priceRepo repository.CustomPriceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	systemCurrencyID string,
) *SyncUseCase {
	return &SyncUseCase{
		priceRepo:    priceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		currencyID:   systemCurrencyID,
	}
}

// UpsertNet crea o sobreescribe el precio de (cliente, producto) con neto canónico.
// Valida que ambos existan y que el precio sea un número finito no negativo.
// Idempotente bajo entrada idéntica: siempre queda exactamente un registro.
func (uc *SyncUseCase) UpsertNet(ctx context.Context, customerID, productID string, net decimal.Decimal) (*dto.CustomPriceResponse, error) {
	if customerID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domainpricing.ValidAmount(net) {
		return nil, domain.ErrInvalidPrice
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	net = net.Round(2)
	gross := domainpricing.GrossFromNet(net, product.TaxRate)

	return uc.upsert(ctx, customerID, productID, entity.PriceValue{
		CurrencyID: uc.currencyID,
		Net:        net,
		Gross:      gross,
		Linked:     true,
	})
}

// UpsertGross crea o sobreescribe el precio de (cliente, producto) con bruto
// canónico, en la moneda indicada. Lo usa exclusivamente el hook de cotizaciones,
// que trae la tasa de la línea aceptada (no la tasa actual del producto).
func (uc *SyncUseCase) UpsertGross(ctx context.Context, customerID, productID string, gross, taxRate decimal.Decimal, currencyID string) (*dto.CustomPriceResponse, error) {
	if customerID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domainpricing.ValidAmount(gross) {
		return nil, domain.ErrInvalidPrice
	}
	if !domainpricing.ValidTaxRate(taxRate) {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if currencyID == "" {
		currencyID = uc.currencyID
	}
	net := domainpricing.NetFromGross(gross, taxRate)

	return uc.upsert(ctx, customerID, productID, entity.PriceValue{
		CurrencyID: currencyID,
		Net:        net,
		Gross:      gross.Round(2),
		Linked:     true,
	})
}

// upsert escribe la regla plana única. Si ya existe registro para el par, lo
// sobreescribe (sin historial); si no, crea uno nuevo.
func (uc *SyncUseCase) upsert(ctx context.Context, customerID, productID string, value entity.PriceValue) (*dto.CustomPriceResponse, error) {
	rules := []entity.PriceRule{{
		QuantityStart: 1,
		QuantityEnd:   nil,
		Prices:        []entity.PriceValue{value},
	}}

	existing, err := uc.priceRepo.GetByCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if existing != nil {
		existing.Rules = rules
		existing.UpdatedAt = now
		if err := uc.priceRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return toCustomPriceResponse(existing), nil
	}

	price := &entity.CustomPrice{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		ProductID:  productID,
		Rules:      rules,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.priceRepo.Create(ctx, price); err != nil {
		return nil, err
	}
	return toCustomPriceResponse(price), nil
}

// GetByID obtiene un precio por ID. Devuelve (nil, nil) si no existe.
func (uc *SyncUseCase) GetByID(ctx context.Context, id string) (*dto.CustomPriceResponse, error) {
	price, err := uc.priceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}
	return toCustomPriceResponse(price), nil
}

// GetByCustomerAndProduct obtiene el precio vigente de un par, para precargar
// el formulario de edición del panel. Devuelve (nil, nil) si no existe.
func (uc *SyncUseCase) GetByCustomerAndProduct(ctx context.Context, customerID, productID string) (*dto.CustomPriceResponse, error) {
	price, err := uc.priceRepo.GetByCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}
	return toCustomPriceResponse(price), nil
}

// List listado paginado para el panel, ordenado por createdAt DESC, con datos
// de cliente y producto unidos.
func (uc *SyncUseCase) List(ctx context.Context, limit, offset int) (*dto.CustomPriceListResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := uc.priceRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomPriceListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toListItem(row))
	}
	return &dto.CustomPriceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un precio de forma permanente (no hay soft-delete).
func (uc *SyncUseCase) Delete(ctx context.Context, id string) error {
	price, err := uc.priceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if price == nil {
		return domain.ErrNotFound
	}
	return uc.priceRepo.Delete(ctx, id)
}

func toCustomPriceResponse(p *entity.CustomPrice) *dto.CustomPriceResponse {
	rules := make([]dto.PriceRuleResponse, 0, len(p.Rules))
	for _, r := range p.Rules {
		prices := make([]dto.PriceValueResponse, 0, len(r.Prices))
		for _, v := range r.Prices {
			prices = append(prices, dto.PriceValueResponse{
				CurrencyID: v.CurrencyID,
				Net:        v.Net,
				Gross:      v.Gross,
				Linked:     v.Linked,
			})
		}
		rules = append(rules, dto.PriceRuleResponse{
			QuantityStart: r.QuantityStart,
			QuantityEnd:   r.QuantityEnd,
			Prices:        prices,
		})
	}
	return &dto.CustomPriceResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		ProductID:  p.ProductID,
		Rules:      rules,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toListItem(row *repository.CustomPriceWithRelations) dto.CustomPriceListItem {
	item := dto.CustomPriceListItem{
		ID:         row.Price.ID,
		CustomerID: row.Price.CustomerID,
		ProductID:  row.Price.ProductID,
		NetPrice:   row.Price.FirstNet(),
		GrossPrice: row.Price.FirstGross(),
		CreatedAt:  row.Price.CreatedAt,
	}
	if row.Customer != nil {
		item.CustomerName = row.Customer.FullName()
	}
	if row.Product != nil {
		item.ProductName = row.Product.Name
		item.SKU = row.Product.SKU
	}
	return item
}
