package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/pricing"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

// SKUInvalidator descarta la entrada de caché sku -> product id de un producto.
// Lo implementa la caché Redis del importador.
type SKUInvalidator interface {
	Invalidate(ctx context.Context, sku string)
}

// ProductUseCase CRUD y búsqueda de productos, más el "original price" que
// consumen las páginas de producto (primera entrada del price list de catálogo).
type ProductUseCase struct {
	repo        repository.ProductRepository
	currencyID  string
	invalidator SKUInvalidator // opcional
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, systemCurrencyID string) *ProductUseCase {
	return &ProductUseCase{repo: repo, currencyID: systemCurrencyID}
}

// SetSKUInvalidator conecta la caché de SKU del importador: al borrar un
// producto su entrada se descarta de inmediato en lugar de esperar al TTL.
func (uc *ProductUseCase) SetSKUInvalidator(inv SKUInvalidator) {
	uc.invalidator = inv
}

// Create crea un producto con su precio de catálogo en la moneda del sistema.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	taxZero := decimal.Zero
	tax5 := decimal.NewFromInt(5)
	tax19 := decimal.NewFromInt(19)
	if !in.TaxRate.Equal(taxZero) && !in.TaxRate.Equal(tax5) && !in.TaxRate.Equal(tax19) {
		return nil, domain.ErrInvalidInput
	}
	if !pricing.ValidAmount(in.NetPrice) {
		return nil, domain.ErrInvalidPrice
	}
	existing, _ := uc.repo.GetBySKU(ctx, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	net := in.NetPrice.Round(2)
	now := time.Now()
	product := &entity.Product{
		ID:      uuid.New().String(),
		SKU:     in.SKU,
		Name:    in.Name,
		TaxRate: in.TaxRate,
		Prices: []entity.PriceValue{{
			CurrencyID: uc.currencyID,
			Net:        net,
			Gross:      pricing.GrossFromNet(net, in.TaxRate),
			Linked:     true,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, bestEffortOriginalPrice(product)), nil
}

// Update actualiza nombre, tasa o precio de catálogo. Al cambiar neto o tasa se
// recalcula el bruto (linked=true: ambos valores se mantienen consistentes).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.TaxRate != nil {
		taxZero := decimal.Zero
		tax5 := decimal.NewFromInt(5)
		tax19 := decimal.NewFromInt(19)
		if !in.TaxRate.Equal(taxZero) && !in.TaxRate.Equal(tax5) && !in.TaxRate.Equal(tax19) {
			return nil, domain.ErrInvalidInput
		}
		product.TaxRate = *in.TaxRate
	}
	if in.NetPrice != nil {
		if !pricing.ValidAmount(*in.NetPrice) {
			return nil, domain.ErrInvalidPrice
		}
	}
	// Recalcular el price list con la tasa vigente
	if in.NetPrice != nil || in.TaxRate != nil {
		net := decimal.Zero
		if len(product.Prices) > 0 {
			net = product.Prices[0].Net
		}
		if in.NetPrice != nil {
			net = in.NetPrice.Round(2)
		}
		product.Prices = []entity.PriceValue{{
			CurrencyID: uc.currencyID,
			Net:        net,
			Gross:      pricing.GrossFromNet(net, product.TaxRate),
			Linked:     true,
		}}
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, bestEffortOriginalPrice(product)), nil
}

// GetByID detalle de producto con original_price obligatorio: si el price list
// no existe o está vacío la petición aborta con error duro (a diferencia del
// listado, que degrada a null).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	original, err := originalPrice(product)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, &original), nil
}

// Search lista productos con filtro contains sobre name/sku; sin coincidencias
// devuelve lista vacía, nunca error. original_price es best-effort (nil si falta).
func (uc *ProductUseCase) Search(ctx context.Context, term string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	list, total, err := uc.repo.Search(ctx, term, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, bestEffortOriginalPrice(p)))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx, product.SKU)
	}
	return nil
}

// originalPrice bruto de la primera entrada del price list. Error duro si el
// price list no existe (nil) o existe pero está vacío.
func originalPrice(p *entity.Product) (decimal.Decimal, error) {
	if p.Prices == nil {
		return decimal.Zero, domain.ErrPriceCollectionNotFound
	}
	if len(p.Prices) == 0 {
		return decimal.Zero, domain.ErrPriceNotFound
	}
	return p.Prices[0].Gross, nil
}

// bestEffortOriginalPrice versión tolerante para listados: nil cuando falta.
func bestEffortOriginalPrice(p *entity.Product) *decimal.Decimal {
	if len(p.Prices) == 0 {
		return nil
	}
	gross := p.Prices[0].Gross
	return &gross
}

func toProductResponse(p *entity.Product, original *decimal.Decimal) *dto.ProductResponse {
	prices := make([]dto.PriceValueResponse, 0, len(p.Prices))
	for _, v := range p.Prices {
		prices = append(prices, dto.PriceValueResponse{
			CurrencyID: v.CurrencyID,
			Net:        v.Net,
			Gross:      v.Gross,
			Linked:     v.Linked,
		})
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		TaxRate:       p.TaxRate,
		Prices:        prices,
		OriginalPrice: original,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
