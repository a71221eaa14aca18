package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s25commerce/pricing-api/internal/application/catalog"
	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{byID: map[string]*entity.Product{}}
	for _, p := range products {
		r.byID[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}
func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}
func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}
func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Product, int, error) {
	out := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}
func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeCustomerRepo struct {
	byID     map[string]*entity.Customer
	byNumber map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{byID: map[string]*entity.Customer{}, byNumber: map[string]*entity.Customer{}}
	for _, c := range customers {
		r.byID[c.ID] = c
		r.byNumber[c.CustomerNumber] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	r.byNumber[c.CustomerNumber] = c
	return nil
}
func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}
func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}
func (r *fakeCustomerRepo) GetByCustomerNumber(_ context.Context, number string) (*entity.Customer, error) {
	return r.byNumber[number], nil
}
func (r *fakeCustomerRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}
func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

const testCurrencyID = "b7d2554b0ce847cd82f3ac9bd1c0dfca"

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_ConstruyePriceListEnlazado(t *testing.T) {
	uc := catalog.NewProductUseCase(newFakeProductRepo(), testCurrencyID)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "SKU-100", Name: "Guantes industriales",
		TaxRate: decimal.NewFromInt(19), NetPrice: decimal.RequireFromString("84.99"),
	})
	require.NoError(t, err)
	require.Len(t, out.Prices, 1)

	price := out.Prices[0]
	assert.Equal(t, "84.99", price.Net.String())
	assert.Equal(t, "101.14", price.Gross.String(), "84.99 * 1.19 = 101.1381 redondeado")
	assert.True(t, price.Linked)
	require.NotNil(t, out.OriginalPrice)
	assert.Equal(t, "101.14", out.OriginalPrice.String())
}

func TestProductCreate_TasaInvalida(t *testing.T) {
	uc := catalog.NewProductUseCase(newFakeProductRepo(), testCurrencyID)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "SKU-100", Name: "Guantes", TaxRate: decimal.NewFromInt(7),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{ID: "p1", SKU: "SKU-100", Name: "Existente"})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "SKU-100", Name: "Nuevo"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUpdate_CambiarTasaRecalculaElBruto(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{
		ID: "p1", SKU: "SKU-100", Name: "Guantes",
		TaxRate: decimal.NewFromInt(19),
		Prices: []entity.PriceValue{{
			CurrencyID: testCurrencyID,
			Net:        decimal.NewFromInt(100),
			Gross:      decimal.NewFromInt(119),
			Linked:     true,
		}},
	})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)

	newRate := decimal.NewFromInt(5)
	out, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{TaxRate: &newRate})
	require.NoError(t, err)
	require.NotNil(t, out)

	price := out.Prices[0]
	assert.Equal(t, "100", price.Net.String(), "el neto se conserva")
	assert.Equal(t, "105", price.Gross.String(), "el bruto se recalcula con la nueva tasa")
}

func TestProductUpdate_ProductoInexistente(t *testing.T) {
	uc := catalog.NewProductUseCase(newFakeProductRepo(), testCurrencyID)

	out, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

type fakeSKUInvalidator struct {
	skus []string
}

func (f *fakeSKUInvalidator) Invalidate(_ context.Context, sku string) {
	f.skus = append(f.skus, sku)
}

func TestProductDelete_DescartaLaEntradaDeCache(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{ID: "p1", SKU: "SKU-100", Name: "Guantes"})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)
	inv := &fakeSKUInvalidator{}
	uc.SetSKUInvalidator(inv)

	require.NoError(t, uc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"SKU-100"}, inv.skus, "el borrado invalida la caché con el SKU del producto")
}

func TestProductDelete_ProductoInexistenteNoInvalida(t *testing.T) {
	uc := catalog.NewProductUseCase(newFakeProductRepo(), testCurrencyID)
	inv := &fakeSKUInvalidator{}
	uc.SetSKUInvalidator(inv)

	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, inv.skus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Original price: duro en detalle, best-effort en listados
// ──────────────────────────────────────────────────────────────────────────────

func TestProductGetByID_SinPriceListEsErrorDuro(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{ID: "p1", SKU: "SKU-100", Name: "Sin precios"})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)

	_, err := uc.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrPriceCollectionNotFound,
		"price list nil aborta el detalle del producto")
}

func TestProductGetByID_PriceListVacioEsErrorDuro(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{
		ID: "p1", SKU: "SKU-100", Name: "Precios vacíos",
		Prices: []entity.PriceValue{},
	})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)

	_, err := uc.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrPriceNotFound,
		"price list vacío (distinto de nil) aborta con otro error")
}

func TestProductSearch_SinPrecioDegradaANil(t *testing.T) {
	repo := newFakeProductRepo(&entity.Product{ID: "p1", SKU: "SKU-100", Name: "Sin precios"})
	uc := catalog.NewProductUseCase(repo, testCurrencyID)

	out, err := uc.Search(context.Background(), "", 10, 0)
	require.NoError(t, err, "el listado nunca falla por falta de precio")
	require.Len(t, out.Items, 1)
	assert.Nil(t, out.Items[0].OriginalPrice, "en listados el original price es best-effort")
}

// ──────────────────────────────────────────────────────────────────────────────
// Customers
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerCreate_NumeroDuplicado(t *testing.T) {
	repo := newFakeCustomerRepo(&entity.Customer{ID: "c1", FirstName: "Laura", CustomerNumber: "C-1001"})
	uc := catalog.NewCustomerUseCase(repo)

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{
		FirstName: "Otra", Email: "otra@example.com", CustomerNumber: "C-1001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomerCreate_CamposRequeridos(t *testing.T) {
	uc := catalog.NewCustomerUseCase(newFakeCustomerRepo())

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{FirstName: "Laura"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUpdate_ActualizaSoloCamposPresentes(t *testing.T) {
	repo := newFakeCustomerRepo(&entity.Customer{
		ID: "c1", FirstName: "Laura", LastName: "Gómez",
		Email: "laura@example.com", CustomerNumber: "C-1001",
	})
	uc := catalog.NewCustomerUseCase(repo)

	email := "laura.gomez@example.com"
	out, err := uc.Update(context.Background(), "c1", dto.UpdateCustomerRequest{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "laura.gomez@example.com", out.Email)
	assert.Equal(t, "Laura", out.FirstName, "los campos no enviados se conservan")
}

func TestCustomerDelete_Inexistente(t *testing.T) {
	uc := catalog.NewCustomerUseCase(newFakeCustomerRepo())

	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
