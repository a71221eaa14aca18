package quotes_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/application/quotes"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePriceRepo struct {
	byID map[string]*entity.CustomPrice
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{byID: map[string]*entity.CustomPrice{}}
}

func (r *fakePriceRepo) Create(_ context.Context, p *entity.CustomPrice) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}
func (r *fakePriceRepo) Update(_ context.Context, p *entity.CustomPrice) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}
func (r *fakePriceRepo) GetByID(_ context.Context, id string) (*entity.CustomPrice, error) {
	return r.byID[id], nil
}
func (r *fakePriceRepo) GetByCustomerAndProduct(_ context.Context, customerID, productID string) (*entity.CustomPrice, error) {
	for _, p := range r.byID {
		if p.CustomerID == customerID && p.ProductID == productID {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePriceRepo) List(_ context.Context, _, _ int) ([]*repository.CustomPriceWithRelations, int, error) {
	return nil, 0, nil
}
func (r *fakePriceRepo) ListAll(_ context.Context) ([]*repository.CustomPriceWithRelations, error) {
	return nil, nil
}
func (r *fakePriceRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeCustomerRepo struct{ byID map[string]*entity.Customer }

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}
func (r *fakeCustomerRepo) GetByCustomerNumber(_ context.Context, _ string) (*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}
func (r *fakeCustomerRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeProductRepo struct{ byID map[string]*entity.Product }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}
func (r *fakeProductRepo) GetBySKU(_ context.Context, _ string) (*entity.Product, error) {
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
	return nil, 0, nil
}
func (r *fakeProductRepo) Delete(_ context.Context, _ string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	currencyID = "b7d2554b0ce847cd82f3ac9bd1c0dfca"
	custID     = "11111111-1111-1111-1111-111111111111"
	prodID     = "22222222-2222-2222-2222-222222222222"
)

var testLog = logger.New(logger.Config{Env: "production", Level: "error"})

// newFixture arma el hook con un producto cuyo catálogo bruto es catalogGross.
func newFixture(catalogGross string) (*quotes.AcceptUseCase, *fakePriceRepo) {
	priceRepo := newFakePriceRepo()
	customerRepo := &fakeCustomerRepo{byID: map[string]*entity.Customer{
		custID: {ID: custID, FirstName: "Laura"},
	}}
	productRepo := &fakeProductRepo{byID: map[string]*entity.Product{
		prodID: {
			ID: prodID, SKU: "SKU-100", Name: "Guantes industriales",
			TaxRate: decimal.NewFromInt(19),
			Prices: []entity.PriceValue{{
				CurrencyID: currencyID,
				Net:        decimal.RequireFromString(catalogGross).Div(decimal.RequireFromString("1.19")).Round(2),
				Gross:      decimal.RequireFromString(catalogGross),
				Linked:     true,
			}},
		},
	}}
	sync := pricing.NewSyncUseCase(priceRepo, customerRepo, productRepo, currencyID)
	return quotes.NewAcceptUseCase(productRepo, sync, testLog), priceRepo
}

func acceptedEvent(lines ...entity.QuoteLineItem) dto.QuoteStateChangedEvent {
	return dto.QuoteStateChangedEvent{
		QuoteID: "quote-1",
		ToState: entity.QuoteStateAccepted,
		Quote: entity.Quote{
			ID:         "quote-1",
			CustomerID: custID,
			CurrencyID: currencyID,
			State:      entity.QuoteStateAccepted,
			LineItems:  lines,
		},
	}
}

func flaggedLine(totalPrice string, taxRate int64) entity.QuoteLineItem {
	return entity.QuoteLineItem{
		ID:         "line-1",
		ProductID:  prodID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString(totalPrice),
		TaxRules:   []entity.TaxRule{{TaxRate: decimal.NewFromInt(taxRate), Percentage: decimal.NewFromInt(100)}},
		CustomFields: map[string]interface{}{
			entity.PersistPriceField: true,
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHandleStateChanged_PrecioDivergentePersisteConNetoDerivado(t *testing.T) {
	uc, repo := newFixture("119")

	// La línea se negoció en 95.20 brutos frente a 119 de catálogo.
	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(flaggedLine("95.20", 19)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inspected)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, repo.byID, 1)

	for _, p := range repo.byID {
		price := p.Rules[0].Prices[0]
		assert.Equal(t, "95.2", price.Gross.String(), "el bruto de la cotización es canónico")
		assert.Equal(t, "80", price.Net.String(), "95.20 / 1.19 = 80")
		assert.Equal(t, currencyID, price.CurrencyID)
	}
}

func TestHandleStateChanged_PrecioIgualAlCatalogoNoPersiste(t *testing.T) {
	uc, repo := newFixture("119")

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(flaggedLine("119", 19)))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inspected)
	assert.Equal(t, 0, result.Synced, "precio igual al catálogo no genera upsert")
	assert.Empty(t, repo.byID)
}

func TestHandleStateChanged_LineaSinMarcaSeIgnora(t *testing.T) {
	uc, repo := newFixture("119")

	line := flaggedLine("95.20", 19)
	line.CustomFields = nil

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(line))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inspected)
	assert.Empty(t, repo.byID)
}

func TestHandleStateChanged_MarcaComoStringTruthy(t *testing.T) {
	uc, repo := newFixture("119")

	line := flaggedLine("95.20", 19)
	line.CustomFields[entity.PersistPriceField] = "1"

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(line))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, repo.byID, 1)
}

func TestHandleStateChanged_EstadoDistintoDeAcceptedSeIgnora(t *testing.T) {
	uc, repo := newFixture("119")

	event := acceptedEvent(flaggedLine("95.20", 19))
	event.ToState = "declined"

	result, err := uc.HandleStateChanged(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inspected)
	assert.Empty(t, repo.byID)
}

func TestHandleStateChanged_SoloUsaLaPrimeraReglaDeImpuesto(t *testing.T) {
	uc, repo := newFixture("119")

	line := flaggedLine("95.20", 19)
	line.TaxRules = append(line.TaxRules, entity.TaxRule{TaxRate: decimal.NewFromInt(5)})

	_, err := uc.HandleStateChanged(context.Background(), acceptedEvent(line))
	require.NoError(t, err)

	for _, p := range repo.byID {
		assert.Equal(t, "80", p.Rules[0].Prices[0].Net.String(),
			"el neto se deriva solo con la primera tasa (19%)")
	}
}

func TestHandleStateChanged_SinReglasUsaLaTasaDelProducto(t *testing.T) {
	uc, repo := newFixture("119")

	line := flaggedLine("95.20", 19)
	line.TaxRules = nil

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(line))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)

	for _, p := range repo.byID {
		assert.Equal(t, "80", p.Rules[0].Prices[0].Net.String(),
			"sin reglas en la línea se usa la tasa actual del producto (19%)")
	}
}

func TestHandleStateChanged_TasaNegativaCuentaComoFalloSinAbortar(t *testing.T) {
	uc, repo := newFixture("119")

	// El payload es externo: una regla con tasa -100 haría cero el divisor de
	// la derivación del neto. La línea debe fallar sola, sin tumbar el lote.
	bad := flaggedLine("95.20", -100)
	good := flaggedLine("95.20", 19)

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(bad, good))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inspected)
	assert.Equal(t, 1, result.Failed, "la tasa inválida cuenta como fallo de línea")
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, repo.byID, 1, "solo la línea válida persiste")
}

func TestHandleStateChanged_ProductoInexistenteCuentaComoFallo(t *testing.T) {
	uc, repo := newFixture("119")

	bad := flaggedLine("95.20", 19)
	bad.ProductID = "producto-fantasma"
	good := flaggedLine("95.20", 19)

	result, err := uc.HandleStateChanged(context.Background(), acceptedEvent(bad, good))
	require.NoError(t, err, "el fallo de una línea no aborta el resto")

	assert.Equal(t, 2, result.Inspected)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, repo.byID, 1)
}

func TestHandleStateChanged_CotizacionSinClienteEsError(t *testing.T) {
	uc, _ := newFixture("119")

	event := acceptedEvent(flaggedLine("95.20", 19))
	event.Quote.CustomerID = ""

	_, err := uc.HandleStateChanged(context.Background(), event)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
