package transfer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/application/transfer"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (compartidos por los tests de import y export)
// ──────────────────────────────────────────────────────────────────────────────

type fakePriceRepo struct {
	byID map[string]*entity.CustomPrice
	// rows con relaciones para los tests de export
	rows []*repository.CustomPriceWithRelations
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

func (r *fakePriceRepo) List(_ context.Context, limit, offset int) ([]*repository.CustomPriceWithRelations, int, error) {
	return r.rows, len(r.rows), nil
}

func (r *fakePriceRepo) ListAll(_ context.Context) ([]*repository.CustomPriceWithRelations, error) {
	return r.rows, nil
}

func (r *fakePriceRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeCustomerRepo struct {
	byID map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{byID: map[string]*entity.Customer{}}
	for _, c := range customers {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}
func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}
func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}
func (r *fakeCustomerRepo) GetByCustomerNumber(_ context.Context, _ string) (*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}
func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

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
func (r *fakeProductRepo) GetByIDs(_ context.Context, _ []string) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCurrencyID = "b7d2554b0ce847cd82f3ac9bd1c0dfca"
	custID         = "11111111-1111-1111-1111-111111111111"
	prodID         = "22222222-2222-2222-2222-222222222222"
)

var testLog = logger.New(logger.Config{Env: "production", Level: "error"})

func newImportFixture() (*transfer.ImportUseCase, *fakePriceRepo) {
	priceRepo := newFakePriceRepo()
	customerRepo := newFakeCustomerRepo(&entity.Customer{
		ID: custID, FirstName: "Laura", LastName: "Gómez", CustomerNumber: "C-1001",
	})
	productRepo := newFakeProductRepo(&entity.Product{
		ID: prodID, SKU: "SKU-100", Name: "Guantes industriales",
		TaxRate: decimal.NewFromInt(19),
	})
	sync := pricing.NewSyncUseCase(priceRepo, customerRepo, productRepo, testCurrencyID)
	uc := transfer.NewImportUseCase(customerRepo, transfer.NewRepoProductResolver(productRepo), sync, testLog)
	return uc, priceRepo
}

func importCSV(t *testing.T, uc *transfer.ImportUseCase, csv string) *dto.ImportReport {
	t.Helper()
	report, err := uc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	return report
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FilaValidaProduceUnUpsert(t *testing.T) {
	uc, repo := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,Customer Tier Name,SKU,Product Name,Custom MSRP,Custom WS Price",
		custID + `,"Laura Gómez",SKU-100,"Guantes industriales",,75.50`,
	}, "\n"))

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Empty(t, report.Skipped)
	require.Len(t, repo.byID, 1)

	for _, p := range repo.byID {
		price := p.Rules[0].Prices[0]
		assert.Equal(t, "75.5", price.Net.String())
		assert.Equal(t, "89.85", price.Gross.String(), "bruto derivado con la tasa 19%")
	}
}

func TestImport_ColumnasEnOtroOrden(t *testing.T) {
	uc, repo := newImportFixture()

	// El orden de columnas no importa; se resuelven por nombre de cabecera.
	report := importCSV(t, uc, strings.Join([]string{
		"SKU,Custom WS Price,Customer ID",
		"SKU-100,10.00," + custID,
	}, "\n"))

	assert.Equal(t, 1, report.Imported)
	assert.Len(t, repo.byID, 1)
}

func TestImport_ArchivoVacioEsError(t *testing.T) {
	uc, _ := newImportFixture()

	_, err := uc.Import(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_SoloCabeceraProduceReporteVacio(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, "Customer ID,SKU,Custom WS Price")
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Imported)
}

func TestImport_LineasEnBlancoNoCuentan(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		"",
		custID + ",SKU-100,10",
		"   ",
	}, "\n"))

	assert.Equal(t, 1, report.Total, "las líneas en blanco no cuentan como filas")
	assert.Equal(t, 1, report.Imported)
}

func TestImport_FilaSinColumnasRequeridasSeDescarta(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-100,", // sin precio
	}, "\n"))

	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, dto.SkipMissingColumns, report.Skipped[0].Reason)
	assert.Equal(t, 1, report.Skipped[0].Line)
}

func TestImport_ClienteDesconocidoSeDescarta(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		"cliente-fantasma,SKU-100,10",
	}, "\n"))

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, dto.SkipCustomerUnknown, report.Skipped[0].Reason)
	assert.Equal(t, "cliente-fantasma", report.Skipped[0].Detail)
}

func TestImport_SKUDesconocidoSeDescarta(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-999,10",
	}, "\n"))

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, dto.SkipProductUnknown, report.Skipped[0].Reason)
	assert.Equal(t, "SKU-999", report.Skipped[0].Detail)
}

func TestImport_PrecioNoNumericoSeDescarta(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-100,abc",
	}, "\n"))

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, dto.SkipInvalidPrice, report.Skipped[0].Reason)
}

func TestImport_PrecioNegativoSeDescarta(t *testing.T) {
	uc, _ := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-100,-3",
	}, "\n"))

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, dto.SkipInvalidPrice, report.Skipped[0].Reason)
}

func TestImport_UnaFilaMalaNoAbortaElLote(t *testing.T) {
	uc, repo := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-999,10", // SKU desconocido
		custID + ",SKU-100,20", // válida
	}, "\n"))

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Imported)
	assert.Len(t, report.Skipped, 1)
	assert.Len(t, repo.byID, 1)
}

func TestImport_FilasDuplicadasGanaLaUltima(t *testing.T) {
	uc, repo := newImportFixture()

	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,SKU,Custom WS Price",
		custID + ",SKU-100,10",
		custID + ",SKU-100,20",
	}, "\n"))

	assert.Equal(t, 2, report.Imported, "ambas filas cuentan como importadas")
	require.Len(t, repo.byID, 1, "el par (cliente, producto) queda con un solo registro")
	for _, p := range repo.byID {
		assert.Equal(t, "20", p.Rules[0].Prices[0].Net.String(), "gana la última fila")
	}
}

func TestImport_ComaDentroDelCampoCorrompeLaFila(t *testing.T) {
	uc, _ := newImportFixture()

	// El parser es split plano por comas, sin quoting: la coma dentro del
	// nombre desplaza el resto de columnas y la fila se descarta.
	report := importCSV(t, uc, strings.Join([]string{
		"Customer ID,Customer Tier Name,SKU,Custom WS Price",
		custID + `,"Gómez, Laura",SKU-100,10`,
	}, "\n"))

	assert.Equal(t, 0, report.Imported)
	assert.Len(t, report.Skipped, 1)
}
