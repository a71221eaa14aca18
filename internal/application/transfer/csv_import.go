// Package transfer implementa la importación y exportación masiva de precios
// específicos de cliente (CSV plano del panel y PDF de lista de precios).
package transfer

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/domain"
	"github.com/s25commerce/pricing-api/internal/domain/repository"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

// Columnas requeridas del CSV de importación. Columnas extra se ignoran.
const (
	ColCustomerID = "Customer ID"
	ColSKU        = "SKU"
	ColWSPrice    = "Custom WS Price"
)

// ProductResolver resuelve un SKU a su productID. Devuelve "" (sin error)
// cuando el SKU no existe. Permite interponer un cache Redis delante del repo.
type ProductResolver interface {
	ResolveSKU(ctx context.Context, sku string) (string, error)
}

// RepoProductResolver resolución directa contra el repositorio de productos.
type RepoProductResolver struct {
	repo repository.ProductRepository
}

// NewRepoProductResolver construye el resolver sin cache.
func NewRepoProductResolver(repo repository.ProductRepository) *RepoProductResolver {
	return &RepoProductResolver{repo: repo}
}

// ResolveSKU busca el producto por SKU; "" si no existe.
func (r *RepoProductResolver) ResolveSKU(ctx context.Context, sku string) (string, error) {
	product, err := r.repo.GetBySKU(ctx, sku)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", nil
	}
	return product.ID, nil
}

// ImportUseCase importación CSV de precios específicos de cliente.
//
// El formato es deliberadamente plano: split por comas sin soporte de quoting
// ni escape (una coma literal dentro de un campo corrompe la fila; limitación
// conocida del formato del panel, no se "arregla" aquí). Primera línea =
// cabecera; cada fila válida produce exactamente un upsert, secuencial, sin
// batching. El fallo de una fila nunca aborta el lote: la fila se descarta y
// queda registrada en el reporte con su motivo.
type ImportUseCase struct {
	customerRepo repository.CustomerRepository
	resolver     ProductResolver
	sync         *pricing.SyncUseCase
	log          *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	customerRepo repository.CustomerRepository,
	resolver ProductResolver,
	sync *pricing.SyncUseCase,
	log *logger.Logger,
) *ImportUseCase {
	return &ImportUseCase{customerRepo: customerRepo, resolver: resolver, sync: sync, log: log}
}

// Import procesa el CSV completo y devuelve el reporte por filas.
// Line en el reporte es el número de fila de datos (1 = primera tras la cabecera).
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportReport, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidInput // archivo vacío, sin cabecera
	}
	header := parseHeader(scanner.Text())

	report := &dto.ImportReport{Skipped: []dto.ImportRowResult{}}
	line := 0
	for scanner.Scan() {
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line++
		report.Total++

		row := parseRow(raw, header)
		customerID := row[ColCustomerID]
		sku := row[ColSKU]
		rawPrice := row[ColWSPrice]
		if customerID == "" || sku == "" || rawPrice == "" {
			report.Skipped = append(report.Skipped, dto.ImportRowResult{Line: line, Reason: dto.SkipMissingColumns})
			continue
		}

		if skip := uc.importRow(ctx, line, customerID, sku, rawPrice); skip != nil {
			report.Skipped = append(report.Skipped, *skip)
			continue
		}
		report.Imported++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("total", report.Total).
		Int("imported", report.Imported).
		Int("skipped", len(report.Skipped)).
		Msg("importación CSV finalizada")
	return report, nil
}

// importRow resuelve e inserta una fila. Devuelve el diagnóstico de descarte o
// nil si la fila se importó.
func (uc *ImportUseCase) importRow(ctx context.Context, line int, customerID, sku, rawPrice string) *dto.ImportRowResult {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipWriteFailed, Detail: err.Error()}
	}
	if customer == nil {
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipCustomerUnknown, Detail: customerID}
	}

	productID, err := uc.resolver.ResolveSKU(ctx, sku)
	if err != nil {
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipWriteFailed, Detail: err.Error()}
	}
	if productID == "" {
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipProductUnknown, Detail: sku}
	}

	net, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipInvalidPrice, Detail: rawPrice}
	}

	if _, err := uc.sync.UpsertNet(ctx, customer.ID, productID, net); err != nil {
		if err == domain.ErrInvalidPrice {
			return &dto.ImportRowResult{Line: line, Reason: dto.SkipInvalidPrice, Detail: rawPrice}
		}
		uc.log.Warn().Err(err).Int("line", line).Msg("fila de importación falló al escribir")
		return &dto.ImportRowResult{Line: line, Reason: dto.SkipWriteFailed, Detail: err.Error()}
	}
	return nil
}

// parseHeader mapea nombre de columna -> índice. Split plano por comas.
func parseHeader(line string) map[string]int {
	fields := strings.Split(line, ",")
	header := make(map[string]int, len(fields))
	for i, f := range fields {
		header[strings.TrimSpace(f)] = i
	}
	return header
}

// parseRow mapea la fila a las columnas de la cabecera. Campos faltantes
// quedan como ""; columnas extra de la fila se ignoran.
func parseRow(line string, header map[string]int) map[string]string {
	values := strings.Split(line, ",")
	row := make(map[string]string, len(header))
	for name, idx := range header {
		if idx < len(values) {
			row[name] = strings.TrimSpace(values[idx])
		} else {
			row[name] = ""
		}
	}
	return row
}
