package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

// Cabecera fija del export. La columna "Custom MSRP" se emite siempre vacía
// (campo conocido-incompleto del formato heredado; no round-tripea).
const ExportHeader = "Customer ID,Customer Tier Name,SKU,Product Name,Custom MSRP,Custom WS Price"

// ExportUseCase exportación CSV del set completo de precios con cliente y
// producto unidos en una sola lectura.
type ExportUseCase struct {
	priceRepo repository.CustomPriceRepository
	now       func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(priceRepo repository.CustomPriceRepository) *ExportUseCase {
	return &ExportUseCase{priceRepo: priceRepo, now: time.Now}
}

// Export genera el contenido CSV y el nombre de archivo con la fecha M.D.YY.
// Los nombres de cliente y producto van entre comillas dobles (pueden contener
// comas); los campos numéricos no se entrecomillan.
func (uc *ExportUseCase) Export(ctx context.Context) (content []byte, filename string, err error) {
	rows, err := uc.priceRepo.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	var b strings.Builder
	b.WriteString(ExportHeader)
	b.WriteString("\n")
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(exportRow(row))
	}

	return []byte(b.String()), exportFilename(uc.now()), nil
}

// exportRow serializa una fila: Customer ID, "Nombre cliente", SKU, "Nombre
// producto", MSRP vacío, neto. La columna de cabecera "Customer Tier Name"
// lleva en realidad el nombre del cliente; quirk del formato heredado que los
// consumidores existentes esperan, se conserva tal cual.
func exportRow(row *repository.CustomPriceWithRelations) string {
	customerID := row.Price.CustomerID
	customerName := "Unknown Customer"
	if row.Customer != nil {
		customerName = row.Customer.FullName()
	}

	sku := "N/A"
	productName := "Unknown Product"
	if row.Product != nil {
		sku = row.Product.SKU
		productName = row.Product.Name
	}

	netPrice := "N/A"
	if net := row.Price.FirstNet(); net != nil {
		netPrice = net.StringFixed(2)
	}

	// MSRP siempre vacío
	return fmt.Sprintf("%s,%q,%s,%q,%s,%s", customerID, customerName, sku, productName, "", netPrice)
}

// exportFilename nombre de descarga con la fecha embebida como M.D.YY.
func exportFilename(t time.Time) string {
	formatted := fmt.Sprintf("%d.%d.%02d", int(t.Month()), t.Day(), t.Year()%100)
	return fmt.Sprintf("Customer Pricing Export - %s.csv", formatted)
}
