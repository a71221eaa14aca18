package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/s25commerce/pricing-api/internal/domain/repository"
)

// PriceListPDFGenerator puerto de generación del PDF de lista de precios
// (implementado en infraestructura con Maroto).
type PriceListPDFGenerator interface {
	GeneratePriceListPDF(ctx context.Context, rows []*repository.CustomPriceWithRelations, generatedAt time.Time) ([]byte, error)
}

// PDFExportUseCase exporta el mismo set del CSV como PDF de lista de precios.
type PDFExportUseCase struct {
	priceRepo repository.CustomPriceRepository
	generator PriceListPDFGenerator
	now       func() time.Time
}

// NewPDFExportUseCase construye el caso de uso.
func NewPDFExportUseCase(priceRepo repository.CustomPriceRepository, generator PriceListPDFGenerator) *PDFExportUseCase {
	return &PDFExportUseCase{priceRepo: priceRepo, generator: generator, now: time.Now}
}

// Export genera el PDF y su nombre de archivo (misma fecha M.D.YY que el CSV).
func (uc *PDFExportUseCase) Export(ctx context.Context) (content []byte, filename string, err error) {
	rows, err := uc.priceRepo.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}
	t := uc.now()
	pdf, err := uc.generator.GeneratePriceListPDF(ctx, rows, t)
	if err != nil {
		return nil, "", err
	}
	formatted := fmt.Sprintf("%d.%d.%02d", int(t.Month()), t.Day(), t.Year()%100)
	return pdf, fmt.Sprintf("Customer Pricing Export - %s.pdf", formatted), nil
}
