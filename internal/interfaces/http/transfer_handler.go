package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/transfer"
	"github.com/s25commerce/pricing-api/internal/domain"
)

// TransferHandler maneja la importación y exportación del listado de precios (protegido).
type TransferHandler struct {
	importUC *transfer.ImportUseCase
	csvUC    *transfer.ExportUseCase
	pdfUC    *transfer.PDFExportUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(importUC *transfer.ImportUseCase, csvUC *transfer.ExportUseCase, pdfUC *transfer.PDFExportUseCase) *TransferHandler {
	return &TransferHandler{importUC: importUC, csvUC: csvUC, pdfUC: pdfUC}
}

// ImportCSV godoc
// @Summary      Importar precios desde CSV
// @Description  El cuerpo es el CSV crudo. Filas inválidas se omiten y quedan en el reporte.
// @Tags         transfer
// @Security     Bearer
// @Accept       plain
// @Produce      json
// @Success      200  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/custom-prices/import [post]
func (h *TransferHandler) ImportCSV(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_BODY", Message: "CSV vacío"})
	}
	report, err := h.importUC.Import(c.Context(), bytes.NewReader(body))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CSV", Message: "el CSV no tiene cabecera"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// ExportCSV godoc
// @Summary      Exportar el listado completo a CSV
// @Tags         transfer
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string  "contenido CSV"
// @Router       /api/custom-prices/export [get]
func (h *TransferHandler) ExportCSV(c *fiber.Ctx) error {
	content, filename, err := h.csvUC.Export(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}

// ExportPDF godoc
// @Summary      Exportar el listado completo a PDF
// @Tags         transfer
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {string}  string  "contenido PDF"
// @Router       /api/custom-prices/export/pdf [get]
func (h *TransferHandler) ExportPDF(c *fiber.Ctx) error {
	content, filename, err := h.pdfUC.Export(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}
