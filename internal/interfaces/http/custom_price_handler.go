package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/domain"
)

// CustomPriceHandler maneja las peticiones HTTP de precios por cliente (protegido).
type CustomPriceHandler struct {
	uc *pricing.SyncUseCase
}

// NewCustomPriceHandler construye el handler.
func NewCustomPriceHandler(uc *pricing.SyncUseCase) *CustomPriceHandler {
	return &CustomPriceHandler{uc: uc}
}

// Upsert godoc
// @Summary      Crear o sobreescribir precio de (cliente, producto)
// @Tags         custom-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertCustomPriceRequest  true  "customer_id, product_id, net_price"
// @Success      200   {object}  dto.CustomPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/custom-prices [post]
func (h *CustomPriceHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertCustomPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpsertNet(c.Context(), in.CustomerID, in.ProductID, in.NetPrice)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id y product_id son requeridos"})
		case domain.ErrInvalidPrice:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRICE", Message: "el precio debe ser un número no negativo"})
		case domain.ErrCustomerNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "CUSTOMER_NOT_FOUND", Message: "cliente no encontrado"})
		case domain.ErrProductNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar precios por cliente (paginado, más recientes primero)
// @Tags         custom-prices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(10)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CustomPriceListResponse
// @Router       /api/custom-prices [get]
func (h *CustomPriceHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener precio por ID
// @Tags         custom-prices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del precio"
// @Success      200  {object}  dto.CustomPriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/custom-prices/{id} [get]
func (h *CustomPriceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "precio no encontrado"})
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Obtener el precio vigente de un par (cliente, producto)
// @Tags         custom-prices
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        product_id   query  string  true  "ID del producto"
// @Success      200  {object}  dto.CustomPriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/custom-prices/lookup [get]
func (h *CustomPriceHandler) Lookup(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	productID := c.Query("product_id")
	if customerID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id y product_id son requeridos"})
	}
	out, err := h.uc.GetByCustomerAndProduct(c.Context(), customerID, productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el par no tiene precio específico"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar precio
// @Tags         custom-prices
// @Security     Bearer
// @Param        id   path  string  true  "ID del precio"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/custom-prices/{id} [delete]
func (h *CustomPriceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "precio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
