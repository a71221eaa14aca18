package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/s25commerce/pricing-api/internal/application/dto"
	"github.com/s25commerce/pricing-api/internal/application/quotes"
	"github.com/s25commerce/pricing-api/internal/domain"
)

// HeaderWebhookSecret cabecera de autenticación del webhook de cotizaciones.
const HeaderWebhookSecret = "X-Webhook-Secret"

// QuoteWebhookHandler recibe los cambios de estado de cotización del sistema
// externo de quotes. No usa JWT: se autentica con un secreto compartido.
type QuoteWebhookHandler struct {
	uc     *quotes.AcceptUseCase
	secret string
}

// NewQuoteWebhookHandler construye el handler.
func NewQuoteWebhookHandler(uc *quotes.AcceptUseCase, secret string) *QuoteWebhookHandler {
	return &QuoteWebhookHandler{uc: uc, secret: secret}
}

// StateChanged godoc
// @Summary      Webhook de cambio de estado de cotización
// @Description  Solo la transición a "accepted" persiste precios; el resto se ignora.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Secret  header  string  true  "Secreto compartido"
// @Param        body  body  dto.QuoteStateChangedEvent  true  "Evento"
// @Success      200   {object}  dto.QuoteHookResult
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/webhooks/quotes/state-changed [post]
func (h *QuoteWebhookHandler) StateChanged(c *fiber.Ctx) error {
	got := c.Get(HeaderWebhookSecret)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SECRET", Message: "secreto de webhook inválido"})
	}

	var event dto.QuoteStateChangedEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.uc.HandleStateChanged(c.Context(), event)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la cotización no tiene cliente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
