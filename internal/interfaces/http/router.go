package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/s25commerce/pricing-api/internal/application/auth"
	"github.com/s25commerce/pricing-api/internal/application/catalog"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/application/quotes"
	"github.com/s25commerce/pricing-api/internal/application/transfer"
	"github.com/s25commerce/pricing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CustomPriceUC *pricing.SyncUseCase
	ProductUC     *catalog.ProductUseCase
	CustomerUC    *catalog.CustomerUseCase
	ImportUC      *transfer.ImportUseCase
	ExportUC      *transfer.ExportUseCase
	PDFExportUC   *transfer.PDFExportUseCase
	QuoteAcceptUC *quotes.AcceptUseCase
	JWTSecret     string
	WebhookSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Webhook de cotizaciones (secreto compartido, sin JWT)
	webhookHandler := NewQuoteWebhookHandler(deps.QuoteAcceptUC, deps.WebhookSecret)
	api.Post("/webhooks/quotes/state-changed", webhookHandler.StateChanged)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Custom prices (protegido)
	prices := protected.Group("/custom-prices")
	priceHandler := NewCustomPriceHandler(deps.CustomPriceUC)
	transferHandler := NewTransferHandler(deps.ImportUC, deps.ExportUC, deps.PDFExportUC)
	prices.Post("/", priceHandler.Upsert)
	prices.Get("/", priceHandler.List)
	prices.Get("/lookup", priceHandler.Lookup)
	prices.Post("/import", transferHandler.ImportCSV)
	prices.Get("/export", transferHandler.ExportCSV)
	prices.Get("/export/pdf", transferHandler.ExportPDF)
	prices.Get("/:id", priceHandler.GetByID)
	prices.Delete("/:id", priceHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.Search)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", RequireRole(entity.RoleAdmin), customerHandler.Delete)
}
