package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/s25commerce/pricing-api/internal/application/auth"
	"github.com/s25commerce/pricing-api/internal/application/catalog"
	"github.com/s25commerce/pricing-api/internal/application/pricing"
	"github.com/s25commerce/pricing-api/internal/application/quotes"
	"github.com/s25commerce/pricing-api/internal/application/transfer"
	infracache "github.com/s25commerce/pricing-api/internal/infrastructure/cache"
	infrakafka "github.com/s25commerce/pricing-api/internal/infrastructure/kafka"
	infrapdf "github.com/s25commerce/pricing-api/internal/infrastructure/pdf"
	"github.com/s25commerce/pricing-api/internal/infrastructure/postgres"
	httpRouter "github.com/s25commerce/pricing-api/internal/interfaces/http"
	"github.com/s25commerce/pricing-api/pkg/config"
	"github.com/s25commerce/pricing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	priceRepo := postgres.NewCustomPriceRepository(pool)

	syncUC := pricing.NewSyncUseCase(priceRepo, customerRepo, productRepo, cfg.Pricing.DefaultCurrencyID)
	productUC := catalog.NewProductUseCase(productRepo, cfg.Pricing.DefaultCurrencyID)
	customerUC := catalog.NewCustomerUseCase(customerRepo)
	acceptUC := quotes.NewAcceptUseCase(productRepo, syncUC, log)

	// Resolución de SKU para importaciones: directa contra la base, con caché
	// Redis delante si está habilitada.
	var resolver transfer.ProductResolver = transfer.NewRepoProductResolver(productRepo)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		cached, err := infracache.NewSKUResolver(rdb, resolver, time.Duration(cfg.Redis.TTLMin)*time.Minute, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		resolver = cached
		// Al borrar un producto se descarta su entrada sku -> id de la caché.
		productUC.SetSKUInvalidator(cached)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de SKU habilitada")
	}

	importUC := transfer.NewImportUseCase(customerRepo, resolver, syncUC, log)
	exportUC := transfer.NewExportUseCase(priceRepo)
	pdfExportUC := transfer.NewPDFExportUseCase(priceRepo, infrapdf.NewMarotoPDFGenerator())

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Consumidor Kafka de quote.state-changed — vía alternativa al webhook HTTP.
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if cfg.Kafka.Enabled {
		consumer := infrakafka.NewQuoteConsumer(infrakafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, acceptUC, log)
		defer consumer.Close()
		go consumer.Run(consumerCtx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pricing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CustomPriceUC: syncUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		ImportUC:      importUC,
		ExportUC:      exportUC,
		PDFExportUC:   pdfExportUC,
		QuoteAcceptUC: acceptUC,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Webhook.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
