package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/application/billing"
	"github.com/jhoicas/stings-api/internal/application/contacts"
	"github.com/jhoicas/stings-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stings-api/internal/interfaces/http"
	"github.com/jhoicas/stings-api/pkg/config"
	"github.com/jhoicas/stings-api/pkg/logger"
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
		Str("db_role", cfg.DB.ServiceRole).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	credentialRepo := postgres.NewCredentialRepository(pool)
	partnerRepo := postgres.NewPartnerRepository(pool)
	accountingRepo := postgres.NewAccountingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	apiKeyUC := auth.NewAPIKeyUseCase(credentialRepo)
	contactUC := contacts.NewContactUseCase(partnerRepo, contacts.Config{
		DefaultLang: cfg.Partner.DefaultLang,
	})
	defaults := billing.NewDefaultsResolver(accountingRepo, billing.DefaultsConfig{
		SaleJournalID:         cfg.Accounting.SaleJournalID,
		SaleJournalCode:       cfg.Accounting.SaleJournalCode,
		IncomeAccountID:       cfg.Accounting.IncomeAccountID,
		IncomeAccountCode:     cfg.Accounting.IncomeAccountCode,
		ReceivableAccountID:   cfg.Accounting.ReceivableAccountID,
		ReceivableAccountCode: cfg.Accounting.ReceivableAccountCode,
		SaleTaxID:             cfg.Accounting.SaleTaxID,
		SaleTaxRate:           cfg.Accounting.SaleTaxRate,
	})
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, partnerRepo, accountingRepo, defaults)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Stings API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		APIKeyUC:      apiKeyUC,
		ContactUC:     contactUC,
		CreateInvoice: createInvoiceUC,
		DB:            pool,
		ServiceName:   cfg.App.Name,
		Log:           log,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
