package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/repository/sheets"
	"github.com/mamadbah2/herdbook/internal/repository/snapshot"
	"github.com/mamadbah2/herdbook/internal/scheduler"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/router"
	advisorysvc "github.com/mamadbah2/herdbook/internal/service/advisory"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
	billingsvc "github.com/mamadbah2/herdbook/internal/service/billing"
	reportingsvc "github.com/mamadbah2/herdbook/internal/service/reporting"
	salessvc "github.com/mamadbah2/herdbook/internal/service/sales"
	"github.com/mamadbah2/herdbook/pkg/clients/anthropic"
	"github.com/mamadbah2/herdbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Mode))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	cache, err := snapshot.Open(cfg.Cache.Path)
	if err != nil {
		baseLogger.Warn("snapshot cache unavailable, degraded mode will not survive restarts", zap.Error(err))
		cache = nil
	} else {
		defer func() { _ = cache.Close() }()
	}

	// A missing document store is not fatal: every store falls back to its
	// local snapshot and keeps serving.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	cancelConnect()
	if err != nil {
		baseLogger.Warn("document store unreachable, starting in degraded local mode", zap.Error(err))
		mongoClient = nil
	} else {
		defer func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
	}

	owner := cfg.Tenant.OwnerID
	storeLogger := baseLogger.Named("store")

	animalStore := mongodb.NewStore(mongoClient, cache, storeLogger, mongodb.Options[models.Animal]{
		Entity:  "animals",
		OwnerID: owner,
		Seed:    func() []models.Animal { return models.SeedAnimals(owner) },
	})
	inventoryStore := mongodb.NewStore(mongoClient, cache, storeLogger, mongodb.Options[models.InventoryItem]{
		Entity:  "inventory",
		OwnerID: owner,
		Seed:    func() []models.InventoryItem { return models.SeedInventory(owner) },
	})
	transactionStore := mongodb.NewStore(mongoClient, cache, storeLogger, mongodb.Options[models.Transaction]{
		Entity:  "transactions",
		OwnerID: owner,
		Seed:    func() []models.Transaction { return models.SeedTransactions(owner) },
		Less: func(a, b models.Transaction) bool {
			return a.Date.After(b.Date)
		},
	})
	invoiceStore := mongodb.NewStore(mongoClient, cache, storeLogger, mongodb.Options[models.Invoice]{
		Entity:  "invoices",
		OwnerID: owner,
		Seed:    func() []models.Invoice { return models.SeedInvoices(owner) },
		Prepare: func(inv *models.Invoice) {
			aggregate.ApplyInvoiceTotals(inv)
		},
	})

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	for _, start := range []func(context.Context) error{
		animalStore.Start, inventoryStore.Start, transactionStore.Start, invoiceStore.Start,
	} {
		if err := start(startCtx); err != nil {
			baseLogger.Error("store startup failed", zap.Error(err))
		}
	}
	cancelStart()
	defer func() {
		animalStore.Close()
		inventoryStore.Close()
		transactionStore.Close()
		invoiceStore.Close()
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Warn("sheets export disabled", zap.Error(err))
			sheetsRepo = nil
		}
	}

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic advisory client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, advisory endpoints disabled")
	}

	salesSvc := salessvc.NewService(animalStore, transactionStore, invoiceStore, owner, baseLogger.Named("svc.sales"))
	billingSvc := billingsvc.NewService(invoiceStore, baseLogger.Named("svc.billing"))
	advisorySvc := advisorysvc.NewService(aiClient, baseLogger.Named("svc.advisory"))

	var summarySink reportingsvc.SummarySink
	if mongoClient != nil {
		summarySink = mongoClient
	}
	reportingSvc := reportingsvc.NewService(animalStore, inventoryStore, transactionStore, summarySink, sheetsRepo, owner, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Animals:      handlers.NewAnimalHandler(animalStore, salesSvc, owner, baseLogger.Named("handlers.animals")),
		Inventory:    handlers.NewInventoryHandler(inventoryStore, owner, baseLogger.Named("handlers.inventory")),
		Transactions: handlers.NewTransactionHandler(transactionStore, owner, baseLogger.Named("handlers.transactions")),
		Invoices:     handlers.NewInvoiceHandler(invoiceStore, owner, baseLogger.Named("handlers.invoices")),
		Advisory:     handlers.NewAdvisoryHandler(advisorySvc, baseLogger.Named("handlers.advisory")),
		Dashboard:    handlers.NewDashboardHandler(animalStore, inventoryStore, transactionStore),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, billingSvc, salesSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
