// Package main is the entry point for the invenpos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"invenpos/internal/core/id"
	"invenpos/internal/domain/auth"
	"invenpos/internal/domain/catalogs/category"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/domain/documents/purchase"
	"invenpos/internal/domain/reports"
	"invenpos/internal/domain/stock"
	v1 "invenpos/internal/infrastructure/http/v1"
	"invenpos/internal/infrastructure/storage/postgres"
	"invenpos/internal/infrastructure/storage/postgres/auth_repo"
	"invenpos/internal/infrastructure/storage/postgres/catalog_repo"
	"invenpos/internal/infrastructure/storage/postgres/document_repo"
	"invenpos/internal/infrastructure/storage/postgres/register_repo"
	"invenpos/internal/infrastructure/storage/postgres/report_repo"
	"invenpos/pkg/logger"
	"invenpos/pkg/numerator"
)

// auditor adapts the audit service to the domain auditor interfaces.
type auditor struct {
	svc *postgres.AuditService
}

func (a *auditor) LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error {
	return a.svc.LogChange(ctx, entityType, entityID, postgres.AuditAction(action), changes)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting invenpos server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// Periodic pool stats keep connection leaks visible in the logs
	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
				postgres.LogPoolStats(statsCtx, pool.Pool)
			}
		}
	}()

	txManager := postgres.NewTxManager(pool)

	// Number allocation rides the caller's transaction when one is open
	num := numerator.NewWithProvider(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	aud := &auditor{svc: auditService}

	// --- Catalogs ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	productService := product.NewService(productRepo, txManager, num)

	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	categoryService := category.NewService(categoryRepo, txManager, num)

	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	supplierService := supplier.NewService(supplierRepo, txManager, num)

	taxRateRepo := catalog_repo.NewTaxRateRepo(txManager)
	taxRateService := taxrate.NewService(taxRateRepo, txManager, num)

	// --- Documents ---
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	invoiceService := invoice.NewService(invoiceRepo, productRepo, taxRateService, num, txManager, aud)

	purchaseRepo := document_repo.NewPurchaseOrderRepo(txManager)
	purchaseService := purchase.NewService(purchaseRepo, productRepo, supplierService, num, txManager, aud)

	// --- Stock ---
	stockRepo := register_repo.NewStockRepo(txManager)
	stockService := stock.NewService(stockRepo, productRepo, supplierService, txManager, aud)

	// --- Reports ---
	reportRepo := report_repo.NewReportRepo(txManager)
	reportsService := reports.NewService(reportRepo)

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		ProductService:  productService,
		CategoryService: categoryService,
		SupplierService: supplierService,
		TaxRateService:  taxRateService,
		InvoiceService:  invoiceService,
		PurchaseService: purchaseService,
		StockService:    stockService,
		ReportsService:  reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
