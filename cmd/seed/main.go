// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	appctx "invenpos/internal/core/context"
	"invenpos/internal/domain/auth"
	"invenpos/internal/domain/catalogs/category"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/internal/infrastructure/storage/postgres"
	"invenpos/internal/infrastructure/storage/postgres/auth_repo"
	"invenpos/internal/infrastructure/storage/postgres/catalog_repo"
	"invenpos/pkg/logger"
	"invenpos/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	num := numerator.NewWithProvider(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	if err := seedAdmin(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin account", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, num, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedAdmin creates the bootstrap admin account when no admin exists.
func seedAdmin(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	user, err := authService.EnsureAdmin(ctx, username, password)
	if err != nil {
		return err
	}
	if user == nil {
		log.Info("admin account already exists")
		return nil
	}

	log.Infow("admin account created", "username", username, "user_id", user.ID)
	return nil
}

// seedDemoData populates a small storefront: categories, a supplier,
// a tax rate and a handful of products.
func seedDemoData(ctx context.Context, txManager *postgres.TxManager, num *numerator.Service, log *logger.Logger) error {
	// Demo rows are attributed to the seeding tool
	ctx = appctx.WithUser(ctx, &appctx.UserContext{
		Username: "seed",
		FullName: "Seed Tool",
		Role:     appctx.RoleAdmin,
		IsAdmin:  true,
	})

	categoryService := category.NewService(catalog_repo.NewCategoryRepo(txManager), txManager, num)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager, num)
	taxRateService := taxrate.NewService(catalog_repo.NewTaxRateRepo(txManager), txManager, num)
	productService := product.NewService(catalog_repo.NewProductRepo(txManager), txManager, num)

	drinks := category.NewCategory("", "Drinks")
	if err := categoryService.Create(ctx, drinks); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	snacks := category.NewCategory("", "Snacks")
	if err := categoryService.Create(ctx, snacks); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	sup := supplier.NewSupplier("", "Acme Wholesale")
	if err := supplierService.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	vat := taxrate.NewTaxRate("", "VAT 5%", decimal.NewFromInt(5))
	if err := taxRateService.Create(ctx, vat); err != nil {
		return fmt.Errorf("create tax rate: %w", err)
	}
	if err := taxRateService.SetActive(ctx, vat.ID); err != nil {
		return fmt.Errorf("activate tax rate: %w", err)
	}

	demoProducts := []struct {
		name     string
		category string
		price    int64
		quantity int
	}{
		{"Sparkling Water 500ml", drinks.ID.String(), 2, 120},
		{"Orange Juice 1L", drinks.ID.String(), 4, 60},
		{"Potato Chips", snacks.ID.String(), 3, 80},
		{"Chocolate Bar", snacks.ID.String(), 2, 150},
	}
	for _, dp := range demoProducts {
		p := product.NewProduct("", dp.name, decimal.NewFromInt(dp.price))
		categoryID := dp.category
		p.CategoryID = &categoryID
		p.Quantity = dp.quantity
		if err := productService.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %q: %w", dp.name, err)
		}
	}

	log.Infow("demo data created", "products", len(demoProducts))
	return nil
}
