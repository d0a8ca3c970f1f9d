package v1

import (
	"github.com/gin-gonic/gin"

	"invenpos/internal/domain/auth"
	"invenpos/internal/domain/catalogs/category"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/domain/documents/purchase"
	"invenpos/internal/domain/reports"
	"invenpos/internal/domain/stock"
	"invenpos/internal/infrastructure/http/v1/handlers"
	"invenpos/internal/infrastructure/http/v1/middleware"
	"invenpos/internal/infrastructure/storage/postgres"
	"invenpos/pkg/logger"
)

// RouterConfig holds the wired services the API serves.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService     *auth.Service
	ProductService  *product.Service
	CategoryService *category.Service
	SupplierService *supplier.Service
	TaxRateService  *taxrate.Service
	InvoiceService  *invoice.Service
	PurchaseService *purchase.Service
	StockService    *stock.Service
	ReportsService  *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		protected.Use(middleware.UserContext())

		registerCatalogRoutes(protected, cfg)
		registerSalesRoutes(protected, cfg)
		registerPurchasingRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication and account endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public endpoints (no JWT required)
	public := rg.Group("/auth")
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.Refresh)

	// Protected endpoints (JWT required)
	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.Use(middleware.UserContext())

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
	protected.POST("/change-password", authHandler.ChangePassword)

	// Account management is privileged
	protected.POST("/register", middleware.RequireAdmin(), authHandler.Register)
	protected.GET("/users", middleware.RequireAdmin(), authHandler.ListUsers)
	protected.GET("/users/:id", middleware.RequireAdmin(), authHandler.GetUser)
	protected.PUT("/users/:id", middleware.RequireAdmin(), authHandler.UpdateUser)
	protected.PUT("/users/:id/active", middleware.RequireAdmin(), authHandler.SetUserActive)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		group := catalogs.Group("/products")
		group.GET("/low-stock", handler.ListLowStock)
		RegisterCatalogRoutes(group, handler)
	}

	// --- CATEGORIES ---
	{
		handler := handlers.NewCategoryHandler(baseHandler, cfg.CategoryService)
		RegisterCatalogRoutes(catalogs.Group("/categories"), handler)
	}

	// --- SUPPLIERS ---
	{
		handler := handlers.NewSupplierHandler(baseHandler, cfg.SupplierService)
		group := catalogs.Group("/suppliers")
		group.POST("/:id/activate", middleware.RequireAdmin(), handler.Activate)
		group.POST("/:id/deactivate", middleware.RequireAdmin(), handler.Deactivate)
		RegisterCatalogRoutes(group, handler)
	}

	// --- TAX RATES ---
	{
		handler := handlers.NewTaxRateHandler(baseHandler, cfg.TaxRateService)
		group := catalogs.Group("/tax-rates")
		group.GET("/active", handler.GetActive)
		group.POST("/:id/activate", middleware.RequireAdmin(), handler.Activate)
		group.POST("/:id/deactivate", middleware.RequireAdmin(), handler.Deactivate)
		RegisterCatalogRoutes(group, handler)
	}
}

// registerSalesRoutes registers checkout, invoice and stock endpoints.
func registerSalesRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- INVOICES ---
	{
		handler := handlers.NewInvoiceHandler(baseHandler, cfg.InvoiceService)
		group := rg.Group("/invoices")

		// Cashiers run checkouts and look up receipts
		group.POST("/checkout", handler.Checkout)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.GET("/:id/export", handler.ExportReceipt)
		group.GET("/number/:number", handler.GetByNumber)

		// Corrections are privileged
		group.POST("/:id/void", middleware.RequireAdmin(), handler.Void)
		group.PUT("/:id", middleware.RequireAdmin(), handler.Edit)
		group.PUT("/:id/tax-rate", middleware.RequireAdmin(), handler.UpdateTaxRate)
		group.DELETE("/:id", middleware.RequireAdmin(), handler.Delete)
	}

	// --- STOCK ---
	{
		handler := handlers.NewStockHandler(baseHandler, cfg.StockService)
		group := rg.Group("/stock")
		group.POST("/restock", middleware.RequireAdmin(), handler.Restock)
		group.GET("/history", middleware.RequireAdmin(), handler.History)
	}
}

// registerPurchasingRoutes registers purchase order endpoints.
func registerPurchasingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewPurchaseOrderHandler(baseHandler, cfg.PurchaseService)

	group := rg.Group("/purchase-orders")
	group.Use(middleware.RequireAdmin())

	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.GET("/number/:number", handler.GetByNumber)
	group.POST("/:id/receive", handler.Receive)
	group.POST("/:id/cancel", handler.Cancel)
	group.DELETE("/:id", handler.Delete)
}

// registerReportRoutes registers reporting endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewReportsHandler(baseHandler, cfg.ReportsService)

	group := rg.Group("/reports")
	group.Use(middleware.RequireAdmin())

	group.GET("/dashboard", handler.GetDashboard)

	group.GET("/sales/summary", handler.GetSalesSummary)
	group.GET("/sales/by-day", handler.GetSalesByDay)
	group.GET("/sales/by-staff", handler.GetSalesByStaff)
	group.GET("/sales/top-products", handler.GetTopProducts)
	group.GET("/sales/export", handler.ExportSales)

	group.GET("/purchases/summary", handler.GetPurchaseSummary)
	group.GET("/purchases/by-supplier", handler.GetPurchasesBySupplier)
	group.GET("/purchases/export", handler.ExportPurchases)
}
