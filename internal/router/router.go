package router

import (
	"time"

	"github.com/Ertugrul2020/pos/internal/config"
	"github.com/Ertugrul2020/pos/internal/handler"
	"github.com/Ertugrul2020/pos/internal/infra"
	"github.com/Ertugrul2020/pos/internal/middleware"
	"github.com/Ertugrul2020/pos/internal/repository"
	"github.com/Ertugrul2020/pos/internal/service"
	"github.com/Ertugrul2020/pos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus the
// report service, whose auto-prompt ticker the caller owns.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb and generator may be nil; the affected features degrade gracefully.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, generator service.TextGenerator) (*gin.Engine, service.ReportService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	settingsSvc := service.NewSettingsService(settingsRepo)
	authSvc := service.NewAuthService(settingsSvc, mailer, cfg)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, movementRepo, authSvc)
	cartSvc := service.NewCartService(productRepo)
	checkoutSvc := service.NewCheckoutService(saleRepo, productRepo, movementRepo, customerRepo, cartSvc, settingsSvc, cfg.ReceiptStoragePath)
	customerSvc := service.NewCustomerService(customerRepo)
	expenseSvc := service.NewExpenseService(expenseRepo)
	reportSvc := service.NewReportService(saleRepo, expenseRepo, productRepo, settingsSvc, dispatcher, mailer)
	insightsSvc := service.NewInsightsService(saleRepo, productRepo, generator)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	categoriesH := handler.NewCategoriesHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)
	salesH := handler.NewSalesHandler(checkoutSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	insightsH := handler.NewInsightsHandler(insightsSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public, brute-force limited)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/recover", middleware.LoginRateLimiter(), authH.Recover)
		auth.POST("/reset", middleware.LoginRateLimiter(), authH.Reset)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(middleware.RoleCashier, middleware.RoleAdmin)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — both roles read, admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.POST("/:id/restock", productsH.Restock)
			prods.DELETE("/:id", productsH.Delete)
		}
		v1.GET("/stock-movements", anyRole, productsH.Movements)

		v1.GET("/categories", anyRole, categoriesH.List)
		cats := v1.Group("/categories", adminOnly)
		{
			cats.POST("", categoriesH.Create)
			cats.PUT("/:id", categoriesH.Update)
			cats.DELETE("/:id", categoriesH.Delete)
		}

		// Cart — session-scoped, both roles
		cart := v1.Group("/cart", anyRole)
		{
			cart.GET("", cartH.Get)
			cart.POST("/items", cartH.Add)
			cart.PUT("/items/:id", cartH.UpdateQuantity)
			cart.DELETE("/items/:id", cartH.Remove)
			cart.DELETE("", cartH.Clear)
		}

		// Sales
		v1.POST("/checkout", anyRole, salesH.Checkout)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.DELETE("/sales/:id", adminOnly, salesH.Delete)
		v1.GET("/sales/export", anyRole, reportsH.ExportCSV)

		// Customers — deletion is admin territory
		v1.POST("/customers", anyRole, customersH.Create)
		v1.GET("/customers", anyRole, customersH.List)
		v1.GET("/customers/:id", anyRole, customersH.Get)
		v1.PUT("/customers/:id", anyRole, customersH.Update)
		v1.DELETE("/customers/:id", adminOnly, customersH.Delete)

		// Expenses
		v1.POST("/expenses", anyRole, expensesH.Create)
		v1.GET("/expenses", anyRole, expensesH.List)
		v1.DELETE("/expenses/:id", adminOnly, expensesH.Delete)

		// Daily report
		reports := v1.Group("/reports", anyRole)
		{
			reports.GET("/summary", reportsH.Summary)
			reports.POST("/send", reportsH.Send)
			reports.GET("/auto-status", reportsH.AutoStatus)
			reports.POST("/dismiss", reportsH.Dismiss)
		}

		// AI insights — admin only, it costs money
		v1.POST("/insights", adminOnly, insightsH.Generate)

		// Settings
		v1.GET("/settings", anyRole, settingsH.Get)
		v1.PUT("/settings", adminOnly, settingsH.Update)
		v1.POST("/auth/change-password", adminOnly, authH.ChangePassword)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, reportSvc
}
