package router

import (
	"pembukuan-web/internal/config"
	"pembukuan-web/internal/handler"
	"pembukuan-web/internal/repository"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	log := utils.GetLogger()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	postingRepo := repository.NewPostingRepository(db)

	// Initialize services
	accountService := service.NewAccountService(accountRepo, log)
	ledgerService := service.NewLedgerService(journalRepo, accountRepo, redis, cfg.BalanceCacheTTL, log)
	inventoryService := service.NewInventoryService(inventoryRepo, log)
	composerService := service.NewComposerService(
		ledgerService,
		inventoryService,
		accountRepo,
		saleRepo,
		postingRepo,
		service.ComposerPolicy{CogsFallbackRatio: decimal.NewFromFloat(cfg.CogsFallbackRatio)},
		log,
	)
	depreciationService := service.NewDepreciationService(assetRepo, ledgerService, postingRepo, log)
	statementService := service.NewStatementService(ledgerService, accountRepo, log)
	excelService := service.NewExcelService(cfg.ExportPath)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	journalHandler := handler.NewJournalHandler(ledgerService, composerService)
	salesHandler := handler.NewSalesHandler(composerService)
	purchaseHandler := handler.NewPurchaseHandler(composerService, cfg.ProductName)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, asynqClient, cfg.ProductName)
	assetHandler := handler.NewAssetHandler(depreciationService)
	reportHandler := handler.NewReportHandler(statementService, ledgerService, excelService)

	// Account routes
	accounts := router.Group("/accounts")
	accounts.Get("/", accountHandler.GetAccounts)
	accounts.Post("/", accountHandler.CreateAccount)
	accounts.Post("/reset", accountHandler.ResetAccounts)
	accounts.Get("/:code", accountHandler.GetAccount)
	accounts.Put("/:code", accountHandler.UpdateAccount)
	accounts.Delete("/:code", accountHandler.DeleteAccount)
	accounts.Get("/:code/balance", journalHandler.GetBalance)

	// Journal routes
	journal := router.Group("/journal")
	journal.Get("/", journalHandler.GetJournal)
	journal.Post("/manual", journalHandler.CreateManualEntry)
	journal.Put("/:id", journalHandler.UpdateEntry)
	journal.Delete("/group/:ref", journalHandler.DeleteGroup)
	journal.Delete("/:id", journalHandler.DeleteEntry)

	// Sales routes
	sales := router.Group("/sales")
	sales.Get("/", salesHandler.GetSales)
	sales.Post("/", salesHandler.CreateSale)
	sales.Get("/:code", salesHandler.GetSale)
	sales.Delete("/:code", salesHandler.DeleteSale)

	// Purchase routes
	router.Post("/purchases", purchaseHandler.CreatePurchase)

	// Inventory routes
	inventory := router.Group("/inventory")
	inventory.Get("/card", inventoryHandler.GetCard)
	inventory.Post("/recalculate", inventoryHandler.Recalculate)
	inventory.Put("/:id", inventoryHandler.UpdateEntry)
	inventory.Delete("/:id", inventoryHandler.DeleteEntry)

	// Asset routes
	assets := router.Group("/assets")
	assets.Get("/", assetHandler.GetAssets)
	assets.Post("/", assetHandler.CreateAsset)
	assets.Get("/:id", assetHandler.GetAsset)
	assets.Delete("/:id", assetHandler.DeleteAsset)
	assets.Get("/:id/depreciation", assetHandler.ComputeDepreciation)
	assets.Post("/:id/depreciation", assetHandler.PostDepreciation)

	// Report routes
	reports := router.Group("/reports")
	reports.Get("/trial-balance", reportHandler.GetTrialBalance)
	reports.Get("/adjusted-trial-balance", reportHandler.GetAdjustedTrialBalance)
	reports.Get("/worksheet", reportHandler.GetWorksheet)
	reports.Get("/income-statement", reportHandler.GetIncomeStatement)
	reports.Get("/balance-sheet", reportHandler.GetBalanceSheet)
	reports.Get("/cash-flow", reportHandler.GetCashFlow)
	reports.Post("/close", reportHandler.CloseBooks)
	reports.Get("/trial-balance/export", reportHandler.ExportTrialBalance)
	reports.Get("/income-statement/export", reportHandler.ExportIncomeStatement)
	reports.Get("/balance-sheet/export", reportHandler.ExportBalanceSheet)
	reports.Get("/journal/export", reportHandler.ExportJournal)
}
