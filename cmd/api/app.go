package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hugohenrick/pdv-varejo/docs"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/api/route"
	"github.com/hugohenrick/pdv-varejo/internal/adapter/repository"
	"github.com/hugohenrick/pdv-varejo/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-varejo/internal/service"
	"github.com/hugohenrick/pdv-varejo/pkg/logger"
	"github.com/hugohenrick/pdv-varejo/pkg/tenant"
)

// App representa a aplicação e suas dependências
type App struct {
	router           *gin.Engine
	db               *database.PostgresDB
	logger           logger.Logger
	tenantMiddleware gin.HandlerFunc

	tenantController    *controller.TenantController
	branchController    *controller.BranchController
	userController      *controller.UserController
	authController      *controller.AuthController
	customerController  *controller.CustomerController
	licenseController   *controller.LicenseController
	saleController      *controller.SaleController
	returnController    *controller.ReturnController
	inventoryController *controller.InventoryController
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	config := database.NewPostgresConfigFromEnv()
	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, err
	}

	// Aplicar migrações pendentes, se habilitado
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
	}

	pool := db.Pool()
	txManager := database.NewTxManager(pool)

	// Criar repositórios
	tenantRepo := repository.NewTenantRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	licenseRepo := repository.NewLicenseRepository(pool)
	activationRepo := repository.NewActivationRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	returnRepo := repository.NewReturnRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	movementRepo := repository.NewMovementRepository(pool)

	// Alíquota aplicada sobre reembolsos e vendas
	taxRate := 0.10
	if v := os.Getenv("TAX_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			taxRate = parsed
		}
	}

	// Criar serviços
	licenseService := service.NewLicenseService(licenseRepo, activationRepo, txManager, log)
	saleService := service.NewSaleService(saleRepo, inventoryRepo, movementRepo, txManager, taxRate, log)
	returnService := service.NewReturnService(returnRepo, saleRepo, inventoryRepo, movementRepo, customerRepo, txManager, taxRate, log)

	// Criar validador e middleware de tenant
	tenantValidator := repository.NewTenantValidator(tenantRepo)
	tenantMiddleware := tenant.TenantMiddleware(tenantValidator)

	// Criar controllers
	tenantController := controller.NewTenantController(tenantRepo, log)
	branchController := controller.NewBranchController(branchRepo)
	userController := controller.NewUserController(userRepo, tenantRepo)
	authController := controller.NewAuthController(userRepo)
	customerController := controller.NewCustomerController(customerRepo, log)
	licenseController := controller.NewLicenseController(licenseService, log)
	saleController := controller.NewSaleController(saleService, log)
	returnController := controller.NewReturnController(returnService, log)
	inventoryController := controller.NewInventoryController(inventoryRepo, movementRepo, log)

	// Configurar router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"tenant-id", "x-license-key", "x-activation-key",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	return &App{
		router:              router,
		db:                  db,
		logger:              log,
		tenantMiddleware:    tenantMiddleware,
		tenantController:    tenantController,
		branchController:    branchController,
		userController:      userController,
		authController:      authController,
		customerController:  customerController,
		licenseController:   licenseController,
		saleController:      saleController,
		returnController:    returnController,
		inventoryController: inventoryController,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	// Documentação Swagger
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Rotas que não exigem o cabeçalho de tenant: administração de tenants,
	// autenticação, setup inicial e o fluxo de ativação de licenças usado
	// pelo instalador do cliente
	route.SetupTenantRoutes(api, a.tenantController)
	route.SetupAuthRoutes(api, a.authController)
	route.SetupSetupRoutes(api, a.userController)
	route.RegisterLicenseRoutes(api, a.licenseController)

	// Rotas que exigem validação de tenant
	protected := api.Group("")
	protected.Use(a.tenantMiddleware)

	route.SetupBranchRoutes(protected, a.branchController)
	route.SetupUserRoutes(protected, a.userController)
	route.RegisterCustomerRoutes(protected, a.customerController)
	route.RegisterSaleRoutes(protected, a.saleController)
	route.RegisterReturnRoutes(protected, a.returnController)
	route.RegisterInventoryRoutes(protected, a.inventoryController)
}

// Run inicia o servidor HTTP
func (a *App) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.logger.Info("iniciando servidor", "port", port)
	return a.router.Run(":" + port)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
