package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solarstock/cmd"
	"solarstock/internal/clients"
	"solarstock/internal/costing"
	"solarstock/internal/database"
	"solarstock/internal/database/migration"
	"solarstock/internal/ledger"
	"solarstock/internal/logger"
	"solarstock/internal/materials"
	"solarstock/internal/middleware"
	"solarstock/internal/repository"
	"solarstock/internal/stocks"
	"solarstock/internal/users"
	"solarstock/pkg/auditlog"
	"solarstock/pkg/security"
)

func main() {
	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	zapLog := logger.NewLogger()
	defer zapLog.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := migration.Migrate(dbURL, "file://./migrations", zapLog); err != nil {
		log.Fatalf("Error: %v", err)
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	materialRepo := materials.NewRepository(repo)
	clientRepo := clients.NewRepository(repo)
	stockRepo := stocks.NewRepository(repo)
	transactionRepo := ledger.NewRepository(repo)
	snapshotRepo := costing.NewRepository(repo)

	costingService := costing.NewCostingService(snapshotRepo, transactionRepo, materialRepo, clientRepo)
	transactionService := ledger.NewTransactionService(repo, transactionRepo, stockRepo, materialRepo, clientRepo, costingService.RefreshTx)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLog))
	router.Use(middleware.MetricsMiddleware())

	security.NewLoginHandler(repo).RegisterRoutes(router)
	materials.NewMaterialHandler(repo, auditLog).RegisterRoutes(router)
	stocks.NewStockHandler(repo, auditLog).RegisterRoutes(router)
	clients.NewClientHandler(repo, auditLog).RegisterRoutes(router)
	ledger.NewTransactionHandler(transactionService, auditLog).RegisterRoutes(router)
	costing.NewCostingHandler(costingService, auditLog).RegisterRoutes(router)
	auditLog.RegisterRoutes(router)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	users.NewHandler(users.NewRepository(repo)).RegisterRoutes(protectedRoutes)

	router.GET("/health", middleware.HealthHandler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
