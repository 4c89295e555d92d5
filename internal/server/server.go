package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Istemamahmed20445/theo-inventory-management/internal/barcode"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/cache"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/config"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/database"
	custommiddleware "github.com/Istemamahmed20445/theo-inventory-management/internal/middleware"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/repository"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/service"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/storage"
	"github.com/Istemamahmed20445/theo-inventory-management/internal/transport"
)

// loginRateLimit protects the credential endpoint from brute forcing.
var loginRateLimit = custommiddleware.RateLimitConfig{
	RequestsPerWindow: 10,
	Window:            time.Minute,
	KeyPrefix:         "ratelimit:login",
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	store  storage.ObjectStore
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, store storage.ObjectStore, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context(), db); err != nil {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable,
				map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Repositories
	productRepo := repository.NewProductRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	productionRepo := repository.NewProductionRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)

	// Shared infrastructure
	appCache := cache.New()
	barcodes := barcode.NewGenerator(store, cfg.Storage.BarcodePrefix)
	grouper := service.NewWindowGrouper(service.DefaultGroupWindow)

	// Services
	catalogService := service.NewCatalogService(productRepo, attributeRepo, activityRepo,
		store, barcodes, appCache, cfg.Storage.ImagePrefix, cfg.Upload.AllowedExtensions)
	salesService := service.NewSalesService(saleRepo, productRepo, activityRepo, grouper, appCache)
	productionService := service.NewProductionService(productionRepo, productRepo, activityRepo, appCache)
	customerService := service.NewCustomerService(customerRepo, activityRepo, appCache)
	userService := service.NewUserService(userRepo, activityRepo, appCache)
	adminService := service.NewAdminService(maintenanceRepo, activityRepo, appCache)
	importExportService := service.NewImportExportService(productRepo, productionRepo, saleRepo,
		activityRepo, barcodes, appCache)

	// Middleware shared by handlers
	sessionExpiry := time.Duration(cfg.Session.ExpiryHours) * time.Hour
	authMiddleware := custommiddleware.AuthMiddleware(cfg.Session.Secret, cfg.Session.CookieName, logger)
	loginLimiter := custommiddleware.RateLimitMiddleware(redisClient, loginRateLimit, logger)

	// Handlers
	authHandler := transport.NewAuthHandler(userService, cfg.Session.Secret, cfg.Session.CookieName, sessionExpiry, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	salesHandler := transport.NewSalesHandler(salesService, logger)
	productionHandler := transport.NewProductionHandler(productionService, logger)
	customerHandler := transport.NewCustomerHandler(customerService, logger)
	userHandler := transport.NewUserHandler(userService, logger)
	adminHandler := transport.NewAdminHandler(adminService, logger)
	excelHandler := transport.NewExcelHandler(importExportService, logger)

	authHandler.RegisterRoutes(router, authMiddleware, loginLimiter)
	productHandler.RegisterRoutes(router, authMiddleware)
	salesHandler.RegisterRoutes(router, authMiddleware)
	productionHandler.RegisterRoutes(router, authMiddleware)
	customerHandler.RegisterRoutes(router, authMiddleware)
	userHandler.RegisterRoutes(router, authMiddleware)
	adminHandler.RegisterRoutes(router, authMiddleware)
	excelHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		store:  store,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close object store client", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
