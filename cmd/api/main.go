package main

import (
	"log"
	"net/http"
	"os"
	"textcompare-api/internal/api/handlers"
	"textcompare-api/internal/config"
	"textcompare-api/internal/db"
	"textcompare-api/internal/llm"
	"textcompare-api/internal/middleware"
	"textcompare-api/internal/repository"
	"textcompare-api/internal/services"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Initialize database connection
	database, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := database.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Initialize repositories
	apiKeyRepo := repository.NewAPIKeyRepository(database)
	subscriptionRepo := repository.NewSubscriptionRepository(database)
	typeConfigRepo := repository.NewTypeConfigRepository(database)
	textRepo := repository.NewTextRepository(database)
	usageRepo := repository.NewUsageRepository(database)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	signingKey := config.NewSigningKey(jwtSecret)

	subscriptionService := services.NewSubscriptionService(subscriptionRepo)
	quotaService := services.NewQuotaService(apiKeyRepo, config.NewQuotaConfig())
	usageService := services.NewUsageService(usageRepo)

	authService := services.NewAuthService(
		apiKeyRepo,
		subscriptionService,
		quotaService,
		signingKey,
	)

	var cacheService services.CacheService
	if redisCache, err := services.NewRedisCacheService(config.NewCacheConfig()); err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
	} else {
		cacheService = redisCache
	}

	dispatcher := llm.NewDispatcher(config.NewProviderConfig())

	comparisonService := services.NewComparisonService(
		apiKeyRepo,
		typeConfigRepo,
		textRepo,
		subscriptionService,
		quotaService,
		usageService,
		cacheService,
		dispatcher,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	compareHandler := handlers.NewCompareHandler(comparisonService)
	statusHandler := handlers.NewStatusHandler(subscriptionService, quotaService, usageService)

	// Initialize router
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	// Public routes
	router.HandleFunc("/api/v1/auth", authHandler.Authorize).Methods("POST")
	router.HandleFunc("/api/v1/subscription/{api_key}", statusHandler.GetSubscription).Methods("GET")
	router.HandleFunc("/api/v1/billing/{api_key}", statusHandler.GetBilling).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Token-protected routes
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware(authService))
	apiRouter.HandleFunc("/reference", compareHandler.UploadReference).Methods("POST")
	apiRouter.HandleFunc("/compare/{reference_id}", compareHandler.Compare).Methods("POST")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300,
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + getPort(),
		WriteTimeout: 90 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", getPort())
	log.Fatal(srv.ListenAndServe())
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	return port
}
