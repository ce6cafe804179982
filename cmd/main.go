package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/pm-planner/internal/auth"
	"github.com/ukydev/pm-planner/internal/config"
	"github.com/ukydev/pm-planner/internal/db"
	"github.com/ukydev/pm-planner/internal/handlers"
	"github.com/ukydev/pm-planner/internal/middleware"
	"github.com/ukydev/pm-planner/internal/models"
	"github.com/ukydev/pm-planner/internal/planner"
	"github.com/ukydev/pm-planner/internal/requestlog"
	"github.com/ukydev/pm-planner/internal/usage"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.ValidateForServer(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	userCollection := &db.MongoUserCollection{Collection: database.Collection("users")}
	assetCollection := &db.MongoAssetCollection{Collection: database.Collection("assets")}
	companyCollection := &db.MongoCompanyCollection{Collection: database.Collection("companies")}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	llm, err := planner.NewOpenAIGenerator(
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		cfg.PlanTemperature,
		cfg.PlanMaxTokens,
		cfg.PlanTimeout,
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to create plan generator")
	}
	generator := planner.NewGenerator(llm)

	var requestLog *requestlog.Logger
	if cfg.RequestLogPath != "" {
		requestLog = requestlog.New(cfg.RequestLogPath)
	}

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	assetHandler := handlers.NewAssetHandler(assetCollection)
	companyHandler := handlers.NewCompanyHandler(companyCollection)
	planHandler := handlers.NewPlanHandler(generator, requestLog)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/complete_profile", authHandler.CompleteProfile)
	mux.HandleFunc("/api/auth/update_profile", authHandler.UpdateProfile)
	mux.HandleFunc("/api/auth/change_password", authHandler.ChangePassword)
	mux.HandleFunc("/api/assets", assetHandler.Assets)
	mux.Handle("/api/assets/", guardAssetDeletion(authMiddleware, http.HandlerFunc(assetHandler.AssetByID)))
	mux.HandleFunc("/api/companies", companyHandler.Companies)
	mux.HandleFunc("/api/generate_pm_plan", planHandler.GeneratePlan)
	mux.HandleFunc("/health", healthHandler)

	handler := middleware.CORS(
		rateLimiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindowSec)(
			authMiddleware.Authenticate(mux),
		),
	)

	if cfg.MQTTBroker != "" {
		ingester := usage.NewIngester(cfg.MQTTBroker, cfg.MQTTTopic, assetCollection)
		if err := ingester.Start(); err != nil {
			// Usage ingestion is an enrichment, the API still serves.
			log.WithError(err).Warn("Usage ingester failed to start")
		} else {
			defer ingester.Stop()
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

// guardAssetDeletion gates DELETE on the asset routes to managers and
// admins; reads and updates pass through to the handler's own checks.
func guardAssetDeletion(am *middleware.AuthMiddleware, next http.Handler) http.Handler {
	guarded := am.RequireRole(models.RoleManager)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			guarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
