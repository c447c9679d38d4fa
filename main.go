package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"kindred_server/config"
	"kindred_server/routes"
	"kindred_server/services"
	"kindred_server/socket"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize DynamoDB client and store
	dynamoClient, err := services.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
	if err != nil {
		logger.Fatal("dynamodb init failed", zap.Error(err))
	}
	dynamoService := &services.DynamoService{Client: dynamoClient}

	// Initialize the compatibility cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping failed, cache will degrade to recomputation", zap.Error(err))
	}
	cancel()
	cache := services.NewRedisCompatibilityCache(redisClient, logger)

	// Notification hub
	hub := socket.NewHub(logger)

	// Initialize services
	profileService := &services.ProfileService{Dynamo: dynamoService, Logger: logger}
	traitService := &services.TraitService{Dynamo: dynamoService, Cache: cache, Logger: logger}
	compatService := &services.CompatibilityService{Traits: traitService, Cache: cache, Logger: logger}
	discoveryService := &services.DiscoveryService{
		Dynamo:   dynamoService,
		Profiles: profileService,
		Compat:   compatService,
		Logger:   logger,
	}
	interactionService := &services.InteractionService{
		Dynamo:   dynamoService,
		Notifier: hub,
		Logger:   logger,
	}

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Kindred")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.HandleFunc("/ws", hub.ServeWS).Methods("GET")

	// Register routes
	routes.RegisterProfileRoutes(r, profileService)
	routes.RegisterPersonalityRoutes(r, traitService)
	routes.RegisterCompatibilityRoutes(r, compatService)
	routes.RegisterDiscoveryRoutes(r, discoveryService)
	routes.RegisterInteractionRoutes(r, interactionService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
