package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mirado/clinic-console-api/internal/config"
	"github.com/mirado/clinic-console-api/internal/handlers"
	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/services"
	"github.com/mirado/clinic-console-api/internal/store"
)

func main() {
	cfg := config.Load()
	log.Printf("MONGO_DATABASE: %s", cfg.MongoDatabase)
	log.Printf("API_PORT: %s", cfg.Port)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// --- Stores and Services ---
	accounts := store.NewMongoAccounts(db)
	documents := store.NewMongoDocuments(db)
	clinics := store.NewMongoClinics(db)
	admins := store.NewMongoAdmins(db)
	imageHost := services.NewImageHostService(cfg.ImageHostURL, cfg.ImageHostKey)
	quotes := services.NewQuoteService(cfg.QuoteServiceURL)

	h := handlers.NewHandler(accounts, documents, clinics, admins, imageHost, quotes)

	// --- Gin Router ---
	r := gin.Default()

	// --- Middleware ---
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Portal-Email", "X-Request-Id"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	h.RegisterRoutes(r)

	log.Printf("Starting server on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
