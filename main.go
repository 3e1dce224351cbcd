package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"attendx_backend/config"
	"attendx_backend/db"
	"attendx_backend/pipeline"
	"attendx_backend/ratelimit"
	"attendx_backend/recognition"
	"attendx_backend/routes"
	"attendx_backend/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found") // Non-fatal in production
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	jwtSecret := []byte(cfg.JWTSecret)

	// Connect to database
	database, err := db.Initialize(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer database.Close()

	// Initialize database schema
	if err := db.InitSchema(database); err != nil {
		log.Fatalf("Error initializing database schema: %v", err)
	}

	// Seed bootstrap admin if configured
	if err := db.SeedData(database); err != nil {
		log.Printf("Warning: Error seeding initial data: %v", err)
	}

	// Wire the admission pipeline
	var extractor recognition.Extractor
	if cfg.ExtractorURL != "" {
		extractor = recognition.NewRemoteExtractor(cfg.ExtractorURL)
	} else {
		log.Println("EXTRACTOR_URL not set; clients must submit precomputed embeddings")
	}

	ledger := ratelimit.NewLedger(cfg.RateLimitAttempts, cfg.RateLimitWindow)
	pipe := pipeline.New(store.NewPostgres(database), extractor, ledger, pipeline.Config{
		MatchThreshold:   cfg.MatchThreshold,
		MinConfidence:    cfg.MinConfidence,
		VerifyTimeout:    cfg.VerifyTimeout,
		LectureStartHour: cfg.LectureStartHour,
		LectureEndHour:   cfg.LectureEndHour,
	})

	// Sweep idle rate-limit entries so the ledger stays bounded
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(1).Minute().Do(func() {
		if removed := ledger.Sweep(); removed > 0 {
			log.Printf("Rate-limit ledger sweep removed %d idle identities", removed)
		}
	})
	scheduler.StartAsync()

	// Initialize router
	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		f := pipeline.NewFailure(pipeline.CodeMethodNotAllowed)
		c.JSON(f.Status, gin.H{"success": false, "error_code": f.Code, "message": f.Message})
	})

	// Setup CORS - Simplified for kiosk and mobile clients
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
		"PATCH",
	}
	r.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(r, database, pipe, jwtSecret)

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
}
