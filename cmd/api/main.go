package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/portico/backend/internal/config"
	"github.com/portico/backend/internal/handlers"
	"github.com/portico/backend/internal/middleware"
	"github.com/portico/backend/internal/models"
	"github.com/portico/backend/internal/services"
	"github.com/portico/backend/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()

	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// The storage backend is decided once per process: either object storage
	// (full credential set present) or the local upload root.
	selector := storage.NewSelector(cfg)
	backend, err := selector.Backend()
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	uploadService := services.NewUploadService(db, cfg, backend)
	seedService := services.NewSeedService(db, cfg, backend)

	// Optional: reconcile seed data on start
	if cfg.SeedOnStart {
		go func() {
			log.Println("SeedOnStart enabled: reconciling seed data...")
			if _, err := seedService.ReconcileAll(context.Background(), cfg.Env); err != nil {
				log.Printf("Seed reconciliation finished with errors: %v", err)
				return
			}
			log.Println("Seed reconciliation complete")
		}()
	}

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))

	mediaHandler := handlers.NewMediaHandler(uploadService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "backend": backend.Name()})
	})

	api := router.Group("/api/v1")
	{
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		admin := api.Group("/admin")
		{
			admin.GET("/assets", mediaHandler.ListAssets)
			admin.GET("/assets/:id", mediaHandler.GetAsset)
			admin.DELETE("/assets/:id", mediaHandler.DeleteAsset)

			uploadGroup := admin.Group("")
			uploadGroup.Use(middleware.UploadRateLimit(redisClient, cfg))
			{
				uploadGroup.POST("/assets/upload", mediaHandler.UploadAsset)
			}
		}
	}

	// Local backend: serve uploaded files directly from the upload root
	if local, ok := backend.(*storage.LocalBackend); ok {
		router.GET(cfg.PublicUploadBaseURL+"/:category/:key", handlers.ServeLocalFile(local))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // large uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
