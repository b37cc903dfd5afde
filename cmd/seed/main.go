package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/portico/backend/internal/config"
	"github.com/portico/backend/internal/models"
	"github.com/portico/backend/internal/services"
	"github.com/portico/backend/internal/storage"
)

// seed reconciles all seedable kinds in dependency order. A kind that fails
// validation or insert is logged and skipped; remaining kinds still run. The
// process exits nonzero if any kind failed.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
	env := flag.String("env", cfg.Env, "environment whose seed sources to merge with the shared ones")
	only := flag.String("kind", "", "reconcile a single kind instead of all")
	flag.Parse()

	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	backend, err := storage.NewSelector(cfg).Backend()
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	seedService := services.NewSeedService(db, cfg, backend)
	ctx := context.Background()

	if *only != "" {
		kind, err := services.ParseKind(*only)
		if err != nil {
			log.Fatalf("%v (valid kinds: %v)", err, services.KindOrder)
		}
		report, err := seedService.Reconcile(ctx, kind, *env)
		if err != nil {
			log.Fatalf("Reconcile %s failed: %v", kind, err)
		}
		log.Printf("seed: %s", report)
		return
	}

	if _, err := seedService.ReconcileAll(ctx, *env); err != nil {
		log.Printf("Seed run finished with errors: %v", err)
		os.Exit(1)
	}
	log.Println("Seed run complete")
}
