package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Niloy28/rhythmflow/internal/config"
	database "github.com/Niloy28/rhythmflow/internal/db"
	"github.com/Niloy28/rhythmflow/internal/storage"

	apiserver "github.com/Niloy28/rhythmflow/internal/api/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting RhythmFlow API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()
	database.SeedAdminUser(db.DB, cfg.Auth.AdminUser, cfg.Auth.AdminPass)
	if cfg.Server.DevMode {
		database.SeedDemoCatalog(db.DB)
	}

	// 4. Storage
	store := storage.New(cfg)

	// 5. Setup Metrics
	go func() {
		http.Handle("/_metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/_metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 6. Start Server
	srv := apiserver.New(cfg, db, store)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)

	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
