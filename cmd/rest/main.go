package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prados-legal-be/internal/bootstrap"
	"prados-legal-be/internal/config"
	"prados-legal-be/internal/model"
	"prados-legal-be/internal/server"
	"prados-legal-be/internal/tracer"
	"prados-legal-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if _, isSQLite := database.SQLitePath(cfg.Database.Connection); isSQLite {
		// local runs have no separate migration step
		if err := gormDB.AutoMigrate(model.All()...); err != nil {
			log.Panicf("Unable to migrate SQLite database: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := container.Start(ctx); err != nil {
		log.Fatalf("Background services failed to start: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server until a signal, letting in-flight requests finish
	if err := srv.Run(ctx, 15*time.Second); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	// 7. Release background workers only once no handler can start a turn
	log.Println("Shutting down...")
	container.Shutdown()
}
