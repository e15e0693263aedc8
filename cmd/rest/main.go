package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-storefront/internal/bootstrap"
	"ai-storefront/internal/config"
	"ai-storefront/internal/server"
	"ai-storefront/internal/tracer"
	"ai-storefront/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database (postgres content backend only)
	var gormDB *gorm.DB
	if cfg.Content.Backend == "postgres" {
		db, err := database.NewGormDBFromDSN(cfg.Content.DBConnection, cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	if err := container.TranscriptService.Consume(ctx); err != nil {
		log.Printf("Transcript consumer error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
