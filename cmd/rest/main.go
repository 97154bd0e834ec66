package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"profile-concierge-be/internal/bootstrap"
	"profile-concierge-be/internal/config"
	"profile-concierge-be/internal/model"
	"profile-concierge-be/internal/server"
	"profile-concierge-be/internal/tracer"
	"profile-concierge-be/pkg/database"
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
	if err := gormDB.AutoMigrate(
		&model.KnowledgeChunk{},
		&model.Interaction{},
		&model.RetrievalQuality{},
	); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Analytics Consumer...")
		if err := container.AnalyticsConsumer.Consume(context.Background()); err != nil {
			log.Printf("Background Analytics Consumer Error: %v", err)
		}
	}()
	go func() {
		log.Println("Background: Starting Owner Notifier...")
		if err := container.OwnerNotifier.Start(); err != nil {
			log.Printf("Background Owner Notifier Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	color.Cyan("Profile Concierge backend")
	color.Green("owner: %s | port: %s | env: %s", cfg.Concierge.OwnerName, cfg.App.Port, cfg.App.Environment)

	// 6. Run Server, shut down cleanly on SIGINT/SIGTERM
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if container.NatsPub != nil {
		container.NatsPub.Close()
	}
	_ = container.Logger.Sync()
}
