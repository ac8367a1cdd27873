package main

import (
	"context"
	"log"
	"os"

	"ai-therapist-be/internal/bootstrap"
	"ai-therapist-be/internal/config"
	"ai-therapist-be/internal/model"
	"ai-therapist-be/internal/server"
	"ai-therapist-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.ChatSession{}, &model.ChatMessage{}); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	if err := os.MkdirAll(cfg.App.UploadDir, 0o755); err != nil {
		log.Panicf("Unable to create upload dir: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 4. Start Background Workers
	go func() {
		log.Println("Background: Starting Artifact Janitor...")
		if err := container.Janitor.Run(context.Background()); err != nil {
			log.Printf("Background Janitor Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
