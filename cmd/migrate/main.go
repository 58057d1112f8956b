package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate status
//   go run ./cmd/migrate down-to 1

import (
	"context"
	"log"
	"os"

	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	opts := db.OptionsFromEnv(db.DefaultOptions(db.ProfileMigrate))
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command, args...); err != nil {
		log.Printf("migrate %s failed: %v", command, err)
		sqlDB.Close()
		os.Exit(1)
	}
}
