// Command shoplist-migrate prepares the database for the bot: it runs
// pending migrations and syncs the configured admin allow-list into the
// users table. The chat transport runs it before starting.
package main

import (
	"context"
	"log"
	"time"

	"github.com/avivm/shoplist/internal/config"
	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/logging"
	"github.com/avivm/shoplist/internal/shopping"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	svc := shopping.New(db, cfg.QueryTimeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.BootstrapAdmins(ctx, cfg.AdminIDs); err != nil {
		log.Fatalf("bootstrap admins: %v", err)
	}

	logger.Info("database ready", "admins", len(cfg.AdminIDs))
}
