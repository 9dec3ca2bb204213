package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"family-ledger-go/internal/config"
	httpserver "family-ledger-go/internal/http"
	"family-ledger-go/internal/logging"
	"family-ledger-go/internal/service"
	"family-ledger-go/internal/storage"
	"family-ledger-go/internal/storage/gormstore"
	"family-ledger-go/internal/storage/memory"
)

func main() {
	_ = godotenv.Load(".env")
	logging.Setup()

	cfg := config.Load()

	var store storage.Store
	switch cfg.StorageDriver {
	case "postgres":
		s, err := gormstore.Open(cfg.DSN())
		if err != nil {
			slog.Error("failed to open postgres store", "error", err)
			os.Exit(1)
		}
		store = s
	case "memory":
		s, err := memory.NewSeeded()
		if err != nil {
			slog.Error("failed to seed memory store", "error", err)
			os.Exit(1)
		}
		store = s
	default:
		slog.Error("unknown storage driver", "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "driver", cfg.StorageDriver)

	ledger := service.NewLedger(store)
	r := httpserver.NewServer(cfg, store, ledger)

	slog.Info("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
