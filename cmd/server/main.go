package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nikv/tallybook/internal/api"
	"github.com/nikv/tallybook/internal/auth"
	"github.com/nikv/tallybook/internal/service"
	"github.com/nikv/tallybook/internal/storage"
	"github.com/nikv/tallybook/internal/storage/memory"
	"github.com/nikv/tallybook/internal/storage/sqlite"
	"github.com/nikv/tallybook/pkg/logging"
)

// backend is what the server needs from a storage engine: the ledger
// collections plus user accounts.
type backend interface {
	storage.Store
	auth.UserStorage
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/tallybook.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	tokenDuration, err := time.ParseDuration(getEnv("TOKEN_DURATION", "24h"))
	if err != nil {
		slog.Error("Invalid TOKEN_DURATION", "error", err)
		os.Exit(1)
	}

	var store backend
	if dbPath == ":memory:" {
		store = memory.New()
		slog.Warn("Using in-memory storage, data will not survive a restart")
	} else {
		s, err := sqlite.New(dbPath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		store = s
		slog.Info("Storage initialized", "database", dbPath)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := api.New(
		service.NewLedgerService(store),
		service.NewPersonService(store),
		service.NewDataService(store),
		service.NewAuthService(authenticator, jwtManager),
		jwtManager,
	)

	addr := ":" + port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
