package main

import (
	"log"
	"os"
	"time"

	"github.com/karthikeyavasudha/clotherr/internal/api"
	"github.com/karthikeyavasudha/clotherr/internal/cart"
	"github.com/karthikeyavasudha/clotherr/internal/session"
	"github.com/karthikeyavasudha/clotherr/internal/storage"
)

type Config struct {
	APIBaseURL     string
	DBPath         string
	RequestTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		DBPath:         getEnv("DB_PATH", "clotherr.db"),
		RequestTimeout: 30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("clotherr storefront starting...")
	cfg := loadConfig()

	store, err := storage.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open device storage: %v", err)
	}
	defer store.Close()
	log.Printf("Device storage ready at %s", cfg.DBPath)

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	sessions := session.NewStore(store, client)
	sessions.Hydrate()

	carts := cart.NewStore(store)
	carts.Hydrate()

	if user := sessions.Identity(); user != nil {
		log.Printf("Restored session for %s", user.Email)
	} else {
		log.Println("No active session")
	}
	log.Printf("Restored cart: %d units, total %.2f", carts.Count(), carts.Total())
}
