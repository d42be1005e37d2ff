package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/bdl"
	"github.com/fortuna/courtside/internal/pipeline"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/scheduler"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Team Season Stats Service", serviceName, serviceVersion)

	// Load configuration from environment (.env supported for local runs)
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded .env file")
	}
	config := loadConfig()

	// An absent credential is fatal before any network call is attempted.
	if config.APIKey == "" {
		log.Fatal("BDL_API_KEY is required")
	}

	client := bdl.NewClientWithBaseURL(config.APIKey, config.APIBase)
	batch := bdl.NewBatchFetcher()

	pipe := pipeline.New(client, batch, pipeline.Config{
		TeamID: config.TeamID,
		Season: config.Season,
	})

	log.Printf("✓ Pipeline configured: team %d, season %d", config.TeamID, config.Season)

	// Snapshot publishing is optional; the pipeline runs fine without Redis.
	if config.RedisURL != "" {
		redisPublisher, err := publisher.NewRedisPublisher(config.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis publisher unavailable: %v (snapshots will not be streamed)", err)
		} else {
			defer redisPublisher.Close()
			pipe.SetPublisher(redisPublisher)
			log.Println("✓ Redis snapshot publisher initialized")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := scheduler.NewRefresher(pipe, config.RefreshInterval)
	go refresher.Start(ctx)

	log.Println("✓ Refresher started")

	restServer := rest.NewServer(config.RESTPort, pipe)
	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", config.RESTPort)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("Shutting down %s gracefully...", serviceName)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

type Config struct {
	APIKey          string
	APIBase         string
	TeamID          int
	Season          int
	RESTPort        string
	RedisURL        string
	RefreshInterval time.Duration
}

func loadConfig() Config {
	return Config{
		APIKey:          os.Getenv("BDL_API_KEY"),
		APIBase:         getEnv("BDL_API_BASE", bdl.BaseURL),
		TeamID:          getEnvInt("TEAM_ID", 16),
		Season:          getEnvInt("SEASON", 2025),
		RESTPort:        getEnv("REST_PORT", "8080"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RefreshInterval: time.Duration(getEnvInt("REFRESH_INTERVAL_MINUTES", 10)) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid %s value %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}
