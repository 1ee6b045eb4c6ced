/**
 * @description
 * Service entrypoint. Wires configuration, the Postgres pool, the optional
 * RabbitMQ producer and Redis rate limiter, the application service and the
 * HTTP router, then runs the server with graceful shutdown.
 */

package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/thomasakiou/dpa-BE/internal/api"
	"github.com/thomasakiou/dpa-BE/internal/app"
	"github.com/thomasakiou/dpa-BE/internal/config"
	"github.com/thomasakiou/dpa-BE/internal/store"
	"github.com/thomasakiou/dpa-BE/pkg/rabbitmq"
)

func maskAMQPURLForLog(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "<unparseable>"
	}
	if u.User != nil {
		u.User = url.UserPassword("****", "****")
	}
	return u.String()
}

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	// Establish database connection pool
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database URL: %v\n", err)
	}
	dbConfig.MaxConns = 10
	dbConfig.MinConns = 2
	dbConfig.MaxConnLifetime = 30 * time.Minute
	dbConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	dbConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer dbpool.Close()
	log.Println("Database connection established")

	// Set up RabbitMQ producer; fall back to the logging publisher on failure
	var producer rabbitmq.Publisher
	if cfg.RabbitMQURL == "" {
		producer = &rabbitmq.EventProducerFallback{}
		log.Println("RABBITMQ_URL not set, events will be logged only")
	} else {
		log.Printf("RABBITMQ_URL (masked)=%s", maskAMQPURLForLog(cfg.RabbitMQURL))
		if p, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL); err != nil {
			log.Printf("WARNING: Failed to connect to RabbitMQ at startup: %v. Continuing without MQ.", err)
			producer = &rabbitmq.EventProducerFallback{}
		} else {
			producer = p
			defer producer.Close()
			log.Println("RabbitMQ producer connected")
		}
	}

	repo := store.NewPostgresRepository(dbpool)
	service := app.NewService(
		repo,
		producer,
		cfg.EventExchange,
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpiryMinutes)*time.Minute,
		cfg.DefaultFinancialYear,
	)

	// Optional Redis-backed login throttling
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: invalid REDIS_URL: %v. Login throttling disabled.", err)
		} else {
			client := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := client.Ping(pingCtx).Err(); err != nil {
				log.Printf("WARNING: Redis unreachable: %v. Login throttling disabled.", err)
			} else {
				service.SetLoginRateLimiter(app.NewRedisLoginRateLimiter(client, cfg.RedisRateLimitPrefix), cfg.LoginRateLimitPerMinute)
				log.Println("Redis login rate limiter enabled")
			}
			cancel()
		}
	}

	router := api.Routes(service, cfg.CORSOriginList())

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
