package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/larrysaam/scholar-connect-sub004/internal/api/handler"
	"github.com/larrysaam/scholar-connect-sub004/internal/chathub"
	"github.com/larrysaam/scholar-connect-sub004/internal/config"
	"github.com/larrysaam/scholar-connect-sub004/internal/directory"
	"github.com/larrysaam/scholar-connect-sub004/internal/notify"
	"github.com/larrysaam/scholar-connect-sub004/internal/reconcile"
	"github.com/larrysaam/scholar-connect-sub004/internal/status"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	return db, rdb
}

func setupNotifier(cfg *config.Config) notify.Notifier {
	if cfg.TelegramBotToken == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, offline notifications disabled.")
		return notify.Nop{}
	}
	// The chat-id lookup belongs to the user service; until it exposes one,
	// nobody has a linked chat and the notifier stays quiet.
	notifier, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, func(string) (int64, error) {
		return 0, nil
	})
	if err != nil {
		log.Printf("WARNING: Telegram notifier unavailable: %v", err)
		return notify.Nop{}
	}
	return notifier
}

func main() {
	log.Println("Starting messaging core...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	// 1. Dependencies and migrations
	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database and Redis connections established, migrations complete.")

	// 2. Core components
	hub := chathub.NewHub()
	tracker := status.NewTracker(store)
	commander := chathub.NewCommander(store, tracker, hub, setupNotifier(cfg))
	reconciler := reconcile.NewService(store)

	// 3. Cross-process event bridge
	go hub.RunEventBridge(context.Background(), store)

	// 4. Gin routing
	r := gin.Default()
	h := handler.NewHandler(hub, commander, store, reconciler, directory.Static{}, []byte(cfg.JWTSecret))

	r.GET("/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/conversations", h.ListConversations)
	r.POST("/conversations", h.CreateConversation)
	r.GET("/conversations/:id/catchup", h.Catchup)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
