package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/susu3304/wageflow/internal/api"
	"github.com/susu3304/wageflow/internal/assistant"
	"github.com/susu3304/wageflow/internal/bot"
	"github.com/susu3304/wageflow/internal/chain"
	"github.com/susu3304/wageflow/internal/commands"
	"github.com/susu3304/wageflow/internal/config"
	"github.com/susu3304/wageflow/internal/db"
	"github.com/susu3304/wageflow/internal/payroll"
	"github.com/susu3304/wageflow/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Sessions live in Redis when configured, otherwise in process memory
	var store session.Store
	if cfg.RedisURL != "" {
		client, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.SessionTTL)
	} else {
		log.Println("REDIS_URL not set, keeping sessions in memory")
		store = session.NewMemoryStore()
	}

	// Connect to Celo
	network, err := chain.LookupNetwork(cfg.Network)
	if err != nil {
		log.Fatalf("Failed to resolve network: %v", err)
	}
	wallet, err := chain.Dial(ctx, network, cfg.RPCURL, cfg.PrivateKey)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", network.Name, err)
	}
	defer wallet.Close()

	orchestrator := payroll.New(wallet, payroll.Options{
		Pause:      cfg.PayPause,
		GasReserve: cfg.GasReserve,
	})

	deps := &commands.Deps{
		Ledger:       database,
		Wallet:       wallet,
		Payroll:      orchestrator,
		DashboardURL: cfg.PublicBaseURL,
	}
	if cfg.AIEnabled() {
		deps.Assistant = assistant.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	}

	// Initialize Telegram bot
	telegramBot, err := bot.New(cfg.BotToken, store, deps, cfg.WebhookURL, cfg.WebhookSecret)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	// Initialize API server
	var webhook http.Handler
	if cfg.WebhookURL != "" {
		webhook = telegramBot.WebhookHandler()
	}
	apiServer := api.New(cfg.WebBind, cfg.JWTSecret, database, webhook)
	deps.IssueToken = apiServer.IssueToken

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Start Telegram bot
	if err := telegramBot.Start(); err != nil {
		log.Fatalf("Failed to start telegram bot: %v", err)
	}

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
	telegramBot.Stop()
}
