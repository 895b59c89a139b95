package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bankrollbot/internal/auth"
	"bankrollbot/internal/bot"
	"bankrollbot/internal/config"
	"bankrollbot/internal/handlers"
	"bankrollbot/internal/ledger"
	"bankrollbot/internal/service"
	"bankrollbot/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Telegram.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.Telegram.OwnerID == 0 {
		log.Fatal("TELEGRAM_OWNER_ID not set")
	}

	log.Printf("Initializing database at: %s", cfg.Database.SQLitePath)
	store, err := storage.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	l, err := ledger.New(store)
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	alerts := service.NewAlertService(l)

	// Telegram bot doubles as the notifier for scheduled reports
	tgBot, err := bot.New(cfg.Telegram.BotToken, cfg.Telegram.OwnerID, l, alerts)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	go tgBot.Start()
	defer tgBot.Stop()

	reporter := service.NewReporter(l, alerts, tgBot)
	if err := reporter.Register(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron, cfg.Schedule.MonthlyCron); err != nil {
		log.Fatalf("Failed to register schedules: %v", err)
	}
	reporter.Start()
	defer reporter.Stop()

	// Set up HTTP server with auth middleware
	api := handlers.NewAPI(l, alerts)
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api",
		auth.Middleware(cfg.Telegram.BotToken, cfg.Telegram.OwnerID, api.Routes())))

	// Static file serving (web directory)
	mux.Handle("/", http.FileServer(http.Dir("./web")))

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
