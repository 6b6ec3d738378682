package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/subosito/gotenv"

	"github.com/Spok95/komekbai-bot/internal/bot"
	"github.com/Spok95/komekbai-bot/internal/config"
	"github.com/Spok95/komekbai-bot/internal/dialog"
	"github.com/Spok95/komekbai-bot/internal/domain/content"
	"github.com/Spok95/komekbai-bot/internal/domain/ledger"
	"github.com/Spok95/komekbai-bot/internal/infra/db"
	httpx "github.com/Spok95/komekbai-bot/internal/infra/http"
	"github.com/Spok95/komekbai-bot/internal/infra/logger"
	"github.com/Spok95/komekbai-bot/internal/sweeper"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("authorized", "account", api.Self.UserName)

	store := content.NewStore(cfg.Content.Dir, log)
	ledgerRepo := ledger.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)

	b := bot.New(api, log, statesRepo, ledgerRepo, store)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	sw := sweeper.New(ledgerRepo, b, log, time.Duration(cfg.Sweeper.IntervalSec)*time.Second)
	go sw.Run(ctx)

	go func() {
		if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot loop error", "err", err)
			stop()
		}
	}()
	log.Info("bot started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
