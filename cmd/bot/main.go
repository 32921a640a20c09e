package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"support-bot/internal/bot"
	"support-bot/internal/config"
	"support-bot/internal/database"
	"support-bot/internal/handlers"
	"support-bot/internal/locale"
	"support-bot/internal/messaging"
	"support-bot/internal/service"
	"support-bot/internal/session"
	"support-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logger.DefaultServiceName)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	resolver, err := locale.NewResolver(cfg.DefaultLanguage)
	if err != nil {
		zap.L().Fatal("Invalid default language", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	zap.L().Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	b, err := bot.New(cfg.BotToken)
	if err != nil {
		zap.L().Fatal("Failed to create bot", zap.Error(err))
	}

	gateway := messaging.NewGateway(b.API, db, resolver, cfg.AdminIDs, messaging.Options{
		SendRetries:        cfg.Messaging.SendRetries,
		BroadcastBatchSize: cfg.Messaging.BroadcastBatchSize,
		BroadcastDelay:     cfg.Messaging.BroadcastDelay,
	})

	tickets := service.NewTicketService(db, gateway, resolver)
	admin := service.NewAdminService(db, gateway, resolver, cfg.AdminIDs)
	sessions := session.NewStore()

	router := handlers.NewRouter(b, db, gateway, tickets, admin, sessions, resolver, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	zap.L().Info("Bot started successfully")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				b.API.StopReceivingUpdates()
				return ctx.Err()
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				router.HandleUpdate(ctx, update)
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		zap.L().Fatal("Bot stopped", zap.Error(err))
	}
	zap.L().Info("Bot stopped")
}
