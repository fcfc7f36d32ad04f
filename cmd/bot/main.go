package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bot/internal/bot"
	"bot/internal/conversation"
	"bot/internal/http/handlers"
	httpapi "bot/internal/http/httpapi"
	"bot/internal/infra"
	"bot/internal/leonardo"
	"bot/internal/storage"
	"bot/internal/telegram"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	tg := telegram.NewClient(telegram.Options{
		Token:   cfg.TelegramToken,
		BaseURL: cfg.TelegramBaseURL,
		// The HTTP client must outlive a held-open long poll.
		Timeout: cfg.PollTimeout + 30*time.Second,
	})

	leo := leonardo.NewClient(leonardo.Options{
		APIKey:       cfg.LeoAPIKey,
		BaseURL:      cfg.LeoBaseURL,
		PollInterval: cfg.GeneratePollInterval,
	})

	sessions := conversation.NewStore(conversation.StoreOptions{
		Logger: logger,
		TTL:    cfg.SessionTTL,
		Sweep:  cfg.SessionSweepInterval,
		Limit:  cfg.SessionLimit,
	})

	var assets *storage.FileStore
	var archiver *storage.Archiver
	if cfg.ArchiveDir != "" {
		assets, err = storage.NewFileStore(cfg.ArchiveDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open archive dir")
		}
		archiver = storage.NewArchiver(storage.ArchiverOptions{
			Store:  assets,
			Logger: logger,
			TTL:    cfg.ArchiveTTL,
		})
	}

	ctrl := bot.New(bot.Options{
		Messenger:       tg,
		Generator:       leo,
		Sessions:        sessions,
		Archiver:        archiver,
		Logger:          logger,
		DefaultLocale:   cfg.DefaultLocale,
		EnhanceTimeout:  cfg.EnhanceTimeout,
		GenerateTimeout: cfg.GenerateTimeout,
		GenerateRetries: cfg.GenerateRetries,
	})

	app := handlers.NewApp(ctrl, assets, cfg.TelegramWebhookSecret, logger)
	router := httpapi.NewRouter(httpapi.Options{
		App:             app,
		Logger:          logger,
		RateLimitPerMin: cfg.RateLimitPerMin,
		WebhookEnabled:  cfg.TelegramMode == infra.ModeWebhook,
	})
	server := infra.NewHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Msgf("ops API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	if archiver != nil {
		go archiver.Run(ctx)
	}

	switch cfg.TelegramMode {
	case infra.ModeWebhook:
		if err := tg.SetWebhook(ctx, cfg.TelegramWebhookURL, cfg.TelegramWebhookSecret); err != nil {
			logger.Fatal().Err(err).Msg("failed to register webhook")
		}
		logger.Info().Str("url", cfg.TelegramWebhookURL).Msg("webhook registered, receiving updates over HTTP")
		<-ctx.Done()
	default:
		// A leftover webhook blocks getUpdates, so clear it first.
		if err := tg.DeleteWebhook(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to clear webhook before polling")
		}
		poller := telegram.NewPoller(telegram.PollerOptions{
			Client:  tg,
			Handler: ctrl,
			Logger:  logger,
			Window:  cfg.PollTimeout,
		})
		logger.Info().Msg("long polling for updates")
		if err := poller.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("poller stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	sessions.Shutdown()
	logger.Info().Msg("bot stopped")
}
