package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"CuratorHub/internal/config"
	"CuratorHub/internal/enrich"
	"CuratorHub/internal/infrastructure/books"
	"CuratorHub/internal/infrastructure/extract"
	"CuratorHub/internal/infrastructure/fetch"
	"CuratorHub/internal/infrastructure/llm"
	"CuratorHub/internal/infrastructure/scheduler"
	"CuratorHub/internal/infrastructure/storage"
	"CuratorHub/internal/infrastructure/telegram"
	"CuratorHub/internal/logging"
	"CuratorHub/internal/ports"
	"CuratorHub/internal/server"
	"CuratorHub/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *storage.Store
	library *usecase.Library
	intake  *usecase.Intake
	janitor *usecase.Janitor
	server  *server.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	library := usecase.NewLibrary(store.Articles(), store.Users(),
		logging.Component(baseLogger, "library"))

	fetcher := fetch.NewProxyFetcher(cfg.Fetcher, nil,
		logging.Component(baseLogger, "fetcher"))

	registry := enrich.NewRegistry()
	registry.Register(extract.NewArticleEnricher(fetcher,
		logging.Component(baseLogger, "enrich.article")))
	registry.Register(extract.NewVideoEnricher(nil, fetcher,
		logging.Component(baseLogger, "enrich.video")))
	registry.Register(extract.NewBookEnricher(
		books.NewClient(nil, logging.Component(baseLogger, "books")),
		fetcher,
		logging.Component(baseLogger, "enrich.book")))

	generator := llm.NewGeminiClient(cfg.Gemini,
		logging.Component(baseLogger, "gemini"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID)
	}

	intake := usecase.NewIntake(usecase.IntakeDeps{
		Enrichers:     registry,
		Generator:     generator,
		Library:       library,
		Notifier:      notifier,
		DefaultAPIKey: cfg.YouTube.APIKey,
		Logger:        logging.Component(baseLogger, "intake"),
	})

	session := usecase.NewFormSession(intake, cfg.Submission.Debounce())

	var janitor *usecase.Janitor
	if cfg.Janitor.Enabled {
		janitor = usecase.NewJanitor(
			scheduler.NewTickerScheduler(cfg.Janitor.Interval()),
			library,
			cfg.Janitor.Retention(),
			logging.Component(baseLogger, "janitor"))
	}

	srv := server.New(library, intake, session, cfg.Server.BasePath,
		logging.Component(baseLogger, "server"))

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		store:   store,
		library: library,
		intake:  intake,
		janitor: janitor,
		server:  srv,
	}, nil
}

// Library exposes the article workflow for maintenance commands.
func (a *Application) Library() *usecase.Library {
	return a.library
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.store.Close()
}

// Run serves HTTP until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.janitor != nil {
		if err := a.janitor.Start(ctx); err != nil {
			return err
		}
		defer a.janitor.Stop(context.Background())
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", a.cfg.Server.Addr, "basePath", a.cfg.Server.BasePath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
