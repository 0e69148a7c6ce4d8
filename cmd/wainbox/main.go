package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wainbox/internal/chat"
	"wainbox/internal/config"
	"wainbox/internal/constants"
	"wainbox/internal/database"
	"wainbox/internal/directory"
	"wainbox/internal/maintenance"
	"wainbox/internal/media"
	"wainbox/internal/notify"
	"wainbox/internal/tracing"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes sensitive information)")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("wainbox %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting wainbox")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.Info("Verbose logging enabled - sensitive information will be logged")
	} else if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			if level > logrus.InfoLevel {
				level = logrus.InfoLevel
			}
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	// Initialize OpenTelemetry tracing
	tracingManager := tracing.NewManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	storage, err := media.NewStorage(cfg.Media.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}
	mediaRouter := media.NewRouter(cfg.Media)

	dir := directory.NewService(db, logger)
	seed, err := dir.Seed(ctx, cfg.Directory.SeedPath)
	if err != nil {
		return fmt.Errorf("failed to seed directory: %w", err)
	}

	store := chat.NewStore(chat.Options{
		Seed:           seed,
		Router:         mediaRouter,
		Notifier:       notify.NewLogNotifier(logger),
		Persister:      db,
		Logger:         logger,
		DeliveredDelay: time.Duration(cfg.Chat.DeliveredDelayMs) * time.Millisecond,
		ReadDelay:      time.Duration(cfg.Chat.ReadDelayMs) * time.Millisecond,
		Sender:         "You",
	})
	defer store.Close()

	if cfg.Chat.TypingEnabled {
		interval := time.Duration(cfg.Chat.TypingIntervalSec) * time.Second
		typingSim := chat.NewTypingSimulator(store, logger, interval)
		go typingSim.Start(ctx)
		defer typingSim.Stop()
	}

	cleanupInterval := time.Duration(constants.DefaultCleanupIntervalHours) * time.Hour
	scheduler := maintenance.NewScheduler(db, storage, logger, cleanupInterval, cfg.RetentionDays)
	go scheduler.Start(ctx)
	defer scheduler.Stop()

	server := NewServer(cfg, store, storage, mediaRouter, logger)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.DefaultGracefulShutdownSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}
