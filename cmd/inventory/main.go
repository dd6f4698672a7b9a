// Package main is the entry point for the interactive inventory tracker.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/inventory/internal/config"
	"github.com/vyrodovalexey/inventory/internal/console"
	"github.com/vyrodovalexey/inventory/internal/handler"
	"github.com/vyrodovalexey/inventory/internal/server"
	"github.com/vyrodovalexey/inventory/internal/store"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(in io.Reader, out io.Writer) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Debug("configuration loaded",
		zap.String("inventory_file", cfg.InventoryFile),
		zap.Bool("auto_save", cfg.AutoSave),
		zap.String("log_level", cfg.LogLevel),
		zap.Int("probe_port", cfg.ProbePort),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	inventory := store.NewFileStore(cfg.InventoryFile, logger, store.WithAutoSave(cfg.AutoSave))

	var ready atomic.Bool
	srv, serverErrors := startProbeServer(cfg, logger, inventory, ready.Load)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	menu := console.New(inventory, logger, in, out)
	menuDone := make(chan error, 1)
	ready.Store(true)
	go func() {
		menuDone <- menu.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	exitCode := 0
	select {
	case err := <-menuDone:
		if err != nil {
			logger.Error("menu stopped", zap.Error(err))
			exitCode = 1
			saveOnExit(inventory, logger)
		}
	case err := <-serverErrors:
		logger.Error("probe server error", zap.Error(err))
		exitCode = 1
		saveOnExit(inventory, logger)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		saveOnExit(inventory, logger)
	}

	ready.Store(false)
	cancel()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("probe server shutdown failed", zap.Error(err))
			exitCode = 1
		}
	}

	return exitCode
}

// startProbeServer starts the probe server when a probe port is configured.
// The returned channel never delivers when the server is disabled.
func startProbeServer(
	cfg *config.Config,
	logger *zap.Logger,
	inventory *store.FileStore,
	ready func() bool,
) (*server.Server, <-chan error) {
	serverErrors := make(chan error, 1)
	if !cfg.ProbeEnabled() {
		return nil, serverErrors
	}

	probe := handler.NewProbeHandler(inventory, ready, logger)
	srv := server.New(cfg, logger, probe)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrors <- err
		}
	}()

	return srv, serverErrors
}

// saveOnExit writes any state the menu did not get to save.
func saveOnExit(inventory *store.FileStore, logger *zap.Logger) {
	if !inventory.Dirty() {
		return
	}
	if err := inventory.Save(context.Background()); err != nil {
		logger.Error("final inventory save failed", zap.Error(err))
	}
}

// initLogger initializes a zap logger with the specified level and encoding.
// Logs go to stderr so they do not interleave with the menu on stdout.
func initLogger(level, encoding string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	var encodeLevel zapcore.LevelEncoder = zapcore.LowercaseLevelEncoder
	if encoding == "console" {
		encodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoding = "json"
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    encoding,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    encodeLevel,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
