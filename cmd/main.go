package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tvremote/internal/api"
	"tvremote/internal/channelart"
	"tvremote/internal/clock"
	"tvremote/internal/config"
	"tvremote/internal/remote"
	"tvremote/internal/television"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables before building the logger so LOG_LEVEL applies
	envErr := godotenv.Load()

	logger, err := newLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.NewLoader(os.Getenv("REMOTE_CONFIG"), logger).Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	catalog := channelart.NewCatalog(cfg.ChannelArt.Dir, logger)
	if missing, err := catalog.Validate(); err != nil {
		if errors.Is(err, channelart.ErrFolderNotFound) {
			logger.Warn("Channel art unavailable, state will be served without images", zap.Error(err))
		} else {
			logger.Error("Failed to check channel art", zap.Error(err))
		}
	} else if len(missing) > 0 {
		logger.Warn("Some channels have no art",
			zap.String("dir", catalog.Dir()),
			zap.Int("missing", len(missing)))
	}

	tvRemote := remote.NewRemote(television.New(), clock.NewRealClock(), logger)
	displayState(tvRemote.State(), logger)

	server := api.NewServer(tvRemote, catalog, logger, cfg.API.Port, cfg.WebSocket.WriteTimeout)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start API server", zap.Error(err))
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("TV remote running. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-sigChan

	logger.Info("Shutting down gracefully...")
	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop API server", zap.Error(err))
	}
	displayState(tvRemote.State(), logger)
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func displayState(state remote.State, logger *zap.Logger) {
	logger.Info("Television state",
		zap.Bool("power_on", state.PowerOn),
		zap.Bool("muted", state.Muted),
		zap.Int("volume", state.Volume),
		zap.Int("channel", state.Channel),
		zap.Uint64("revision", state.Revision))
}
