// main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/config"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/address"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/api"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/cursor"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/era"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/storage"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/transformer"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("cannot load config", zap.Error(err))
	}

	// Resolve the network constant table once; every component gets the
	// resolved struct, never the raw configuration
	constants, err := era.ForNetwork(cfg.Network.Name)
	if err != nil {
		logger.Fatal("cannot resolve network", zap.Error(err))
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle termination signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", zap.String("signal", sig.String()))
		cancel()
	}()

	// Initialize storage
	store, err := storage.NewNeo4jStore(ctx, cfg.Neo4j, cfg.Cache)
	if err != nil {
		logger.Fatal("failed to connect to graph store", zap.Error(err))
	}
	defer store.Close(ctx)
	logger.Info("graph store connection established")

	// Initialize canonicalization services
	canon := address.NewCanonicalizer(address.NewCardanoCodec(constants.NetworkID))
	assembler := transformer.New(constants, canon)
	resolver := cursor.NewResolver(store, logger)

	// Initialize and start API server
	apiServer := api.NewServer(store, resolver, assembler, cfg.Network.Name, logger)
	go func() {
		if err := apiServer.Start(cfg.API.ListenAddress); err != nil {
			logger.Error("api server failed to start", zap.Error(err))
			cancel()
		}
	}()

	logger.Info("application started successfully", zap.String("network", cfg.Network.Name))

	// Wait for context to be cancelled (due to signal or other error)
	<-ctx.Done()

	logger.Info("application shutting down")
}
