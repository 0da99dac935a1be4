package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"informatica-search/internal/api"
	"informatica-search/internal/config"
	"informatica-search/internal/extractor"
	"informatica-search/internal/logging"
	"informatica-search/internal/mcp"
	"informatica-search/internal/search"
	"informatica-search/internal/services"
	"informatica-search/internal/storage"
)

func main() {
	var configFile string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Index Informatica workflow exports into Azure AI Search and serve queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default: ./config.yaml if present)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logging.NewLogger().Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	// Initialize logging
	logger := logging.New(os.Stdout, cfg.Log.Level)
	logger.Info("Configuration loaded",
		"search_endpoint", cfg.Search.Endpoint,
		"index_name", cfg.Search.IndexNameOrDefault(),
		"container", cfg.Storage.ContainerName,
		"search_configured", cfg.Search.Validate() == nil,
		"storage_configured", cfg.Storage.Validate() == nil,
	)

	// Clients are built once; missing settings surface per request.
	searchClient := search.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey, search.WithAPIVersion(cfg.Search.APIVersion))
	blobs := initBlobStore(cfg, logger)

	indexing := services.NewIndexingService(
		blobs,
		searchClient.Index(cfg.Search.IndexNameOrDefault()),
		extractor.New(logger),
		cfg.Search.BatchSize,
		logger,
	)
	queries := services.NewQueryService(searchClient.Index(cfg.Search.IndexName))
	admin := services.NewAdminService(searchClient, cfg.Search.IndexNameOrDefault())

	logger.Info("Service layer initialized")

	handler := api.NewHandler(*cfg, indexing, queries, admin, logger)
	e := api.NewRouter(handler, cfg.Server.RoutePrefix, logger)

	// Mount MCP protocol handlers
	mcpBase := cfg.Server.RoutePrefix + "/mcp"
	mcpServer := mcp.NewServer(queries, cfg.Search.ValidateIndex)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer(), mcpBase)
	e.Any(mcpBase, echo.WrapHandler(mcpHandlers))
	e.Any(mcpBase+"/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted", "path", mcpBase)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Server.Addr, "prefix", cfg.Server.RoutePrefix)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
	return nil
}

func initBlobStore(cfg *config.Config, logger *logging.Logger) storage.BlobStore {
	if err := cfg.Storage.Validate(); err != nil {
		return storage.Unavailable(cfg.Storage.ContainerName, err)
	}
	store, err := storage.NewAzureBlobStore(cfg.Storage.ConnectionString, cfg.Storage.ContainerName)
	if err != nil {
		logger.Error("Failed to initialize blob storage", "error", err)
		return storage.Unavailable(cfg.Storage.ContainerName, err)
	}
	return store
}
