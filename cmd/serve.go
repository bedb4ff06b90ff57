package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"xyzrss/api"
	"xyzrss/api/types"
	"xyzrss/internal/services/bridge"
	"xyzrss/internal/services/cache"
	"xyzrss/internal/services/scraper"
	"xyzrss/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the feed server",
	Long: `Start the xyzrss server with the configured settings.

The server listens for HTTP requests and answers /rss/xyz/<id> with a
synthesized RSS feed for the given podcast.

Example:
  xyzrss serve
  xyzrss serve --port 9090
  xyzrss serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	if config.GetString("environment") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the pipeline
	pageClient := scraper.NewClient(scraper.Config{
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: cfg.Upstream.UserAgent,
	})
	feedBuilder := bridge.NewService(pageClient, cfg.Upstream.BaseURL, cfg.Feed.SelfURL)

	memCache := cache.NewMemoryCache(cfg.Cache.MaxSizeMB)
	defer memCache.Stop()

	deps := &types.Dependencies{
		FeedBuilder: feedBuilder,
		Cache:       memCache,
		Config:      cfg,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(api.CORS())

	var (
		rateLimiters       sync.Map
		cleanupInitialized sync.Once
	)
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	if err := api.RegisterRoutes(engine, deps, &rateLimiters, cleanupStop, &cleanupInitialized); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverHost, serverPort),
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Printf("xyzrss serving feeds at %s:%d\n", serverHost, serverPort)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	// Attempt graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
