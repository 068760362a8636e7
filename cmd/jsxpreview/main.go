package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jpembed "github.com/air-gapped/jsxpreview/embed"
	"github.com/air-gapped/jsxpreview/internal/config"
	"github.com/air-gapped/jsxpreview/internal/logging"
	"github.com/air-gapped/jsxpreview/internal/preview"
	"github.com/air-gapped/jsxpreview/internal/server"
	"github.com/air-gapped/jsxpreview/internal/vfs"
)

// Set by linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitNoComponent is the --render exit status for a project with nothing
// to render.
const exitNoComponent = 3

var errNoComponent = errors.New("no component to render")

func main() {
	// Check for --version before full flag parsing
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Printf("jsxpreview %s (%s) built %s\n", version, commit, date)
			os.Exit(0)
		}
	}

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsxpreview: %v\n", err)
		os.Exit(1)
	}

	var order preview.Order
	if cfg.OrderFile != "" {
		order, err = preview.LoadOrder(cfg.OrderFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jsxpreview: %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.RenderDir != "" {
		err := renderDir(os.Stdout, cfg, order)
		switch {
		case errors.Is(err, errNoComponent):
			fmt.Fprintf(os.Stderr, "jsxpreview: %s: %v\n", cfg.RenderDir, err)
			os.Exit(exitNoComponent)
		case err != nil:
			fmt.Fprintf(os.Stderr, "jsxpreview: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logging.Setup(cfg.Debug)

	slog.Info("config loaded",
		"listen", cfg.Listen,
		"cache_ttl", cfg.CacheTTL.String(),
		"cache_max_size", cfg.CacheMaxSize,
		"max_request_size", cfg.MaxRequestSize,
		"order_file", cfg.OrderFile,
		"recursive", cfg.Recursive,
		"sanitize", cfg.Sanitize,
		"asset_base_url", cfg.AssetBaseURL,
		"allowed_origins", cfg.AllowedOrigins,
	)

	srv := server.New(cfg, version, jpembed.Assets, order)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in background
	go func() {
		slog.Info("server started", "listen", cfg.Listen, "version", version)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown does not wait for hijacked websocket connections; their
	// sessions end when the process exits.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("shutdown complete")
}

// renderDir builds the project under cfg.RenderDir and writes the document
// to w.
func renderDir(w io.Writer, cfg *config.Config, order preview.Order) error {
	files, err := vfs.LoadDir(os.DirFS(cfg.RenderDir))
	if err != nil {
		return err
	}

	res := preview.Build(files, preview.Options{
		Order:        order,
		Recursive:    cfg.Recursive,
		Sanitize:     cfg.Sanitize,
		AssetBaseURL: cfg.AssetBaseURL,
	})
	if res == nil {
		return errNoComponent
	}

	_, err = io.WriteString(w, res.HTML)
	return err
}
