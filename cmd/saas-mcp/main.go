package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/app"
	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/config"
	"github.com/bobmcallan/saas-mcp/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	transport   = flag.String("transport", "", "Transport: stdio or http (overrides config)")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	serverHost  = flag.String("host", "", "HTTP host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("saas-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "saas-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI flags have the highest priority
	config.ApplyFlagOverrides(cfg, *transport, *serverPort, *serverHost)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("version", common.GetVersion()).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Transport == "stdio" {
		logger.Info().Msg("serving MCP over stdio")
		err := application.MCPRouter.ServeStdio(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info().Msg("stdio session closed")
		return nil
	}

	return serveHTTP(ctx, application, logger)
}

func serveHTTP(ctx context.Context, application *app.App, logger *common.Logger) error {
	srv := server.New(application)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"saas-mcp.toml",
		"config/saas-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "saas-mcp.toml"),
		filepath.Join(binDir, "config", "saas-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
