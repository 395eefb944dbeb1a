// flowerbridge exposes a UCP commerce REST service as MCP tools.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ucpkit/flowerbridge/internal/api"
	"github.com/ucpkit/flowerbridge/internal/domain/tool"
	"github.com/ucpkit/flowerbridge/internal/infra/config"
	"github.com/ucpkit/flowerbridge/internal/infra/ucp"
	mcpserver "github.com/ucpkit/flowerbridge/internal/mcp"
	"github.com/ucpkit/flowerbridge/internal/server"
	"github.com/ucpkit/flowerbridge/internal/version"
	"github.com/ucpkit/flowerbridge/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("flowerbridge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to a YAML config file")
	transport := fs.String("transport", "http", "MCP transport: http (SSE + streamable) or stdio")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	cfg := config.Load()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	client := ucp.NewClient(cfg.UCPBaseURL, time.Duration(cfg.UpstreamTimeoutSeconds)*time.Second)
	registry, err := tool.NewBuiltinRegistry(client)
	if err != nil {
		fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *transport {
	case "stdio":
		// Metrics have no scrape endpoint over stdio.
		dispatcher := tool.NewDispatcher(registry, nil)
		mcpSrv, err := mcpserver.BuildServer(dispatcher)
		if err != nil {
			fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
			return 1
		}
		if err := mcpserver.RunStdio(ctx, mcpSrv); err != nil {
			fmt.Fprintf(out, "flowerbridge: stdio transport: %v\n", err) //nolint:errcheck
			return 1
		}
		return 0

	case "http":
		promReg := prometheus.NewRegistry()
		dispatcher := tool.NewDispatcher(registry, metrics.NewToolMetrics(promReg))
		router, err := api.NewRouter(dispatcher, promReg)
		if err != nil {
			fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
			return 1
		}

		srvCfg := server.DefaultConfig()
		srvCfg.Host = cfg.BridgeHost
		srvCfg.Port = cfg.BridgePort
		srv := server.New(router, srvCfg)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()
		fmt.Fprintf(out, "flowerbridge listening on %s (upstream %s)\n", srv.Addr(), cfg.UCPBaseURL) //nolint:errcheck

		select {
		case err := <-errCh:
			if err != nil {
				fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
				return 1
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(out, "flowerbridge: %v\n", err) //nolint:errcheck
				return 1
			}
		}
		return 0

	default:
		fmt.Fprintf(out, "flowerbridge: unknown transport %q (want http or stdio)\n", *transport) //nolint:errcheck
		return 2
	}
}

func printHelp(out io.Writer) {
	helpText := `flowerbridge - MCP bridge for a UCP commerce service

Usage:
  flowerbridge [options]

Options:
  --version            Show version information
  --help               Show this help message
  --config <path>      Load a YAML config file (env vars still override)
  --transport <name>   MCP transport: http (default) or stdio

Environment:
  BRIDGE_HOST                Listen host (default 0.0.0.0)
  BRIDGE_PORT                Listen port (default 8000)
  UCP_BASE_URL               Upstream base URL (default http://localhost:8080)
  UPSTREAM_TIMEOUT_SECONDS   Upstream request timeout (default 30)

Examples:
  flowerbridge --version
  flowerbridge --transport stdio
  UCP_BASE_URL=http://localhost:9000 flowerbridge`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
