// flowershop runs the mock UCP flower-shop REST service the bridge
// talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ucpkit/flowerbridge/internal/flowershop"
	"github.com/ucpkit/flowerbridge/internal/infra/config"
	"github.com/ucpkit/flowerbridge/internal/infra/eventbus"
	"github.com/ucpkit/flowerbridge/internal/infra/sqlite"
	"github.com/ucpkit/flowerbridge/internal/server"
	"github.com/ucpkit/flowerbridge/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("flowershop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config", "", "Path to a YAML config file")

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
			fmt.Fprintf(out, "flowershop: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	db, err := sqlite.NewDB(cfg.FlowershopDBPath)
	if err != nil {
		fmt.Fprintf(out, "flowershop: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "flowershop: migrate: %v\n", err) //nolint:errcheck
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	go logOrderEvents(ctx, bus)

	srvCfg := server.DefaultConfig()
	srvCfg.Port = cfg.FlowershopPort
	srvCfg.WriteTimeout = 15 * time.Second
	srv := server.New(flowershop.NewRouter(db, bus), srvCfg)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	fmt.Fprintf(out, "flowershop listening on %s (db %s)\n", srv.Addr(), cfg.FlowershopDBPath) //nolint:errcheck

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(out, "flowershop: %v\n", err) //nolint:errcheck
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(out, "flowershop: %v\n", err) //nolint:errcheck
			return 1
		}
	}
	return 0
}

// logOrderEvents consumes order.created events until ctx is done.
func logOrderEvents(ctx context.Context, bus eventbus.EventBus) {
	events := bus.Subscribe(flowershop.TopicOrderCreated)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			log.Printf("order created: %v", evt.Payload)
		}
	}
}

func printHelp(out io.Writer) {
	helpText := `flowershop - mock UCP flower-shop commerce service

Usage:
  flowershop [options]

Options:
  --version         Show version information
  --help            Show this help message
  --config <path>   Load a YAML config file (env vars still override)

Environment:
  FLOWERSHOP_PORT      Listen port (default 8080)
  FLOWERSHOP_DB_PATH   SQLite database path (default :memory:)

Examples:
  flowershop --version
  FLOWERSHOP_DB_PATH=./shop.db flowershop`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
