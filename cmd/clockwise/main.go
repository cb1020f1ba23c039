package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clockwise-hq/clockwise/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	syncSeconds := flag.Int("sync", 0, "remote sync interval in seconds (optional)")
	headless := flag.Bool("headless", false, "serve the local API without the TUI")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Headless: *headless}
	if sync := *syncSeconds; sync > 0 {
		opts.SyncEvery = sync
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "clockwise: %v\n", err)
		return 1
	}
	return 0
}
