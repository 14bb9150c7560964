// Command pushctl drives the push client from a terminal: it enables push for
// this machine, previews messages as desktop notifications and asks the
// backend to broadcast.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fulfillmentpro-push/pkg/config"
	"fulfillmentpro-push/pkg/logger"
)

const usage = `usage: pushctl <command> [flags]

commands:
  subscribe   ask for permission and register a delivery token with the backend
  show        render a message read from stdin as a desktop notification
  send        ask the backend to broadcast a notification to every device
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logr, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch os.Args[1] {
	case "subscribe":
		runErr = runSubscribe(ctx, cfg, logr, os.Args[2:])
	case "show":
		runErr = runShow(ctx, cfg, logr, os.Stdin, os.Args[2:])
	case "send":
		runErr = runSend(ctx, cfg, os.Stdout, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "pushctl %s: %v\n", os.Args[1], runErr)
		os.Exit(1)
	}
}
