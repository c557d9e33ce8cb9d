package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sgvr/sgvr/internal/app"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  serve      run the HTTP server
  migrate    apply the database schema migration
  provision  run the one-shot document token and storage provisioning pass

Flags:
  -config    path to the YAML config file (default %q, or $SGVR_CONFIG)
`, os.Args[0], "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "path to the YAML config file")
	if errParse := flags.Parse(os.Args[2:]); errParse != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var errRun error
	switch command {
	case "serve":
		errRun = app.RunServer(ctx, *configPath)
	case "migrate":
		errRun = app.Migrate(ctx, *configPath)
	case "provision":
		errRun = app.Provision(ctx, *configPath)
	default:
		usage()
		os.Exit(2)
	}

	if errRun != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, errRun)
		os.Exit(1)
	}
}
