// Package main is the listkeeper command-line client.
// Usage: listkeeper [-output json] <command> [flags] [args]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"listkeeper/internal/config"
	"listkeeper/internal/infra/remote"
	"listkeeper/internal/observability/logging"
	"listkeeper/internal/observability/tracing"
)

const usage = `Usage: listkeeper [-output text|json] <command> [flags] [args]

Commands:
  login -user NAME [-password PASS]   start a session (password may come from LISTKEEPER_PASSWORD)
  logout                              end the session and forget cached data
  lists                               show every list with a preview of its articles
  show LIST_ID                        show one list and all of its articles
  new-list NAME                       create a list dated today
  rename-list LIST_ID NAME            rename a list
  rm-list -yes LIST_ID                delete a list (its articles are kept)
  add -list ID[,ID...] [-content TEXT] NAME
                                      create an article in one or more lists
  edit [-content TEXT] ARTICLE_ID NAME
                                      change an article's name and content
  rm ARTICLE_ID                       delete an article
`

func main() {
	var outputFormat string
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	bootstrap := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	cfg := config.Load(bootstrap)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	if cfg.LogJSON {
		logger = logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	}
	slog.SetDefault(logger)

	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Debug("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	client, err := remote.NewFromConfig(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, client, logger, os.Stdout)
	a.json = outputFormat == "json"
	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
