// Command txreplay replays a CSV stream of transaction events (deposits,
// withdrawals, disputes, resolves and chargebacks) and prints the final state
// of every client account as CSV to stdout.
//
// Usage:
//
//	txreplay transactions.csv > accounts.csv
//	txreplay --journal ./wal/journal --log-level debug transactions.csv
//	txreplay --config config.yaml transactions.csv
//
// Flags must precede the input path. Logs are written to stderr; a failed run
// prints a single error line there and exits with status 1.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/txreplay/config"
	"github.com/vadiminshakov/txreplay/internal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.Get(os.Args[1:])
	if err != nil {
		return err
	}

	logConf := zap.NewProductionConfig()
	logConf.Level = zap.NewAtomicLevelAt(conf.LogLevel)
	logger, err := logConf.Build()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	if err := internal.NewReplayer(conf, logger).Run(ctx, out); err != nil {
		return err
	}

	return out.Flush()
}
