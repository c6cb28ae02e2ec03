package internal

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/txreplay/config"
	"github.com/vadiminshakov/txreplay/internal/domain"
	"github.com/vadiminshakov/txreplay/internal/services/csvio"
	"github.com/vadiminshakov/txreplay/internal/services/ledger"
	"github.com/vadiminshakov/txreplay/internal/storage/journal"
	"go.uber.org/zap"
)

const inputBufferSize = 64 * 1024

// Replayer replays one transaction stream and writes the resulting account snapshot.
type Replayer struct {
	Config config.Config
	logger *zap.Logger
}

// NewReplayer creates a replayer instance
func NewReplayer(conf config.Config, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Replayer{Config: conf, logger: logger}
}

// Run reads the configured input, folds it and writes the snapshot to w.
// Nothing is written to w if the input cannot be fully processed.
func (r *Replayer) Run(ctx context.Context, w io.Writer) error {
	runID := uuid.New().String()
	logger := r.logger.With(zap.String("run_id", runID), zap.String("input", r.Config.InputPath))

	f, err := os.Open(r.Config.InputPath)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	src, err := csvio.NewReader(bufio.NewReaderSize(f, inputBufferSize))
	if err != nil {
		return errors.Wrap(err, "read input header")
	}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	var store *journal.WALStore
	if r.Config.JournalDir != "" {
		store, err = journal.NewWALStore(r.Config.JournalDir, runID)
		if err != nil {
			return errors.Wrap(err, "failed to open event journal")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close event journal", zap.Error(err))
			}
		}()
		opts = append(opts, ledger.WithJournal(store))
	}

	logger.Info("starting replay")

	accounts, stats, err := ledger.Fold(ctx, make(domain.Accounts), src, opts...)
	if err != nil {
		return errors.Wrap(err, "replay transactions")
	}

	if store != nil {
		if err := store.Flush(); err != nil {
			return errors.Wrap(err, "flush event journal")
		}
	}

	if err := csvio.WriteSnapshot(w, accounts.Snapshot()); err != nil {
		return err
	}

	logger.Info("replay finished",
		zap.Int("events", stats.Events),
		zap.Int("applied", stats.Applied),
		zap.Int("accounts", len(accounts)))

	return nil
}
