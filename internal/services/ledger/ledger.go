// Package ledger folds a stream of transaction events into account balances.
package ledger

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/txreplay/internal/domain"
	"go.uber.org/zap"
)

// EventSource yields events in stream order and io.EOF once exhausted.
type EventSource interface {
	Next() (domain.Event, error)
}

// Journal records events that changed account state.
type Journal interface {
	Append(ev domain.Event) error
}

// Stats counters of a single fold.
type Stats struct {
	Events  int
	Applied int
}

type folder struct {
	journal Journal
	logger  *zap.Logger
}

// Option configures Fold.
type Option func(*folder)

// WithJournal records every applied event to j.
func WithJournal(j Journal) Option {
	return func(f *folder) {
		f.journal = j
	}
}

// WithLogger sets the logger used for fold progress.
func WithLogger(l *zap.Logger) Option {
	return func(f *folder) {
		f.logger = l
	}
}

// Fold applies every event of src to accounts in order and returns the same mapping.
// A nil mapping is allocated. Invalid events are skipped silently; source and
// journal failures abort the fold.
func Fold(ctx context.Context, accounts domain.Accounts, src EventSource, opts ...Option) (domain.Accounts, Stats, error) {
	f := &folder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}

	if accounts == nil {
		accounts = make(domain.Accounts)
	}

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return accounts, stats, err
		}

		ev, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return accounts, stats, errors.Wrap(err, "read event")
		}
		stats.Events++

		if !Apply(accounts, ev) {
			continue
		}
		stats.Applied++

		if f.journal != nil {
			if err := f.journal.Append(ev); err != nil {
				return accounts, stats, errors.Wrapf(err, "journal event %d", stats.Events)
			}
		}
	}

	f.logger.Debug("fold finished",
		zap.Int("events", stats.Events),
		zap.Int("applied", stats.Applied),
		zap.Int("accounts", len(accounts)))

	return accounts, stats, nil
}

// Apply applies a single event and reports whether any state changed.
// The client's account is created even when the event turns out to be a no-op.
func Apply(accounts domain.Accounts, ev domain.Event) bool {
	acc := accounts.Account(ev.Client)

	switch ev.Type {
	case domain.EventDeposit:
		if ev.Amount == nil {
			return false
		}
		amount := *ev.Amount
		acc.Available += amount
		// a repeated tx id replaces the earlier record
		acc.Deposits[ev.Tx] = &domain.Deposit{Amount: amount, State: domain.DisputeNotInitiated}
		return true

	case domain.EventWithdrawal:
		if ev.Amount == nil || acc.Locked || acc.Available < *ev.Amount {
			return false
		}
		acc.Available -= *ev.Amount
		return true

	case domain.EventDispute:
		d, ok := acc.Deposits[ev.Tx]
		if !ok || d.State != domain.DisputeNotInitiated {
			return false
		}
		d.State = domain.DisputeInitiated
		acc.Available -= d.Amount
		acc.Held += d.Amount
		return true

	case domain.EventResolve:
		d, ok := acc.Deposits[ev.Tx]
		if !ok || d.State != domain.DisputeInitiated {
			return false
		}
		// back to not initiated, the deposit may be disputed again
		d.State = domain.DisputeNotInitiated
		acc.Available += d.Amount
		acc.Held -= d.Amount
		return true

	case domain.EventChargeback:
		d, ok := acc.Deposits[ev.Tx]
		if !ok || d.State != domain.DisputeInitiated {
			return false
		}
		d.State = domain.DisputeChargedBack
		acc.Held -= d.Amount
		acc.Locked = true
		return true
	}

	return false
}
