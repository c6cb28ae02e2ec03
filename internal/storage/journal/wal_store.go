// Package journal keeps a write-ahead audit trail of the events a replay applied.
package journal

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/txreplay/internal/domain"
)

const (
	segmentLimit = 1000
	// no segment is ever evicted, the audit trail keeps every record
	unboundedSegments = 0
	// records buffered before one batched, synced WAL write
	flushBatchSize = 256
	keyPrefix      = "applied_"
)

// Record journaled form of an applied event.
type Record struct {
	RunID  string           `json:"run_id"`
	Seq    uint64           `json:"seq"`
	Type   string           `json:"type"`
	Client domain.ClientID  `json:"client"`
	Tx     domain.TxID      `json:"tx"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// WALStore appends applied events of one run to a WAL.
// Events are buffered and written in batches; Flush or Close persists the rest.
type WALStore struct {
	wal       *gowal.Wal
	runID     string
	seq       uint64
	batchSize int
	pending   []gowal.Record
	mu        sync.Mutex
}

// NewWALStore opens (or creates) the journal under dir for the given run.
func NewWALStore(dir, runID string) (*WALStore, error) {
	return newWALStore(dir, runID, segmentLimit, flushBatchSize)
}

func newWALStore(dir, runID string, segmentThreshold, batchSize int) (*WALStore, error) {
	if dir == "" {
		return nil, errors.New("journal dir is required")
	}
	if runID == "" {
		return nil, errors.New("journal run id is required")
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "journal_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      unboundedSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init event journal WAL")
	}

	return &WALStore{
		wal:       wal,
		runID:     runID,
		batchSize: batchSize,
		pending:   make([]gowal.Record, 0, batchSize),
	}, nil
}

// Append buffers the event and writes the buffer once it is full.
func (s *WALStore) Append(ev domain.Event) error {
	if s == nil || s.wal == nil {
		return errors.New("event journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	rec := Record{
		RunID:  s.runID,
		Seq:    s.seq,
		Type:   ev.Type.String(),
		Client: ev.Client,
		Tx:     ev.Tx,
	}
	if ev.Amount != nil {
		amount := ev.Amount.Decimal()
		rec.Amount = &amount
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal journal record")
	}

	nextIndex := s.wal.CurrentIndex() + uint64(len(s.pending)) + 1
	s.pending = append(s.pending, gowal.Record{Index: nextIndex, Key: keyPrefix + s.runID, Value: payload})

	if len(s.pending) < s.batchSize {
		return nil
	}

	return s.flush()
}

// Flush writes buffered events to the WAL.
func (s *WALStore) Flush() error {
	if s == nil || s.wal == nil {
		return errors.New("event journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flush()
}

func (s *WALStore) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	batch, err := gowal.NewBatch(s.pending...)
	if err != nil {
		return errors.Wrap(err, "build journal batch")
	}
	if err := s.wal.WriteBatch(batch); err != nil {
		return errors.Wrap(err, "write journal batch")
	}

	s.pending = s.pending[:0]
	return nil
}

// Records returns the written events of a run in write order.
// Used by tests and for debugging; a replay never reads the journal back.
func (s *WALStore) Records(runID string) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("event journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyPrefix + runID
	var records []Record
	for msg := range s.wal.Iterator() {
		if msg.Key != key {
			continue
		}
		var rec Record
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			return nil, errors.Wrap(err, "decode journal record")
		}
		records = append(records, rec)
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index written, buffered events excluded.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.CurrentIndex()
}

// Close flushes buffered events and closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("event journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flushErr := s.flush()
	if err := s.wal.Close(); err != nil {
		return err
	}

	return flushErr
}
