// Package csvio reads transaction events from and writes account snapshots to delimited text.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/txreplay/internal/domain"
)

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

var ErrMissingColumn = errors.New("missing required column")

// ParseError malformed record of the input stream.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader lazily decodes transaction events, one record per Next call.
type Reader struct {
	csv    *csv.Reader
	typ    int
	client int
	tx     int
	// amount column index, -1 when the header has none
	amount int
}

// NewReader reads the header row and locates the event columns by name.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input, header row expected")
		}
		return nil, errors.Wrap(err, "read header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	// every record must match the header width
	cr.FieldsPerRecord = len(header)

	reader := &Reader{csv: cr, amount: -1}
	for name, idx := range map[string]*int{
		columnType:   &reader.typ,
		columnClient: &reader.client,
		columnTx:     &reader.tx,
	} {
		i, ok := columns[name]
		if !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%q", name)
		}
		*idx = i
	}
	if i, ok := columns[columnAmount]; ok {
		reader.amount = i
	}

	return reader, nil
}

// Next decodes the next event. It returns io.EOF when the input is exhausted
// and a *ParseError for malformed records.
func (r *Reader) Next() (domain.Event, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Event{}, io.EOF
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return domain.Event{}, &ParseError{Line: csvErr.StartLine, Err: csvErr.Err}
		}
		return domain.Event{}, errors.Wrap(err, "read record")
	}

	ev, err := r.decode(record)
	if err != nil {
		line, _ := r.csv.FieldPos(0)
		return domain.Event{}, &ParseError{Line: line, Err: err}
	}

	return ev, nil
}

func (r *Reader) decode(record []string) (domain.Event, error) {
	typ, err := domain.ParseEventType(record[r.typ])
	if err != nil {
		return domain.Event{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(record[r.client]), 10, 16)
	if err != nil {
		return domain.Event{}, errors.Wrap(err, "parse client")
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(record[r.tx]), 10, 32)
	if err != nil {
		return domain.Event{}, errors.Wrap(err, "parse tx")
	}

	ev := domain.Event{
		Type:   typ,
		Client: domain.ClientID(client),
		Tx:     domain.TxID(tx),
	}

	if r.amount >= 0 {
		if raw := strings.TrimSpace(record[r.amount]); raw != "" {
			amount, err := domain.ParseAmount(raw)
			if err != nil {
				return domain.Event{}, err
			}
			ev.Amount = &amount
		}
	}

	return ev, nil
}
