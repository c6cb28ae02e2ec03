package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/txreplay/internal/domain"
)

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// WriteSnapshot writes one row per account, monetary fields with four decimal digits.
func WriteSnapshot(w io.Writer, rows []domain.AccountSnapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(snapshotHeader); err != nil {
		return errors.Wrap(err, "write snapshot header")
	}

	record := make([]string, len(snapshotHeader))
	for _, row := range rows {
		record[0] = strconv.FormatUint(uint64(row.Client), 10)
		record[1] = row.Available.String()
		record[2] = row.Held.String()
		record[3] = row.Total.String()
		record[4] = strconv.FormatBool(row.Locked)

		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write snapshot of client %d", row.Client)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush snapshot")
}
