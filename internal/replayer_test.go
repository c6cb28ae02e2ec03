package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/txreplay/config"
	"github.com/vadiminshakov/txreplay/internal/services/csvio"
	"github.com/vadiminshakov/txreplay/internal/storage/journal"
	"go.uber.org/zap"
)

// sortRows keeps the header first and sorts the remaining rows, account order is not significant.
func sortRows(t *testing.T, csv string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.NotEmpty(t, lines)
	rows := lines[1:]
	sort.Strings(rows)
	return append([]string{lines[0]}, rows...)
}

func runSample(t *testing.T, conf config.Config) string {
	t.Helper()
	var out bytes.Buffer
	err := NewReplayer(conf, zap.NewNop()).Run(context.Background(), &out)
	require.NoError(t, err)
	return out.String()
}

func TestReplayer_Samples(t *testing.T) {
	for _, sample := range []string{"simple", "disputes"} {
		t.Run(sample, func(t *testing.T) {
			dir := filepath.Join("testdata", sample)
			expected, err := os.ReadFile(filepath.Join(dir, "out.csv"))
			require.NoError(t, err)

			got := runSample(t, config.Config{InputPath: filepath.Join(dir, "in.csv")})
			assert.Equal(t, sortRows(t, string(expected)), sortRows(t, got))
		})
	}
}

func TestReplayer_MalformedInput(t *testing.T) {
	var out bytes.Buffer
	err := NewReplayer(config.Config{InputPath: filepath.Join("testdata", "malformed", "in.csv")}, nil).
		Run(context.Background(), &out)

	var parseErr *csvio.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Empty(t, out.String(), "no snapshot is written after a parse failure")
}

func TestReplayer_MissingInput(t *testing.T) {
	var out bytes.Buffer
	err := NewReplayer(config.Config{InputPath: filepath.Join(t.TempDir(), "absent.csv")}, nil).
		Run(context.Background(), &out)

	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, out.String())
}

func TestReplayer_Journal(t *testing.T) {
	journalDir := t.TempDir()

	runSample(t, config.Config{
		InputPath:  filepath.Join("testdata", "disputes", "in.csv"),
		JournalDir: journalDir,
	})

	store, err := journal.NewWALStore(journalDir, "inspect")
	require.NoError(t, err)
	defer store.Close()

	// 19 events, 14 of them change state
	assert.Equal(t, uint64(14), store.CurrentIndex())
}
