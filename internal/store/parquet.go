package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"goksori/pkg/goksori"
)

var _ HistoryStore = (*ParquetStore)(nil)

// ParquetStore implements HistoryStore with one Parquet file per stock:
//
//	<DataDir>/history/<CODE>.parquet
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at dataDir.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// HistoryRecord is the Parquet schema of one score history point.
type HistoryRecord struct {
	Code  string  `parquet:"code"`
	Date  string  `parquet:"date"` // YYYY-MM-DD
	Score float64 `parquet:"score"`
}

// WriteHistory merges points into the archive of code. Points with a date
// already archived replace the stored score.
func (s *ParquetStore) WriteHistory(_ context.Context, code string, points []goksori.ScorePoint) error {
	if len(points) == 0 {
		return nil
	}
	return WriteHistoryFile(s.historyPath(code), code, points)
}

// ReadHistory returns the archived points of code. A stock with no archive
// returns an empty slice.
func (s *ParquetStore) ReadHistory(_ context.Context, code string) ([]goksori.ScorePoint, error) {
	rows, err := ReadHistoryFile(s.historyPath(code))
	if errors.Is(err, fs.ErrNotExist) {
		return []goksori.ScorePoint{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]goksori.ScorePoint, 0, len(rows))
	for _, r := range rows {
		if r.Code == code {
			out = append(out, goksori.ScorePoint{Date: r.Date, Score: r.Score})
		}
	}
	return out, nil
}

// ListCodes returns the archived stock codes sorted.
func (s *ParquetStore) ListCodes(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, "history"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, e := range entries {
		if name := e.Name(); !e.IsDir() && strings.HasSuffix(name, ".parquet") {
			codes = append(codes, strings.TrimSuffix(name, ".parquet"))
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *ParquetStore) historyPath(code string) string {
	return filepath.Join(s.DataDir, "history", code+".parquet")
}

// WriteHistoryFile writes points of code to path, merging with the records
// already in the file.
func WriteHistoryFile(path, code string, points []goksori.ScorePoint) error {
	incoming := make([]HistoryRecord, len(points))
	for i, p := range points {
		incoming[i] = HistoryRecord{Code: code, Date: p.Date, Score: p.Score}
	}

	existing, err := ReadHistoryFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	merged := mergeHistoryRecords(existing, incoming)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, merged); err != nil {
		return fmt.Errorf("writing history for %s: %w", code, err)
	}
	return nil
}

// ReadHistoryFile reads every record of a history file.
func ReadHistoryFile(path string) ([]HistoryRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return parquet.ReadFile[HistoryRecord](path)
}

// mergeHistoryRecords deduplicates by (code, date), preferring incoming
// records, and orders the result by code then date.
func mergeHistoryRecords(existing, incoming []HistoryRecord) []HistoryRecord {
	type key struct {
		code string
		date string
	}
	seen := make(map[key]HistoryRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Code, r.Date}] = r
	}
	for _, r := range incoming {
		seen[key{r.Code, r.Date}] = r
	}

	merged := make([]HistoryRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Code != merged[j].Code {
			return merged[i].Code < merged[j].Code
		}
		return merged[i].Date < merged[j].Date
	})
	return merged
}
