// Package store archives sentiment score history to local files.
package store

import (
	"context"

	"goksori/pkg/goksori"
)

// HistoryStore persists and retrieves per-stock score history.
type HistoryStore interface {
	// WriteHistory merges points into the archive of code.
	WriteHistory(ctx context.Context, code string, points []goksori.ScorePoint) error

	// ReadHistory returns the archived points of code ordered by date.
	ReadHistory(ctx context.Context, code string) ([]goksori.ScorePoint, error)

	// ListCodes returns the stock codes with an archive.
	ListCodes(ctx context.Context) ([]string, error)
}
