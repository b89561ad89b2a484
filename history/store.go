// Package history persists handled queries and their synthesized responses
// for later review. The store is advisory: failures to record never affect
// the query path.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	contractx "krishisetu/agent/contract"
)

// Record is one handled query with its outcome.
type Record struct {
	ID       uuid.UUID                     `json:"id"`
	At       time.Time                     `json:"at"`
	Query    contractx.Query               `json:"query"`
	Response contractx.SynthesizedResponse `json:"response"`
}

// Store persists and lists records in reverse chronological order.
type Store interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// NewRecord stamps a record with a fresh identity and the current time.
func NewRecord(q contractx.Query, resp contractx.SynthesizedResponse) Record {
	return Record{
		ID:       uuid.New(),
		At:       time.Now().UTC(),
		Query:    q,
		Response: resp,
	}
}
