package history

import "context"

// NoopStore discards records. Used when no history backend is configured.
type NoopStore struct{}

func NewNoopStore() NoopStore { return NoopStore{} }

func (NoopStore) Record(ctx context.Context, rec Record) error { return nil }
func (NoopStore) Recent(ctx context.Context, limit int) ([]Record, error) { return nil, nil }
func (NoopStore) Close() error { return nil }
