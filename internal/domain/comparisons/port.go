package comparisons

import "context"

// Repository port: snapshots are insert-only, never updated or deleted.
type Repository interface {
	Insert(ctx context.Context, s *Snapshot) error
	Latest(ctx context.Context) (*Snapshot, error)
}
