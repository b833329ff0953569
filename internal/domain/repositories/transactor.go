package repositories

import (
	"context"
)

// Transactor runs a group of repository calls as one unit. Stores without
// transactions run fn directly; callers still order their steps so a failure
// leaves no dependent record pointing at a missing parent.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
