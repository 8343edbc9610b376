package testutil

import (
	"context"
	"time"
)

// TxRecorder runs the callback inline and counts calls. When Rollback is set it is
// invoked on error so fakes can undo writes made inside the callback.
type TxRecorder struct {
	Calls    int
	Rollback func()
}

func (t *TxRecorder) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	err := fn(ctx)
	if err != nil && t.Rollback != nil {
		t.Rollback()
	}
	return err
}

// FixedClock returns a clock stuck at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
