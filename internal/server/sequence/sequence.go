// Package sequence guards the invoice number sequence. The sequence itself
// lives in the ledger rows (the highest seq column); this package provides
// the mutual exclusion that makes read-max-then-insert safe under concurrent
// batches, and the canonical rendering of sequence numbers.
package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/primesolution/invoicer/internal/common"
)

// NumberWidth is the minimum rendered width. Sequences past 999 grow
// naturally; padding never truncates.
const NumberWidth = 3

// DefaultLockWait bounds how long an allocation waits for the sequence.
const DefaultLockWait = 30 * time.Second

// Format renders a sequence number as its canonical invoice number.
func Format(seq int64) string {
	return fmt.Sprintf("%0*d", NumberWidth, seq)
}

// Lock is a bounded-wait mutex over the sequence. Holders are expected to
// release promptly; waiters give up after their deadline with a busy error
// rather than queueing forever.
type Lock struct {
	ch chan struct{}
}

func NewLock() *Lock {
	l := &Lock{ch: make(chan struct{}, 1)}
	l.ch <- struct{}{}
	return l
}

// Acquire waits up to wait for the lock. It returns a release func that is
// safe to call more than once, so callers can defer it and still release
// early. Timeout yields common.ErrorServerBusy; context cancellation wins
// over both.
func (l *Lock) Acquire(ctx context.Context, wait time.Duration) (func(), error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-l.ch:
		var once sync.Once
		release := func() {
			once.Do(func() { l.ch <- struct{}{} })
		}
		return release, nil
	case <-timer.C:
		return nil, common.ErrorServerBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
