// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tipnotify

import (
	"context"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Tip describes the best chain tip as of a specific point in time.
type Tip struct {
	// Hash is the block hash of the tip.
	Hash chainhash.Hash

	// Height is the block height of the tip.
	Height int64
}

// Notifier tracks the best chain tip and provides the ability to block until
// it changes.  It is intended to have a single instance that is shared by the
// validation engine, which publishes tip changes, and any number of
// concurrent waiters such as RPC request handlers.
//
// Publications follow last writer wins semantics, so waiters that wake due to
// a change are guaranteed to observe a tip at least as recent as the one that
// woke them, but intermediate tips may be skipped entirely when several
// publications happen in quick succession.
type Notifier struct {
	mtx     sync.Mutex
	tip     Tip
	changed chan struct{}
	quit    chan struct{}
	stopped sync.Once
}

// New returns a new tip change notifier initialized with the provided tip.
func New(hash chainhash.Hash, height int64) *Notifier {
	return &Notifier{
		tip:     Tip{Hash: hash, Height: height},
		changed: make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Publish records the provided block hash and height as the new best chain
// tip and wakes all blocked waiters.  The tip is overwritten unconditionally,
// so out of order publications resolve to whichever happened last.
//
// This function is safe for concurrent access.
func (n *Notifier) Publish(hash chainhash.Hash, height int64) {
	n.mtx.Lock()
	n.tip = Tip{Hash: hash, Height: height}

	// Wake all existing waiters by closing the broadcast channel and replace
	// it so future waits block on a fresh one.
	close(n.changed)
	n.changed = make(chan struct{})
	n.mtx.Unlock()
}

// Tip returns the most recently published tip.
//
// This function is safe for concurrent access.
func (n *Notifier) Tip() Tip {
	n.mtx.Lock()
	tip := n.tip
	n.mtx.Unlock()
	return tip
}

// Shutdown releases all current and future waiters.  Waits that are released
// due to shutdown return the last known tip immediately.  It is one shot;
// calling it more than once has no additional effect and a notifier can not
// be restarted.
//
// This function is safe for concurrent access.
func (n *Notifier) Shutdown() {
	n.stopped.Do(func() {
		close(n.quit)
	})
}

// wait blocks until the provided predicate reports true for the current tip,
// the context is done, the notifier is shut down, or the timeout elapses.  A
// timeout of zero means no timeout.  The predicate is evaluated under the
// mutex, initially and again on every wake, so waiters never miss a change
// and spurious wakeups are harmless.
//
// The returned tip is the current tip at the time the wait woke regardless of
// the reason for waking, so cancellation and timeout are indistinguishable
// from an ordinary return aside from the predicate possibly not holding.
func (n *Notifier) wait(ctx context.Context, timeout time.Duration, pred func(Tip) bool) Tip {
	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	for {
		n.mtx.Lock()
		tip := n.tip
		changed := n.changed
		n.mtx.Unlock()

		if pred(tip) {
			return tip
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return n.Tip()
		case <-n.quit:
			return n.Tip()
		case <-timeoutC:
			return n.Tip()
		}
	}
}

// WaitForChange blocks until the tip differs from the provided baseline hash,
// the context is done, the notifier is shut down, or the timeout elapses.  A
// timeout of zero means no timeout.  The current tip at wake time is returned
// in all cases, so callers that need to distinguish an actual change compare
// the returned hash against the baseline.
//
// This function is safe for concurrent access.
func (n *Notifier) WaitForChange(ctx context.Context, baseline chainhash.Hash, timeout time.Duration) Tip {
	return n.wait(ctx, timeout, func(tip Tip) bool {
		return tip.Hash != baseline
	})
}

// WaitForHash blocks until the tip hash equals the provided target hash, the
// context is done, the notifier is shut down, or the timeout elapses.  A
// timeout of zero means no timeout.  The current tip at wake time is returned
// in all cases.
//
// Note that a tip that only transiently matches the target between wakeups is
// not guaranteed to be observed since publications follow last writer wins
// semantics.
//
// This function is safe for concurrent access.
func (n *Notifier) WaitForHash(ctx context.Context, target chainhash.Hash, timeout time.Duration) Tip {
	return n.wait(ctx, timeout, func(tip Tip) bool {
		return tip.Hash == target
	})
}

// WaitForHeight blocks until the tip height is at least the provided height,
// the context is done, the notifier is shut down, or the timeout elapses.  A
// timeout of zero means no timeout.  The current tip at wake time is returned
// in all cases.
//
// This function is safe for concurrent access.
func (n *Notifier) WaitForHeight(ctx context.Context, height int64, timeout time.Duration) Tip {
	return n.wait(ctx, timeout, func(tip Tip) bool {
		return tip.Height >= height
	})
}
