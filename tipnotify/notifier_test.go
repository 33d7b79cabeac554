// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package tipnotify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// testHash returns a hash whose first byte is the provided value, which is
// enough to produce distinct hashes for the tests.
func testHash(b byte) chainhash.Hash {
	var hash chainhash.Hash
	hash[0] = b
	return hash
}

// TestPublishAndTip ensures publishing tips overwrites the tracked tip with
// last writer wins semantics.
func TestPublishAndTip(t *testing.T) {
	notifier := New(testHash(1), 1)
	if tip := notifier.Tip(); tip.Height != 1 || tip.Hash != testHash(1) {
		t.Fatalf("unexpected initial tip: %+v", tip)
	}

	notifier.Publish(testHash(2), 2)
	notifier.Publish(testHash(3), 3)
	if tip := notifier.Tip(); tip.Height != 3 || tip.Hash != testHash(3) {
		t.Fatalf("unexpected tip after publishes: %+v", tip)
	}
}

// TestWaitForChange ensures a blocked waiter wakes when a new tip is
// published and observes a tip at least as recent as the publication that
// woke it.
func TestWaitForChange(t *testing.T) {
	notifier := New(testHash(1), 1)

	done := make(chan Tip, 1)
	go func() {
		done <- notifier.WaitForChange(context.Background(), testHash(1), 0)
	}()

	// Give the waiter a moment to block, then publish a new tip.
	time.Sleep(10 * time.Millisecond)
	notifier.Publish(testHash(2), 2)

	select {
	case tip := <-done:
		if tip.Hash == testHash(1) {
			t.Fatal("waiter returned the baseline tip after a change")
		}
		if tip.Height < 2 {
			t.Fatalf("waiter observed stale tip height %d", tip.Height)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter did not wake after publish")
	}
}

// TestWaitForChangeAlreadySatisfied ensures a wait whose baseline already
// differs from the current tip returns immediately.
func TestWaitForChangeAlreadySatisfied(t *testing.T) {
	notifier := New(testHash(2), 2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tip := notifier.WaitForChange(ctx, testHash(1), 0)
	if tip.Hash != testHash(2) || tip.Height != 2 {
		t.Fatalf("unexpected tip: %+v", tip)
	}
	if ctx.Err() != nil {
		t.Fatal("wait did not return immediately for satisfied baseline")
	}
}

// TestWaitTimeout ensures a wait with a timeout returns the unchanged tip no
// earlier than the timeout when no publication happens.
func TestWaitTimeout(t *testing.T) {
	notifier := New(testHash(1), 1)

	const timeout = 50 * time.Millisecond
	start := time.Now()
	tip := notifier.WaitForChange(context.Background(), testHash(1), timeout)
	elapsed := time.Since(start)

	if elapsed < timeout {
		t.Fatalf("wait returned after %v, before the %v timeout", elapsed,
			timeout)
	}
	if tip.Hash != testHash(1) || tip.Height != 1 {
		t.Fatalf("unexpected tip after timeout: %+v", tip)
	}
}

// TestWaitContextCancel ensures a wait returns promptly with the current tip
// when its context is canceled.
func TestWaitContextCancel(t *testing.T) {
	notifier := New(testHash(1), 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Tip, 1)
	go func() {
		done <- notifier.WaitForChange(ctx, testHash(1), 0)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case tip := <-done:
		if tip.Hash != testHash(1) {
			t.Fatalf("unexpected tip after cancel: %+v", tip)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return after context cancellation")
	}
}

// TestWaitForHash ensures waiting for a specific hash wakes when that hash is
// published as the tip and returns immediately when the tip already matches.
func TestWaitForHash(t *testing.T) {
	notifier := New(testHash(1), 1)

	// Already satisfied.
	tip := notifier.WaitForHash(context.Background(), testHash(1), 0)
	if tip.Hash != testHash(1) {
		t.Fatalf("unexpected tip: %+v", tip)
	}

	done := make(chan Tip, 1)
	go func() {
		done <- notifier.WaitForHash(context.Background(), testHash(3), 0)
	}()
	time.Sleep(10 * time.Millisecond)
	notifier.Publish(testHash(2), 2)
	notifier.Publish(testHash(3), 3)

	select {
	case tip := <-done:
		if tip.Hash != testHash(3) || tip.Height != 3 {
			t.Fatalf("unexpected tip: %+v", tip)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not wake for target hash")
	}
}

// TestWaitForHeight ensures waiting for a height treats the target as a
// minimum, so publishing a tip beyond the target also wakes the waiter.
func TestWaitForHeight(t *testing.T) {
	notifier := New(testHash(1), 1)

	done := make(chan Tip, 1)
	go func() {
		done <- notifier.WaitForHeight(context.Background(), 3, 0)
	}()
	time.Sleep(10 * time.Millisecond)

	// Jump straight past the target height.
	notifier.Publish(testHash(5), 5)

	select {
	case tip := <-done:
		if tip.Height < 3 {
			t.Fatalf("waiter woke below target height: %+v", tip)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not wake for target height")
	}
}

// TestShutdown ensures shutdown releases blocked waiters with the last known
// tip, causes subsequent waits to return immediately, and is idempotent.
func TestShutdown(t *testing.T) {
	notifier := New(testHash(1), 1)

	const numWaiters = 8
	var wg sync.WaitGroup
	results := make(chan Tip, numWaiters)
	for i := 0; i < numWaiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- notifier.WaitForChange(context.Background(),
				testHash(1), 0)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	notifier.Shutdown()
	notifier.Shutdown() // Must not panic.

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("waiters not released by shutdown")
	}
	for i := 0; i < numWaiters; i++ {
		tip := <-results
		if tip.Hash != testHash(1) || tip.Height != 1 {
			t.Fatalf("unexpected tip after shutdown: %+v", tip)
		}
	}

	// A wait issued after shutdown returns immediately.
	start := time.Now()
	tip := notifier.WaitForHeight(context.Background(), 100, 0)
	if time.Since(start) > time.Second {
		t.Fatal("wait after shutdown did not return promptly")
	}
	if tip.Height != 1 {
		t.Fatalf("unexpected tip after shutdown: %+v", tip)
	}
}

// TestConcurrentWaiters ensures multiple concurrent waiters with different
// predicates are all eventually released by a stream of publications.
func TestConcurrentWaiters(t *testing.T) {
	notifier := New(testHash(0), 0)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(height int64) {
			defer wg.Done()
			tip := notifier.WaitForHeight(context.Background(), height, 0)
			if tip.Height < height {
				t.Errorf("waiter for height %d woke at height %d", height,
					tip.Height)
			}
		}(int64(i))
	}

	for i := 1; i <= 10; i++ {
		notifier.Publish(testHash(byte(i)), int64(i))
		time.Sleep(time.Millisecond)
	}

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("not all waiters were released")
	}
}
