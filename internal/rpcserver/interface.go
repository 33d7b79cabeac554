// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/tessernet/tesserad/chainidx"
	"github.com/tessernet/tesserad/tipnotify"
	"github.com/tessernet/tesserad/utxoaudit"
)

// Chain represents the chain state and topology queries used by the RPC
// server.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type Chain interface {
	// BestTip returns the hash and height of the current best chain tip.
	BestTip() (chainhash.Hash, int64)

	// BlockHashByHeight returns the hash of the block at the given height in
	// the main chain.  An error must be returned when the height is outside
	// the range of the main chain.
	BlockHashByHeight(height int64) (*chainhash.Hash, error)

	// HeightByHash returns the height of the block with the given hash.  An
	// error must be returned when the block is not known.
	HeightByHash(hash *chainhash.Hash) (int64, error)

	// ChainTips returns information about all of the currently known chain
	// tips.
	ChainTips() []chainidx.ChainTipInfo
}

// TipWatcher represents a source of best chain tip change notifications for
// use with the RPC server long-polling commands and websocket notifications.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type TipWatcher interface {
	// Tip returns the most recently published best chain tip.
	Tip() tipnotify.Tip

	// WaitForChange blocks until the best chain tip differs from the given
	// baseline hash, the context is cancelled, the watcher is shut down, or
	// the timeout elapses when it is positive.  It returns the best tip as of
	// the time the wait concluded.
	WaitForChange(ctx context.Context, baseline chainhash.Hash, timeout time.Duration) tipnotify.Tip

	// WaitForHash behaves like WaitForChange except it blocks until the best
	// chain tip hash matches the target.
	WaitForHash(ctx context.Context, target chainhash.Hash, timeout time.Duration) tipnotify.Tip

	// WaitForHeight behaves like WaitForChange except it blocks until the
	// best chain tip height is at least the given height.
	WaitForHeight(ctx context.Context, height int64, timeout time.Duration) tipnotify.Tip
}

// AuditSource extends the unspent output audit input contract with the
// ability to release the underlying snapshot when the audit is done.
type AuditSource interface {
	utxoaudit.Source

	// Release releases the resources associated with the source.  It must be
	// called exactly once when the source is no longer needed.
	Release()
}

// CoinAuditor represents a store of unspent transaction outputs that can
// produce snapshot-consistent audit sources.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type CoinAuditor interface {
	// AuditSource returns a snapshot-consistent audit source over the
	// current contents of the unspent output store.
	AuditSource() (AuditSource, error)
}

// NtfnManager represents a manager for deciding which websocket clients
// receive notifications based on their subscriptions.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type NtfnManager interface {
	// NotifyTipChanged notifies websocket clients that have registered for
	// tip change updates that the best chain tip has changed.
	NotifyTipChanged(tip tipnotify.Tip)

	// NumClients returns the number of clients actively being served.
	NumClients() int

	// RegisterTipChangeUpdates requests tip change notifications to the
	// passed websocket client.
	RegisterTipChangeUpdates(wsc *wsClient)

	// UnregisterTipChangeUpdates removes tip change notifications for the
	// passed websocket client.
	UnregisterTipChangeUpdates(wsc *wsClient)

	// AddClient adds the passed websocket client to the notification
	// manager.
	AddClient(wsc *wsClient)

	// RemoveClient removes the passed websocket client and all of its
	// subscriptions.
	RemoveClient(wsc *wsClient)

	// Run starts the manager and all of its goroutines.  It blocks until the
	// provided context is cancelled.
	Run(ctx context.Context)
}
