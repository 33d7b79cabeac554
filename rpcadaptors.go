// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/tessernet/tesserad/chainidx"
	"github.com/tessernet/tesserad/coinstore"
	"github.com/tessernet/tesserad/internal/rpcserver"
)

// rpcChain provides chain state and topology queries for use with the RPC
// server by adapting the block index and the view of the current best chain,
// implementing the rpcserver.Chain interface.
type rpcChain struct {
	index *chainidx.Index
	view  *chainidx.ChainView
}

// Ensure rpcChain implements the rpcserver.Chain interface.
var _ rpcserver.Chain = (*rpcChain)(nil)

// BestTip returns the hash and height of the current tip of the best chain.
//
// This function is safe for concurrent access and is part of the
// rpcserver.Chain interface implementation.
func (c *rpcChain) BestTip() (chainhash.Hash, int64) {
	tip := c.view.Tip()
	return tip.Hash(), tip.Height()
}

// BlockHashByHeight returns the hash of the block at the given height in the
// best chain.
//
// This function is safe for concurrent access and is part of the
// rpcserver.Chain interface implementation.
func (c *rpcChain) BlockHashByHeight(height int64) (*chainhash.Hash, error) {
	node := c.view.NodeByHeight(height)
	if node == nil {
		return nil, fmt.Errorf("no block at height %d exists", height)
	}
	hash := node.Hash()
	return &hash, nil
}

// HeightByHash returns the height of the block with the given hash.  Blocks
// on side chains are resolved as well since the caller only needs a height
// that is consistent with the block index.
//
// This function is safe for concurrent access and is part of the
// rpcserver.Chain interface implementation.
func (c *rpcChain) HeightByHash(hash *chainhash.Hash) (int64, error) {
	node := c.index.LookupNode(hash)
	if node == nil {
		return 0, fmt.Errorf("no block with hash %v exists", hash)
	}
	return node.Height(), nil
}

// ChainTips returns information about all of the known tips of the block
// tree, including the tip of the best chain.
//
// This function is safe for concurrent access and is part of the
// rpcserver.Chain interface implementation.
func (c *rpcChain) ChainTips() []chainidx.ChainTipInfo {
	return c.index.ChainTips(c.view)
}

// rpcCoinAuditor provides snapshots of the unspent transaction output store
// for use with the RPC server, implementing the rpcserver.CoinAuditor
// interface.
type rpcCoinAuditor struct {
	store *coinstore.Store
}

// Ensure rpcCoinAuditor implements the rpcserver.CoinAuditor interface.
var _ rpcserver.CoinAuditor = (*rpcCoinAuditor)(nil)

// AuditSource returns a point-in-time snapshot of the unspent transaction
// output store.  The caller must release the returned source when done with
// it.
//
// This function is safe for concurrent access and is part of the
// rpcserver.CoinAuditor interface implementation.
func (a *rpcCoinAuditor) AuditSource() (rpcserver.AuditSource, error) {
	src, err := a.store.AuditSource()
	if err != nil {
		return nil, err
	}
	return src, nil
}
