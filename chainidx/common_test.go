// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainidx

import (
	mrand "math/rand"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// testNoncePrng provides a deterministic prng for the nonce in generated fake
// nodes.  This ensures that the nodes have unique hashes.
var testNoncePrng = mrand.New(mrand.NewSource(0))

// newFakeNode creates a block node connected to the passed parent with fake
// values for the remaining header fields.  The node is marked as having its
// data stored and fully validated with a single validated transaction, which
// matches the state of a typical connected block.
func newFakeNode(parent *Node) *Node {
	var prevHash chainhash.Hash
	var height uint32
	if parent != nil {
		prevHash = parent.hash
		height = uint32(parent.height + 1)
	}
	header := &wire.BlockHeader{
		Version:   1,
		PrevBlock: prevHash,
		Bits:      0x1e00ffff,
		Height:    height,
		Timestamp: time.Unix(1702512000+int64(height)*60, 0),
		Nonce:     testNoncePrng.Uint32(),
	}
	node := NewNode(header, parent)
	node.status = StatusDataStored | StatusValidated
	node.validatedTxns = 1
	return node
}

// chainedFakeNodes returns the specified number of fake nodes constructed
// such that each subsequent node points to the previous one to create a
// chain.  The first node will point to the passed parent which can be nil if
// desired.
func chainedFakeNodes(parent *Node, numNodes int) []*Node {
	nodes := make([]*Node, numNodes)
	tip := parent
	for i := 0; i < numNodes; i++ {
		node := newFakeNode(tip)
		nodes[i] = node
		tip = node
	}
	return nodes
}

// branchTip is a convenience function to grab the tip of a chain of block
// nodes created via chainedFakeNodes.
func branchTip(nodes []*Node) *Node {
	return nodes[len(nodes)-1]
}

// newFakeIndex returns a block index populated with all of the provided
// nodes.
func newFakeIndex(nodeSlices ...[]*Node) *Index {
	index := NewIndex()
	for _, nodes := range nodeSlices {
		for _, node := range nodes {
			index.AddNode(node)
		}
	}
	return index
}
