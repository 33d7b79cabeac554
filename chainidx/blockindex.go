// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainidx

import (
	"math/big"
	"sync"
	"time"

	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// BlockStatus is a bit field representing the validation state of the block.
type BlockStatus byte

// The following constants specify possible status bit flags for a block.
//
// NOTE: This section specifically does not use iota since the block status is
// serialized and must be stable for long-term storage.
const (
	// statusNone indicates that the block has no validation state flags set.
	statusNone BlockStatus = 0

	// StatusDataStored indicates that the block's payload is stored on disk.
	StatusDataStored BlockStatus = 1 << 0

	// StatusValidated indicates that the block has been fully validated.  It
	// also means that all of its ancestors have also been validated.
	StatusValidated BlockStatus = 1 << 1

	// StatusValidateFailed indicates that the block has failed validation.
	StatusValidateFailed BlockStatus = 1 << 2

	// StatusInvalidAncestor indicates that one of the ancestors of the block
	// has failed validation, thus the block is also invalid.
	StatusInvalidAncestor BlockStatus = 1 << 3
)

// HaveData returns whether the full block data is stored in the database.
// This will return false for a block node where only the header is downloaded
// or stored.
func (status BlockStatus) HaveData() bool {
	return status&StatusDataStored != 0
}

// HasValidated returns whether the block is known to have been successfully
// validated.  A return value of false in no way implies the block is invalid.
// Thus, this will return false for a valid block that has not been fully
// validated yet.
func (status BlockStatus) HasValidated() bool {
	return status&StatusValidated != 0
}

// KnownInvalid returns whether either the block itself is known to be invalid
// or to have an invalid ancestor.  A return value of false in no way implies
// the block is valid or only has valid ancestors.  Thus, this will return
// false for invalid blocks that have not been proven invalid yet as well as
// return false for blocks with invalid ancestors that have not been proven
// invalid yet.
func (status BlockStatus) KnownInvalid() bool {
	return status&(StatusValidateFailed|StatusInvalidAncestor) != 0
}

// KnownInvalidAncestor returns whether the block is known to have an invalid
// ancestor.  A return value of false in no way implies the block only has
// valid ancestors.
func (status BlockStatus) KnownInvalidAncestor() bool {
	return status&(StatusInvalidAncestor) != 0
}

// KnownValidateFailed returns whether the block is known to have failed
// validation.  A return value of false in no way implies the block is valid.
func (status BlockStatus) KnownValidateFailed() bool {
	return status&(StatusValidateFailed) != 0
}

// Node represents a block within the block tree and is primarily used to aid
// in resolving the relationship of competing branches to the active chain.
type Node struct {
	// parent is the parent block for this node.  It is a non-owning back
	// reference; nodes are owned collectively by the index.
	parent *Node

	// skipToAncestor is used to provide a skip list to significantly speed up
	// traversal to ancestors deep in history.
	skipToAncestor *Node

	// hash is the hash of the block this node represents.
	hash chainhash.Hash

	// workSum is the total amount of work in the chain up to and including
	// this node.
	workSum *big.Int

	// Some fields from the block header to aid in best chain selection and
	// reconstructing headers from memory.  These must be treated as
	// immutable.
	height       int64
	blockVersion int32
	bits         uint32
	timestamp    int64
	merkleRoot   chainhash.Hash
	nonce        uint32
	stakeVersion uint32

	// status is a bitfield representing the validation state of the block.
	// This field, unlike most other fields, may be changed after the block
	// node is created, so it must only be accessed or updated using the
	// concurrent-safe NodeStatus, SetStatusFlags, and UnsetStatusFlags
	// methods on Index once the node has been added to the index.
	status BlockStatus

	// validatedTxns is the number of transactions that have been validated
	// for the block.  It is zero until the full block data is received and
	// processed, which is what distinguishes a header-only branch from one
	// whose data is available.
	//
	// It is protected by the block index mutex.
	validatedTxns uint32
}

// clearLowestOneBit clears the lowest set bit in the passed value.
func clearLowestOneBit(n int64) int64 {
	return n & (n - 1)
}

// calcSkipListHeight calculates the height of an ancestor block to use when
// constructing the ancestor traversal skip list.
func calcSkipListHeight(height int64) int64 {
	if height < 0 {
		return 0
	}

	// Since the block tree is append only, there is no need to handle random
	// insertions or deletions, so this takes advantage of that to effectively
	// create a deterministic skip list with a single level that is reasonably
	// close to O(log n) while reducing the number of pointers and
	// implementation complexity.
	return clearLowestOneBit(clearLowestOneBit(height))
}

// NewNode returns a new block node for the given block header and parent
// node.  The work sum is calculated based on the parent, or, in the case no
// parent is provided, it will just be the work for the passed block.
func NewNode(blockHeader *wire.BlockHeader, parent *Node) *Node {
	node := &Node{
		hash:         blockHeader.BlockHash(),
		workSum:      standalone.CalcWork(blockHeader.Bits),
		height:       int64(blockHeader.Height),
		blockVersion: blockHeader.Version,
		bits:         blockHeader.Bits,
		timestamp:    blockHeader.Timestamp.Unix(),
		merkleRoot:   blockHeader.MerkleRoot,
		nonce:        blockHeader.Nonce,
		stakeVersion: blockHeader.StakeVersion,
		status:       statusNone,
	}
	if parent != nil {
		node.parent = parent
		node.skipToAncestor = parent.Ancestor(calcSkipListHeight(node.height))
		node.workSum = node.workSum.Add(parent.workSum, node.workSum)
	}
	return node
}

// Hash returns the hash of the block this node represents.
//
// This function is safe for concurrent access.
func (node *Node) Hash() chainhash.Hash {
	// No lock is needed because the field is immutable.
	return node.hash
}

// Height returns the height of the block this node represents.
//
// This function is safe for concurrent access.
func (node *Node) Height() int64 {
	// No lock is needed because the field is immutable.
	return node.height
}

// Parent returns the parent of the node or nil for the genesis block.
//
// This function is safe for concurrent access.
func (node *Node) Parent() *Node {
	// No lock is needed because the field is immutable.
	return node.parent
}

// WorkSum returns the total amount of work in the chain up to and including
// the node.
//
// This function is safe for concurrent access.
func (node *Node) WorkSum() *big.Int {
	// No lock is needed because the field is immutable.
	return node.workSum
}

// Header constructs a block header from the node and returns it.
//
// This function is safe for concurrent access.
func (node *Node) Header() wire.BlockHeader {
	// No lock is needed because all accessed fields are immutable.
	var prevHash chainhash.Hash
	if node.parent != nil {
		prevHash = node.parent.hash
	}
	return wire.BlockHeader{
		Version:      node.blockVersion,
		PrevBlock:    prevHash,
		MerkleRoot:   node.merkleRoot,
		Bits:         node.bits,
		Height:       uint32(node.height),
		Timestamp:    time.Unix(node.timestamp, 0),
		Nonce:        node.nonce,
		StakeVersion: node.stakeVersion,
	}
}

// Ancestor returns the ancestor block node at the provided height by
// following the chain backwards from this node.  The returned block will be
// nil when a height is requested that is after the height of the passed node
// or is less than zero.
//
// This function is safe for concurrent access.
func (node *Node) Ancestor(height int64) *Node {
	if height < 0 || height > node.height {
		return nil
	}

	n := node
	for n != nil && n.height != height {
		// Skip to the linked ancestor when it won't overshoot the target
		// height.
		if n.skipToAncestor != nil && calcSkipListHeight(n.height) >= height {
			n = n.skipToAncestor
			continue
		}

		n = n.parent
	}

	return n
}

// Index provides facilities for keeping track of an in-memory index of the
// block tree.  Nodes are owned collectively by the index and referenced by
// hash; parent relationships are non-owning back references that remain
// valid for the lifetime of the index.
type Index struct {
	// The embedded mutex protects the fields below as well as the mutable
	// fields of every node that has been added to the index.
	sync.RWMutex
	index map[chainhash.Hash]*Node
}

// NewIndex returns a new empty instance of a block index.  The index will be
// dynamically populated as block nodes are created by the validation engine
// and manually added.
func NewIndex() *Index {
	return &Index{
		index: make(map[chainhash.Hash]*Node),
	}
}

// AddNode adds the provided node to the block index.  Duplicate entries are
// not checked so it is up to caller to avoid adding them.
//
// This function is safe for concurrent access.
func (bi *Index) AddNode(node *Node) {
	bi.Lock()
	bi.index[node.hash] = node
	bi.Unlock()
}

// lookupNode returns the block node identified by the provided hash.  It will
// return nil if there is no entry for the hash.
//
// This function MUST be called with the block index lock held (for reads).
func (bi *Index) lookupNode(hash *chainhash.Hash) *Node {
	return bi.index[*hash]
}

// LookupNode returns the block node identified by the provided hash.  It will
// return nil if there is no entry for the hash.
//
// This function is safe for concurrent access.
func (bi *Index) LookupNode(hash *chainhash.Hash) *Node {
	bi.RLock()
	node := bi.lookupNode(hash)
	bi.RUnlock()
	return node
}

// HaveBlock returns whether or not the block index contains the provided hash
// and the block data is available.
//
// This function is safe for concurrent access.
func (bi *Index) HaveBlock(hash *chainhash.Hash) bool {
	bi.RLock()
	node := bi.lookupNode(hash)
	hasBlock := node != nil && node.status.HaveData()
	bi.RUnlock()
	return hasBlock
}

// NumNodes returns the total number of nodes tracked by the block index.
//
// This function is safe for concurrent access.
func (bi *Index) NumNodes() int {
	bi.RLock()
	total := len(bi.index)
	bi.RUnlock()
	return total
}

// NodeStatus returns the status associated with the provided node.
//
// This function is safe for concurrent access.
func (bi *Index) NodeStatus(node *Node) BlockStatus {
	bi.RLock()
	status := node.status
	bi.RUnlock()
	return status
}

// setStatusFlags sets the provided status flags for the given block node
// regardless of their previous state.  It does not unset any flags.
//
// This function MUST be called with the block index lock held (for writes).
func (bi *Index) setStatusFlags(node *Node, flags BlockStatus) {
	node.status |= flags
}

// SetStatusFlags sets the provided status flags for the given block node
// regardless of their previous state.  It does not unset any flags.
//
// This function is safe for concurrent access.
func (bi *Index) SetStatusFlags(node *Node, flags BlockStatus) {
	bi.Lock()
	bi.setStatusFlags(node, flags)
	bi.Unlock()
}

// unsetStatusFlags unsets the provided status flags for the given block node
// regardless of their previous state.
//
// This function MUST be called with the block index lock held (for writes).
func (bi *Index) unsetStatusFlags(node *Node, flags BlockStatus) {
	node.status &^= flags
}

// UnsetStatusFlags unsets the provided status flags for the given block node
// regardless of their previous state.
//
// This function is safe for concurrent access.
func (bi *Index) UnsetStatusFlags(node *Node, flags BlockStatus) {
	bi.Lock()
	bi.unsetStatusFlags(node, flags)
	bi.Unlock()
}

// ValidatedTxns returns the number of transactions that have been validated
// for the block associated with the provided node.  It is zero for nodes
// whose full block data has not been received and processed.
//
// This function is safe for concurrent access.
func (bi *Index) ValidatedTxns(node *Node) uint32 {
	bi.RLock()
	numTxns := node.validatedTxns
	bi.RUnlock()
	return numTxns
}

// AcceptBlockData updates the block index state to account for the full data
// for a block becoming available.  The node is marked as having its data
// stored and the number of transactions that were validated for the block is
// recorded.
//
// This function is safe for concurrent access.
func (bi *Index) AcceptBlockData(node *Node, numTxns uint32) {
	bi.Lock()
	bi.setStatusFlags(node, StatusDataStored)
	node.validatedTxns = numTxns
	bi.Unlock()
}

// MarkFailedValidation marks the passed node as having failed validation and
// then marks all of its descendants (if any) as having a failed ancestor.
//
// In order to determine the descendants of the block without requiring
// child references to be tracked, every node in the index at a greater
// height is checked for having the failed block as an ancestor.
//
// This function is safe for concurrent access.
func (bi *Index) MarkFailedValidation(node *Node) {
	bi.Lock()
	bi.setStatusFlags(node, StatusValidateFailed)
	bi.unsetStatusFlags(node, StatusValidated)

	for _, n := range bi.index {
		if n.height <= node.height {
			continue
		}
		if n.Ancestor(node.height) != node {
			continue
		}
		if n.status.KnownInvalidAncestor() {
			continue
		}

		bi.setStatusFlags(n, StatusInvalidAncestor)
		bi.unsetStatusFlags(n, StatusValidated)
	}
	bi.Unlock()

	log.Debugf("Block %s (height %d) marked as failed validation", node.hash,
		node.height)
}
