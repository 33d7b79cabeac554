// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainidx

import (
	"bytes"
	"sort"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TipStatus describes the validation status of the chain formed by a chain
// tip relative to the active chain.
type TipStatus string

// These constants define the possible chain tip statuses, in the priority
// order they are tested when classifying a tip (first match wins).
const (
	// TipStatusActive is the status for the current best chain tip and any
	// tip on the active chain.
	TipStatusActive = TipStatus("active")

	// TipStatusInvalid is the status for a tip for which the block or one of
	// its ancestors is invalid.
	TipStatusInvalid = TipStatus("invalid")

	// TipStatusHeadersOnly is the status for a tip for which the block does
	// not have the full block data available, meaning it can't be validated
	// or connected.
	TipStatusHeadersOnly = TipStatus("headers-only")

	// TipStatusValidFork is the status for a tip that is fully validated but
	// off the active chain, which implies it was probably part of the active
	// chain at one point and was reorganized.
	TipStatusValidFork = TipStatus("valid-fork")

	// TipStatusValidHeaders is the status for a tip whose header chain is
	// structurally valid and whose data is available, but which was never
	// fully validated, which implies it was probably never part of the
	// active chain.
	TipStatusValidHeaders = TipStatus("valid-headers")

	// TipStatusUnknown is the status for a tip that does not fit any of the
	// other categories.
	TipStatusUnknown = TipStatus("unknown")
)

// String returns the TipStatus as a human-readable string.
func (ts TipStatus) String() string {
	return string(ts)
}

// ChainTipInfo models information about a chain tip.
type ChainTipInfo struct {
	// Height specifies the block height of the chain tip.
	Height int64

	// Hash specifies the block hash of the chain tip.
	Hash chainhash.Hash

	// BranchLen specifies the length of the branch that connects the chain
	// tip to the active chain.  It will be zero for the active chain tip.
	BranchLen int64

	// Status specifies the validation status of the chain formed by the
	// chain tip.
	Status TipStatus
}

// nodeHeightSorter implements sort.Interface to allow a slice of nodes to be
// sorted by height in ascending order.
type nodeHeightSorter []*Node

// Len returns the number of nodes in the slice.  It is part of the
// sort.Interface implementation.
func (s nodeHeightSorter) Len() int {
	return len(s)
}

// Swap swaps the nodes at the passed indices.  It is part of the
// sort.Interface implementation.
func (s nodeHeightSorter) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Less returns whether the node with index i should sort before the node with
// index j.  It is part of the sort.Interface implementation.
func (s nodeHeightSorter) Less(i, j int) bool {
	// To ensure stable order when the heights are the same, fall back to
	// sorting based on hash.
	if s[i].height == s[j].height {
		return bytes.Compare(s[i].hash[:], s[j].hash[:]) < 0
	}
	return s[i].height < s[j].height
}

// tipStatus classifies the chain formed by the provided tip relative to the
// given view of the active chain.  The categories are tested in a fixed
// priority order with the first match winning.
//
// This function MUST be called with the block index lock held (for reads).
func tipStatus(tip *Node, view *ChainView) TipStatus {
	switch {
	// The current best chain tip or any block on the active chain.
	case view.Contains(tip):
		return TipStatusActive

	// The block or one of its ancestors is invalid.  Descendants of a failed
	// block carry the invalid ancestor flag, so checking the tip covers the
	// entire branch.
	case tip.status.KnownInvalid():
		return TipStatusInvalid

	// No transactions have been validated for the block, so only the header
	// chain is known.
	case tip.validatedTxns == 0:
		return TipStatusHeadersOnly

	// The block is fully validated which implies it was probably part of the
	// active chain at one point and was reorganized.
	case tip.status.HasValidated():
		return TipStatusValidFork

	// The full block data is available and the header is valid, but the
	// block was never validated which implies it was probably never part of
	// the active chain.
	case tip.status.HaveData():
		return TipStatusValidHeaders
	}

	return TipStatusUnknown
}

// ChainTips returns information about all of the currently known chain tips
// in the block index relative to the provided view of the active chain.
//
// The candidate tips are discovered by removing every node that is
// referenced as another node's parent from the set of all known nodes.  The
// active chain tip is unconditionally included so it is always reported even
// under pathological index states.  The results are sorted by descending
// height with ties broken by hash so the order is deterministic.
//
// The block index read lock is held for the duration of the scan so a
// consistent snapshot of the tree is observed even while the validation
// engine is mutating the index concurrently.
//
// This function is safe for concurrent access.
func (bi *Index) ChainTips(view *ChainView) []ChainTipInfo {
	bi.RLock()
	defer bi.RUnlock()

	// Start with every known node as a candidate and remove any node that
	// has a descendant, since having a descendant means it is not a leaf of
	// the block tree.
	candidates := make(map[*Node]struct{}, len(bi.index))
	for _, node := range bi.index {
		candidates[node] = struct{}{}
	}
	for _, node := range bi.index {
		if node.parent != nil {
			delete(candidates, node.parent)
		}
	}

	// The active chain tip is always a reported tip.
	activeTip := view.Tip()
	if activeTip != nil {
		candidates[activeTip] = struct{}{}
	}

	// Generate the results sorted by descending height.
	chainTips := make([]*Node, 0, len(candidates))
	for node := range candidates {
		chainTips = append(chainTips, node)
	}
	sort.Sort(sort.Reverse(nodeHeightSorter(chainTips)))

	results := make([]ChainTipInfo, len(chainTips))
	for i, tip := range chainTips {
		result := &results[i]
		result.Height = tip.height
		result.Hash = tip.hash
		result.Status = tipStatus(tip, view)

		// The branch length is the number of blocks between the tip and the
		// most recent ancestor shared with the active chain.  It is zero for
		// any tip on the active chain.
		if fork := view.FindFork(tip); fork != nil {
			result.BranchLen = tip.height - fork.height
		}
	}
	return results
}
