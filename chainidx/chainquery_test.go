// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainidx

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TestChainTipsTwoBranches ensures that a synthetic block tree consisting of
// two branches diverging at height 2 and reaching heights 5 and 4 yields
// exactly two tips with the expected branch lengths and classification.
func TestChainTipsTwoBranches(t *testing.T) {
	// Construct the following block tree:
	//
	//	genesis -> 1 -> 2 -> 3  -> 4  -> 5
	//	                 \-> 3a -> 4a
	//
	// The branch ending in 5 is the active chain.
	trunk := chainedFakeNodes(nil, 3) // genesis, 1, 2
	active := chainedFakeNodes(branchTip(trunk), 3)
	fork := chainedFakeNodes(branchTip(trunk), 2)
	index := newFakeIndex(trunk, active, fork)
	view := NewChainView(branchTip(active))

	tips := index.ChainTips(view)
	if len(tips) != 2 {
		t.Fatalf("unexpected number of chain tips -- got %d, want 2",
			len(tips))
	}

	// Results are ordered by descending height, so the active tip is first.
	best := tips[0]
	if best.Height != 5 {
		t.Errorf("unexpected active tip height -- got %d, want 5", best.Height)
	}
	if best.Hash != branchTip(active).hash {
		t.Errorf("unexpected active tip hash -- got %v, want %v", best.Hash,
			branchTip(active).hash)
	}
	if best.BranchLen != 0 {
		t.Errorf("unexpected active branch len -- got %d, want 0",
			best.BranchLen)
	}
	if best.Status != TipStatusActive {
		t.Errorf("unexpected active tip status -- got %v, want %v",
			best.Status, TipStatusActive)
	}

	side := tips[1]
	if side.Height != 4 {
		t.Errorf("unexpected side tip height -- got %d, want 4", side.Height)
	}
	if side.BranchLen != 2 {
		t.Errorf("unexpected side branch len -- got %d, want 2",
			side.BranchLen)
	}
	if side.Status != TipStatusValidFork {
		t.Errorf("unexpected side tip status -- got %v, want %v", side.Status,
			TipStatusValidFork)
	}

	// Sanity check the branch lengths against the fork point: the active
	// branch is 3 blocks past the fork point at height 2 and the side branch
	// is 2 blocks past it.
	activeFork := view.FindFork(branchTip(active))
	if activeFork.height != 5-3 {
		t.Errorf("unexpected fork height for active branch -- got %d, want 2",
			activeFork.height)
	}
}

// TestChainTipStatuses ensures each tip classification is reported with the
// documented priority order.
func TestChainTipStatuses(t *testing.T) {
	// Build an active chain along with one branch per classification, all
	// diverging from the active chain at height 1.
	trunk := chainedFakeNodes(nil, 2) // genesis, 1
	active := chainedFakeNodes(branchTip(trunk), 4)

	invalidBranch := chainedFakeNodes(branchTip(trunk), 2)
	headersBranch := chainedFakeNodes(branchTip(trunk), 3)
	validHdrBranch := chainedFakeNodes(branchTip(trunk), 1)
	unknownBranch := chainedFakeNodes(branchTip(trunk), 1)

	// Invalid: the branch root failed validation, so the tip carries the
	// invalid ancestor flag.
	index := newFakeIndex(trunk, active, invalidBranch, headersBranch,
		validHdrBranch, unknownBranch)
	index.MarkFailedValidation(invalidBranch[0])

	// Headers only: no transactions validated and no data stored.
	for _, node := range headersBranch {
		node.status = statusNone
		node.validatedTxns = 0
	}

	// Valid headers: data stored, but never validated.
	validHdrBranch[0].status = StatusDataStored

	// Unknown: transactions were counted at some point but neither the data
	// stored nor validated flags remain, which does not fit any category.
	unknownBranch[0].status = statusNone

	view := NewChainView(branchTip(active))
	tips := index.ChainTips(view)
	if len(tips) != 5 {
		t.Fatalf("unexpected number of chain tips -- got %d, want 5",
			len(tips))
	}

	wantStatus := map[chainhash.Hash]TipStatus{
		branchTip(active).hash:         TipStatusActive,
		branchTip(invalidBranch).hash:  TipStatusInvalid,
		branchTip(headersBranch).hash:  TipStatusHeadersOnly,
		branchTip(validHdrBranch).hash: TipStatusValidHeaders,
		branchTip(unknownBranch).hash:  TipStatusUnknown,
	}
	for _, tip := range tips {
		want, ok := wantStatus[tip.Hash]
		if !ok {
			t.Errorf("unexpected tip %v in results", tip.Hash)
			continue
		}
		if tip.Status != want {
			t.Errorf("tip %v: unexpected status -- got %v, want %v", tip.Hash,
				tip.Status, want)
		}
	}
}

// TestChainTipsOrdering ensures tips are returned ordered by descending
// height with a deterministic hash-based tie break among tips at the same
// height.
func TestChainTipsOrdering(t *testing.T) {
	trunk := chainedFakeNodes(nil, 3)
	active := chainedFakeNodes(branchTip(trunk), 2)
	sideA := chainedFakeNodes(branchTip(trunk), 2)
	sideB := chainedFakeNodes(branchTip(trunk), 2)
	index := newFakeIndex(trunk, active, sideA, sideB)
	view := NewChainView(branchTip(active))

	tips := index.ChainTips(view)
	if len(tips) != 3 {
		t.Fatalf("unexpected number of chain tips -- got %d, want 3",
			len(tips))
	}
	for i := 1; i < len(tips); i++ {
		prev, cur := tips[i-1], tips[i]
		if cur.Height > prev.Height {
			t.Fatalf("tips not ordered by descending height: %d before %d",
				prev.Height, cur.Height)
		}
		if cur.Height == prev.Height &&
			bytes.Compare(cur.Hash[:], prev.Hash[:]) > 0 {

			t.Fatalf("equal-height tips not ordered by hash: %v before %v",
				prev.Hash, cur.Hash)
		}
	}

	// The ordering must be stable across repeated invocations.
	again := index.ChainTips(view)
	for i := range tips {
		if tips[i] != again[i] {
			t.Fatalf("tip ordering not deterministic at index %d", i)
		}
	}
}

// TestChainTipsActiveAlwaysReported ensures the active chain tip is reported
// even when the index contains a node that references it as a parent.
func TestChainTipsActiveAlwaysReported(t *testing.T) {
	active := chainedFakeNodes(nil, 4)
	child := chainedFakeNodes(branchTip(active), 1)
	index := newFakeIndex(active, child)

	// The view deliberately designates the parent of the child node as the
	// active tip to simulate the pathological state where the index already
	// knows a descendant of the active tip.
	view := NewChainView(branchTip(active))

	tips := index.ChainTips(view)
	found := false
	for _, tip := range tips {
		if tip.Hash == branchTip(active).hash {
			found = true
			if tip.Status != TipStatusActive {
				t.Errorf("unexpected status for active tip -- got %v, want %v",
					tip.Status, TipStatusActive)
			}
		}
	}
	if !found {
		t.Fatal("active chain tip missing from results")
	}
}
