// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainidx

import (
	"testing"
)

// TestAncestorSkipList ensures the skip list built into the block nodes works
// as expected by checking various ancestor heights against the result of
// walking the parent back references directly.
func TestAncestorSkipList(t *testing.T) {
	// Create fake nodes to use for the tests and add them to an index so
	// their parent references remain reachable.
	nodes := chainedFakeNodes(nil, 250)
	_ = newFakeIndex(nodes)

	for _, startNode := range nodes {
		// Ensure obtaining an ancestor at a height after the node or at a
		// negative height does not produce a node.
		if startNode.Ancestor(startNode.height+1) != nil {
			t.Fatalf("unexpected ancestor after height %d", startNode.height)
		}
		if startNode.Ancestor(-1) != nil {
			t.Fatal("unexpected ancestor for negative height")
		}

		// Ensure the ancestor at each height matches the node determined by
		// walking the parent references directly.
		want := startNode
		for height := startNode.height; height >= 0; height-- {
			got := startNode.Ancestor(height)
			if got != want {
				t.Fatalf("unexpected ancestor at height %d from %d -- got "+
					"%v, want %v", height, startNode.height, got.hash,
					want.hash)
			}
			want = want.parent
		}
	}
}

// TestBlockNodeHeader ensures that block nodes reconstruct the original
// header.
func TestBlockNodeHeader(t *testing.T) {
	nodes := chainedFakeNodes(nil, 3)
	for _, node := range nodes {
		header := node.Header()
		if header.BlockHash() != node.hash {
			t.Fatalf("reconstructed header at height %d does not hash to "+
				"the node hash -- got %v, want %v", node.height,
				header.BlockHash(), node.hash)
		}
		if node.parent != nil && header.PrevBlock != node.parent.hash {
			t.Fatalf("unexpected prev block at height %d -- got %v, want %v",
				node.height, header.PrevBlock, node.parent.hash)
		}
	}
}

// TestIndexLookups ensures basic block index lookups behave as expected.
func TestIndexLookups(t *testing.T) {
	nodes := chainedFakeNodes(nil, 5)
	index := newFakeIndex(nodes)

	if index.NumNodes() != len(nodes) {
		t.Fatalf("unexpected number of nodes -- got %d, want %d",
			index.NumNodes(), len(nodes))
	}

	for _, node := range nodes {
		hash := node.Hash()
		if index.LookupNode(&hash) != node {
			t.Fatalf("node %v not found in index", hash)
		}
		if !index.HaveBlock(&hash) {
			t.Fatalf("block data for %v unexpectedly not available", hash)
		}
	}

	// Ensure a hash that is not in the index behaves properly.
	unknown := newFakeNode(branchTip(nodes))
	unknownHash := unknown.Hash()
	if index.LookupNode(&unknownHash) != nil {
		t.Fatal("lookup of unknown hash unexpectedly returned a node")
	}
	if index.HaveBlock(&unknownHash) {
		t.Fatal("block data for unknown hash unexpectedly available")
	}

	// Ensure HaveBlock reports false for a known node without block data.
	headerOnly := newFakeNode(branchTip(nodes))
	headerOnly.status = statusNone
	headerOnly.validatedTxns = 0
	index.AddNode(headerOnly)
	headerOnlyHash := headerOnly.Hash()
	if index.LookupNode(&headerOnlyHash) != headerOnly {
		t.Fatal("header-only node not found in index")
	}
	if index.HaveBlock(&headerOnlyHash) {
		t.Fatal("block data for header-only node unexpectedly available")
	}
}

// TestIndexStatusFlags ensures the status flag manipulation functions work as
// intended.
func TestIndexStatusFlags(t *testing.T) {
	node := chainedFakeNodes(nil, 1)[0]
	node.status = statusNone
	node.validatedTxns = 0
	index := NewIndex()
	index.AddNode(node)

	if status := index.NodeStatus(node); status != statusNone {
		t.Fatalf("unexpected initial status -- got %v, want %v", status,
			statusNone)
	}

	// Mark the block data stored along with the number of validated txns and
	// ensure the flags and count are reflected.
	index.AcceptBlockData(node, 7)
	if status := index.NodeStatus(node); !status.HaveData() {
		t.Fatal("expected data stored flag to be set")
	}
	if numTxns := index.ValidatedTxns(node); numTxns != 7 {
		t.Fatalf("unexpected validated txns -- got %d, want 7", numTxns)
	}

	// Set and unset the validated flag.
	index.SetStatusFlags(node, StatusValidated)
	if status := index.NodeStatus(node); !status.HasValidated() {
		t.Fatal("expected validated flag to be set")
	}
	index.UnsetStatusFlags(node, StatusValidated)
	if status := index.NodeStatus(node); status.HasValidated() {
		t.Fatal("expected validated flag to be unset")
	}

	// Unsetting flags must not disturb unrelated flags.
	if status := index.NodeStatus(node); !status.HaveData() {
		t.Fatal("data stored flag unexpectedly cleared")
	}
}

// TestMarkFailedValidation ensures marking a block as having failed
// validation propagates the invalid ancestor flag to all of its descendants
// while leaving unrelated branches untouched.
func TestMarkFailedValidation(t *testing.T) {
	// Construct the following block tree:
	//
	//	0 -> 1 -> 2 -> 3 -> 4
	//	      \-> 2a -> 3a
	trunk := chainedFakeNodes(nil, 2)
	mainBranch := chainedFakeNodes(branchTip(trunk), 3)
	sideBranch := chainedFakeNodes(branchTip(trunk), 2)
	index := newFakeIndex(trunk, mainBranch, sideBranch)

	// Mark the first block of the main branch as having failed validation.
	failed := mainBranch[0]
	index.MarkFailedValidation(failed)

	// The failed block itself must carry the validate failed flag and no
	// longer be considered validated.
	status := index.NodeStatus(failed)
	if !status.KnownValidateFailed() {
		t.Fatal("expected validate failed flag on failed block")
	}
	if status.HasValidated() {
		t.Fatal("failed block unexpectedly still marked validated")
	}

	// All descendants of the failed block must be marked as having an
	// invalid ancestor and no longer be considered validated.
	for _, node := range mainBranch[1:] {
		status := index.NodeStatus(node)
		if !status.KnownInvalidAncestor() {
			t.Fatalf("descendant at height %d missing invalid ancestor flag",
				node.height)
		}
		if status.HasValidated() {
			t.Fatalf("descendant at height %d unexpectedly still validated",
				node.height)
		}
		if !status.KnownInvalid() {
			t.Fatalf("descendant at height %d not known invalid", node.height)
		}
	}

	// Blocks on unrelated branches and ancestors of the failed block must be
	// unaffected.
	for _, node := range sideBranch {
		status := index.NodeStatus(node)
		if status.KnownInvalid() {
			t.Fatalf("side branch node at height %d unexpectedly invalid",
				node.height)
		}
		if !status.HasValidated() {
			t.Fatalf("side branch node at height %d no longer validated",
				node.height)
		}
	}
	for _, node := range trunk {
		if index.NodeStatus(node).KnownInvalid() {
			t.Fatalf("ancestor at height %d unexpectedly invalid", node.height)
		}
	}
}
