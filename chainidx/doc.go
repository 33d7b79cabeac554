// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainidx implements an in-memory index of the block tree along
// with enumeration of all known chain tips and their relationship to the
// active chain.
//
// Although the name block chain suggests a single chain of blocks, the index
// is actually a tree-shaped structure where any node can have multiple
// children.  There can only be one active branch which does indeed form a
// chain from the active tip all the way back to the genesis block.  The
// active branch is tracked separately by a ChainView which provides
// efficient height-indexed membership tests used when resolving the fork
// topology.
//
// The index is populated and mutated by the block validation engine; this
// package only provides the bookkeeping and introspection primitives.
package chainidx
