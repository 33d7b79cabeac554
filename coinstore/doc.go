// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package coinstore implements a persistent storage layer for the unspent
transaction output set backed by leveldb.

Coins are keyed by outpoint using a serialization that sorts ascending by
transaction hash and output index, so iterating the store yields outputs
grouped by transaction in a deterministic order.  The store also tracks the
hash of the block the set is current with respect to and provides
snapshot-consistent audit sources for the utxoaudit package.
*/
package coinstore
