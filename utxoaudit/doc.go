// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package utxoaudit implements a deterministic audit of the unspent transaction
output set.

The audit walks every unspent output exposed by a coin source in ascending
(transaction hash, output index) order, accumulates aggregate statistics, and
produces a commitment hash over a canonical serialization of the set.  Two
nodes with identical chain state produce bit-identical digests, so the result
is suitable for cross-node comparison of UTXO set integrity without
transferring the set itself.

The serialization groups outputs by transaction.  Each group contributes the
transaction hash, a compact encoding of the containing block height together
with the coinbase and coinstake flags, and one entry per unspent output
carrying its index, script, and value.  The whole stream is seeded with the
best block hash the set corresponds to and hashed with double SHA-256.
*/
package utxoaudit
