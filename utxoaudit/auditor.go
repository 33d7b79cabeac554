// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxoaudit

import (
	"crypto/sha256"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// Coin represents a single unspent transaction output as tracked by a coin
// source.
type Coin struct {
	// Height is the height of the block that contains the transaction the
	// output belongs to.
	Height int64

	// IsCoinBase indicates the output belongs to a coinbase transaction.
	IsCoinBase bool

	// IsCoinStake indicates the output belongs to a coinstake transaction.
	IsCoinStake bool

	// Value is the output value in atoms.
	Value int64

	// PkScript is the public key script of the output.
	PkScript []byte
}

// Cursor provides forward-only iteration over the unspent transaction output
// set in ascending order by transaction hash and output index.  The contract
// is modeled on database iterators: Next must be called to position the
// cursor before the first access, accessors are only valid after Next returns
// true, any failure terminates iteration and is reported by Error, and
// Release must be called exactly once when the cursor is no longer needed.
type Cursor interface {
	// Next advances the cursor to the next unspent output.  It returns false
	// once the cursor is exhausted or an error occurs.
	Next() bool

	// Outpoint returns the outpoint of the unspent output the cursor is
	// currently positioned at.
	Outpoint() wire.OutPoint

	// Coin returns the coin details of the unspent output the cursor is
	// currently positioned at.
	Coin() Coin

	// Error returns the first error encountered during iteration or nil when
	// iteration completed successfully.
	Error() error

	// Release releases any resources associated with the cursor.
	Release()
}

// Source provides access to the state an audit requires from a coin store.
//
// All methods must provide a consistent snapshot: the best block hash and the
// set iterated by the cursor must correspond to the same chain state even if
// the store is being mutated concurrently.
type Source interface {
	// BestHash returns the hash of the block the unspent output set is
	// current with respect to.
	BestHash() (chainhash.Hash, error)

	// AuditCursor returns a cursor over the entire unspent output set in
	// ascending (transaction hash, output index) order.
	AuditCursor() (Cursor, error)

	// SizeEstimate returns an approximation of the store's on-disk footprint
	// in bytes.
	SizeEstimate() (int64, error)
}

// SetDigest is the result of auditing the unspent transaction output set.
type SetDigest struct {
	// Height is the height of the block the set corresponds to.
	Height int64

	// BestBlock is the hash of the block the set corresponds to.
	BestBlock chainhash.Hash

	// Transactions is the number of transactions with at least one unspent
	// output.
	Transactions uint64

	// TxOuts is the total number of unspent outputs.
	TxOuts uint64

	// SerializedHash is the double SHA-256 commitment over the canonical
	// serialization of the set, seeded with the best block hash.
	SerializedHash chainhash.Hash

	// TotalAmount is the sum of all unspent output values in atoms.
	TotalAmount int64

	// DiskSize is an approximation of the store's on-disk footprint in bytes.
	DiskSize int64
}

// packCoinCode packs the block height of a transaction together with its
// coinbase and coinstake flags into the single integer that is committed to
// for each transaction group.
func packCoinCode(coin *Coin) uint64 {
	code := uint64(coin.Height) << 2
	if coin.IsCoinBase {
		code |= 2
	}
	if coin.IsCoinStake {
		code |= 1
	}
	return code
}

// Audit iterates the entire unspent transaction output set of the provided
// source and returns aggregate statistics along with a deterministic
// commitment hash over its canonical serialization.
//
// The serialization is seeded with the best block hash and commits to each
// transaction that has unspent outputs exactly once: the transaction hash,
// the packed height and flags code, and an entry per unspent output
// consisting of the output index biased by one, the length-prefixed script,
// and the value, with a zero terminating each transaction group.  Grouping
// relies on the cursor's (transaction hash, output index) ordering.  The
// commitment is the double SHA-256 of the stream, so two stores with an
// identical set and best block produce bit-identical digests.
//
// An empty set produces zero counts and the commitment over the seed alone.
// Any cursor failure aborts the audit with an error of kind ErrStoreRead and
// no partial digest is returned.
//
// The provided resolveHeight function is used to resolve the best block hash
// to its height and is typically backed by the block index.
func Audit(src Source, resolveHeight func(*chainhash.Hash) (int64, error)) (*SetDigest, error) {
	bestHash, err := src.BestHash()
	if err != nil {
		return nil, storeReadError("failed to fetch audit best block", err)
	}
	bestHeight, err := resolveHeight(&bestHash)
	if err != nil {
		return nil, err
	}

	cursor, err := src.AuditCursor()
	if err != nil {
		return nil, storeReadError("failed to create audit cursor", err)
	}
	defer cursor.Release()

	// All writes below go to the hash state and can never fail, so the
	// returned errors are intentionally ignored.
	hasher := sha256.New()
	hasher.Write(bestHash[:])

	digest := SetDigest{Height: bestHeight, BestBlock: bestHash}
	var groupHash chainhash.Hash
	var inGroup bool
	var buf [9]byte
	writeVLQ := func(n uint64) {
		size := putVLQ(buf[:], n)
		hasher.Write(buf[:size])
	}
	for cursor.Next() {
		outpoint := cursor.Outpoint()
		coin := cursor.Coin()

		// Start a new transaction group whenever the transaction hash
		// changes, closing the previous group first.
		if !inGroup || outpoint.Hash != groupHash {
			if inGroup {
				writeVLQ(0)
			}
			hasher.Write(outpoint.Hash[:])
			writeVLQ(packCoinCode(&coin))
			digest.Transactions++
			groupHash = outpoint.Hash
			inGroup = true
		}

		writeVLQ(uint64(outpoint.Index) + 1)
		wire.WriteVarBytes(hasher, 0, coin.PkScript)
		writeVLQ(uint64(coin.Value))
		digest.TxOuts++
		digest.TotalAmount += coin.Value
	}
	if err := cursor.Error(); err != nil {
		return nil, storeReadError("audit cursor failed during iteration", err)
	}
	if inGroup {
		writeVLQ(0)
	}

	digest.SerializedHash = chainhash.Hash(sha256.Sum256(hasher.Sum(nil)))

	diskSize, err := src.SizeEstimate()
	if err != nil {
		return nil, storeReadError("failed to estimate store size", err)
	}
	digest.DiskSize = diskSize

	return &digest, nil
}
