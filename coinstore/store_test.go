// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinstore

import (
	"bytes"
	"errors"
	mrand "math/rand"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/tessernet/tesserad/utxoaudit"
)

// newTestStore returns a store backed by an in-memory leveldb instance.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	store := New(db)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// mustHash converts the passed hex string into a chainhash.Hash and will
// panic if there is an error.  It is only intended for use in the tests.
func mustHash(s string) chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic("invalid hash in test source: " + err.Error())
	}
	return *hash
}

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error.  It is only intended for use in the tests.
func hexToBytes(s string) []byte {
	var b []byte
	for i := 0; i+1 < len(s); i += 2 {
		hi := hexDigit(s[i])
		lo := hexDigit(s[i+1])
		b = append(b, hi<<4|lo)
	}
	return b
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	panic("invalid hex digit in test source")
}

// TestCoinRoundTrip ensures storing, fetching, and removing coins works as
// intended, including fetching an outpoint that does not exist.
func TestCoinRoundTrip(t *testing.T) {
	store := newTestStore(t)

	outpoint := wire.OutPoint{Hash: mustHash("01"), Index: 3}
	coin := utxoaudit.Coin{
		Height:      120000,
		IsCoinStake: true,
		Value:       987654321,
		PkScript:    hexToBytes("76a914333333333333333333333333333333333333333388ac"),
	}
	if err := store.PutCoin(&outpoint, &coin); err != nil {
		t.Fatalf("unexpected error storing coin: %v", err)
	}

	got, err := store.FetchCoin(&outpoint)
	if err != nil {
		t.Fatalf("unexpected error fetching coin: %v", err)
	}
	if got == nil {
		t.Fatal("stored coin not found")
	}
	if got.Height != coin.Height || got.IsCoinBase != coin.IsCoinBase ||
		got.IsCoinStake != coin.IsCoinStake || got.Value != coin.Value ||
		!bytes.Equal(got.PkScript, coin.PkScript) {

		t.Fatalf("fetched coin does not match -- got %+v, want %+v", *got,
			coin)
	}

	// An unknown outpoint produces neither a coin nor an error.
	unknown := wire.OutPoint{Hash: mustHash("02"), Index: 0}
	got, err = store.FetchCoin(&unknown)
	if err != nil {
		t.Fatalf("unexpected error fetching unknown outpoint: %v", err)
	}
	if got != nil {
		t.Fatalf("unexpected coin for unknown outpoint: %+v", *got)
	}

	// Removing the coin makes it unreachable and removing it again is not an
	// error.
	if err := store.RemoveCoin(&outpoint); err != nil {
		t.Fatalf("unexpected error removing coin: %v", err)
	}
	got, err = store.FetchCoin(&outpoint)
	if err != nil || got != nil {
		t.Fatalf("coin still reachable after removal: %+v, %v", got, err)
	}
	if err := store.RemoveCoin(&outpoint); err != nil {
		t.Fatalf("unexpected error removing missing coin: %v", err)
	}
}

// TestBestHash ensures the best hash is the zero hash for a fresh store and
// reflects the most recent commit afterwards.
func TestBestHash(t *testing.T) {
	store := newTestStore(t)

	hash, err := store.BestHash()
	if err != nil {
		t.Fatalf("unexpected error fetching best hash: %v", err)
	}
	if hash != (chainhash.Hash{}) {
		t.Fatalf("unexpected best hash for fresh store: %v", hash)
	}

	want := mustHash("0a")
	if err := store.Commit(nil, nil, &want); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}
	hash, err = store.BestHash()
	if err != nil {
		t.Fatalf("unexpected error fetching best hash: %v", err)
	}
	if hash != want {
		t.Fatalf("unexpected best hash -- got %v, want %v", hash, want)
	}
}

// TestCursorOrdering ensures the audit cursor yields coins in ascending
// (transaction hash, output index) order regardless of insertion order.
func TestCursorOrdering(t *testing.T) {
	store := newTestStore(t)

	// Generate a deterministic set of outpoints across several transactions
	// and multiple indices per transaction.
	prng := mrand.New(mrand.NewSource(0))
	outpoints := make([]wire.OutPoint, 0, 40)
	for tx := 0; tx < 10; tx++ {
		var txHash chainhash.Hash
		prng.Read(txHash[:])
		for idx := 0; idx < 4; idx++ {
			outpoints = append(outpoints, wire.OutPoint{
				Hash:  txHash,
				Index: uint32(idx),
			})
		}
	}

	// Insert in randomized order.
	perm := prng.Perm(len(outpoints))
	for _, i := range perm {
		coin := utxoaudit.Coin{
			Height:   int64(i + 1),
			Value:    int64(i+1) * 1000,
			PkScript: []byte{0x51},
		}
		if err := store.PutCoin(&outpoints[i], &coin); err != nil {
			t.Fatalf("unexpected error storing coin: %v", err)
		}
	}

	src, err := store.AuditSource()
	if err != nil {
		t.Fatalf("unexpected error creating audit source: %v", err)
	}
	defer src.Release()
	cursor, err := src.AuditCursor()
	if err != nil {
		t.Fatalf("unexpected error creating cursor: %v", err)
	}
	defer cursor.Release()

	var count int
	var prev wire.OutPoint
	for cursor.Next() {
		outpoint := cursor.Outpoint()
		if count > 0 {
			cmp := bytes.Compare(prev.Hash[:], outpoint.Hash[:])
			if cmp > 0 || (cmp == 0 && prev.Index >= outpoint.Index) {
				t.Fatalf("cursor out of order: %v before %v", prev, outpoint)
			}
		}
		prev = outpoint
		count++
	}
	if err := cursor.Error(); err != nil {
		t.Fatalf("unexpected cursor error: %v", err)
	}
	if count != len(outpoints) {
		t.Fatalf("unexpected number of coins -- got %d, want %d", count,
			len(outpoints))
	}
}

// TestAuditThroughStore ensures auditing the deterministic fixture set
// through a real store produces the same pinned commitment hash as the audit
// package's own fixture.
func TestAuditThroughStore(t *testing.T) {
	store := newTestStore(t)

	bestHash := mustHash("000000000000437482b6d47f82f374cde539440ddb108b0a76886f0d87d126b9")
	txA := mustHash("1cbea64ff18f0b34474a61c0f1b4b73c7fcca9febbf4966babf28d152e970e81")
	txB := mustHash("8d2d27f2a47f1b05f7f9c8353f07ba42915176d7e3d3b810debc8ab9f0a70dae")
	adds := map[wire.OutPoint]*utxoaudit.Coin{
		{Hash: txA, Index: 0}: {
			Height:     100,
			IsCoinBase: true,
			Value:      1000000000,
			PkScript:   hexToBytes("76a914000000000000000000000000000000000000000088ac"),
		},
		{Hash: txA, Index: 1}: {
			Height:     100,
			IsCoinBase: true,
			Value:      500000000,
			PkScript:   hexToBytes("76a914111111111111111111111111111111111111111188ac"),
		},
		{Hash: txB, Index: 0}: {
			Height:   100,
			Value:    250000000,
			PkScript: hexToBytes("76a914222222222222222222222222222222222222222288ac"),
		},
	}
	if err := store.Commit(adds, nil, &bestHash); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}

	src, err := store.AuditSource()
	if err != nil {
		t.Fatalf("unexpected error creating audit source: %v", err)
	}
	defer src.Release()

	digest, err := utxoaudit.Audit(src, func(*chainhash.Hash) (int64, error) {
		return 100, nil
	})
	if err != nil {
		t.Fatalf("unexpected audit error: %v", err)
	}
	if digest.Transactions != 2 || digest.TxOuts != 3 ||
		digest.TotalAmount != 1750000000 {

		t.Fatalf("unexpected audit statistics: %+v", digest)
	}
	wantHash := mustHash("12a98841ddd188daff1b71caa72d38bec0c6c0e20ce561d68b6535f2f2ac8042")
	if digest.SerializedHash != wantHash {
		t.Fatalf("unexpected commitment hash -- got %v, want %v",
			digest.SerializedHash, wantHash)
	}
}

// TestAuditSourceSnapshot ensures an audit source provides a consistent view
// of the coin set that is unaffected by mutations made after its creation.
func TestAuditSourceSnapshot(t *testing.T) {
	store := newTestStore(t)

	outpoint := wire.OutPoint{Hash: mustHash("01"), Index: 0}
	coin := utxoaudit.Coin{Height: 10, Value: 5000, PkScript: []byte{0x51}}
	if err := store.PutCoin(&outpoint, &coin); err != nil {
		t.Fatalf("unexpected error storing coin: %v", err)
	}
	firstBest := mustHash("0b")
	if err := store.Commit(nil, nil, &firstBest); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}

	src, err := store.AuditSource()
	if err != nil {
		t.Fatalf("unexpected error creating audit source: %v", err)
	}
	defer src.Release()

	// Mutate the store after the snapshot was taken.
	other := wire.OutPoint{Hash: mustHash("02"), Index: 0}
	if err := store.PutCoin(&other, &coin); err != nil {
		t.Fatalf("unexpected error storing coin: %v", err)
	}
	if err := store.RemoveCoin(&outpoint); err != nil {
		t.Fatalf("unexpected error removing coin: %v", err)
	}
	secondBest := mustHash("0c")
	if err := store.Commit(nil, nil, &secondBest); err != nil {
		t.Fatalf("unexpected commit error: %v", err)
	}

	// The snapshot must still observe the original best hash and coin set.
	gotBest, err := src.BestHash()
	if err != nil {
		t.Fatalf("unexpected error fetching snapshot best hash: %v", err)
	}
	if gotBest != firstBest {
		t.Fatalf("snapshot best hash changed -- got %v, want %v", gotBest,
			firstBest)
	}

	cursor, err := src.AuditCursor()
	if err != nil {
		t.Fatalf("unexpected error creating cursor: %v", err)
	}
	defer cursor.Release()
	var seen []wire.OutPoint
	for cursor.Next() {
		seen = append(seen, cursor.Outpoint())
	}
	if err := cursor.Error(); err != nil {
		t.Fatalf("unexpected cursor error: %v", err)
	}
	if len(seen) != 1 || seen[0] != outpoint {
		t.Fatalf("snapshot coin set changed -- got %v", seen)
	}
}

// TestCursorCorruptRecord ensures a malformed coin record terminates
// iteration with a store corruption error.
func TestCursorCorruptRecord(t *testing.T) {
	store := newTestStore(t)

	// Write a record that is too short to contain a value directly to the
	// underlying database.
	outpoint := wire.OutPoint{Hash: mustHash("01"), Index: 0}
	if err := store.db.Put(coinKey(&outpoint), []byte{0x00}, nil); err != nil {
		t.Fatalf("unexpected error writing raw record: %v", err)
	}

	src, err := store.AuditSource()
	if err != nil {
		t.Fatalf("unexpected error creating audit source: %v", err)
	}
	defer src.Release()
	cursor, err := src.AuditCursor()
	if err != nil {
		t.Fatalf("unexpected error creating cursor: %v", err)
	}
	defer cursor.Release()

	if cursor.Next() {
		t.Fatal("cursor advanced over corrupt record")
	}
	if err := cursor.Error(); !errors.Is(err, ErrStoreCorruption) {
		t.Fatalf("unexpected error kind -- got %v, want %v", err,
			ErrStoreCorruption)
	}
}

// TestCoinSerialization ensures the coin record serialization round trips for
// a variety of coins and rejects truncated records.
func TestCoinSerialization(t *testing.T) {
	tests := []struct {
		name string
		coin utxoaudit.Coin
	}{{
		name: "ordinary output",
		coin: utxoaudit.Coin{
			Height:   100,
			Value:    250000000,
			PkScript: hexToBytes("76a914222222222222222222222222222222222222222288ac"),
		},
	}, {
		name: "coinbase output",
		coin: utxoaudit.Coin{
			Height:     1,
			IsCoinBase: true,
			Value:      1000000000,
			PkScript:   hexToBytes("76a914000000000000000000000000000000000000000088ac"),
		},
	}, {
		name: "coinstake output",
		coin: utxoaudit.Coin{
			Height:      250000,
			IsCoinStake: true,
			Value:       1,
			PkScript:    []byte{0x51},
		},
	}, {
		name: "zero value empty script",
		coin: utxoaudit.Coin{
			Height: 0,
			Value:  0,
		},
	}}

	for _, test := range tests {
		serialized := serializeCoin(&test.coin)
		got, err := deserializeCoin(serialized)
		if err != nil {
			t.Errorf("%s: unexpected deserialize error: %v", test.name, err)
			continue
		}
		if got.Height != test.coin.Height ||
			got.IsCoinBase != test.coin.IsCoinBase ||
			got.IsCoinStake != test.coin.IsCoinStake ||
			got.Value != test.coin.Value ||
			!bytes.Equal(got.PkScript, test.coin.PkScript) {

			t.Errorf("%s: round trip mismatch -- got %+v, want %+v",
				test.name, got, test.coin)
		}
	}

	// A record that ends after the code is rejected.
	if _, err := deserializeCoin([]byte{0x00}); !errors.Is(err, ErrStoreCorruption) {
		t.Fatalf("unexpected error for truncated record -- got %v, want %v",
			err, ErrStoreCorruption)
	}
}
