// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tessernet/tesserad/utxoaudit"
)

const (
	// currentDatabaseVersion indicates the current coin database version.
	currentDatabaseVersion = 1

	// coinDbName is the name of the coin database.
	coinDbName = "coindb"
)

// -----------------------------------------------------------------------------
// keySet represents a top level key set in the coin database.  All keys start
// with a serialized prefix consisting of the key set and version of that key
// set as follows:
//
//	<key set><version>
//
//	Key        Value    Size      Description
//	key set    uint8    1 byte    The key set identifier, as defined below
//	version    uint8    1 byte    The version of the key set
//
// -----------------------------------------------------------------------------
type keySet uint8

// These constants define the available coin database key sets.
const (
	keySetDbInfo keySet = iota + 1 // 1
	keySetState                    // 2
	keySetCoins                    // 3
)

// keySetNoVersion defines the value to be used for the version of key sets
// where versioning does not apply.
const keySetNoVersion = 0

// keySetVersions defines the current version for each coin database key set.
var keySetVersions = map[keySet]uint8{
	// Note: The database info key set must remain at fixed keys so that older
	// software can properly load the database versioning info, detect newer
	// versions, and throw an error.
	keySetDbInfo: keySetNoVersion,
	keySetState:  1,
	keySetCoins:  1,
}

// These variables define the serialized prefix for each key set and
// associated version.
var (
	// prefixDbInfo is the prefix for all keys in the database info key set.
	prefixDbInfo = []byte{byte(keySetDbInfo), keySetVersions[keySetDbInfo]}

	// prefixState is the prefix for all keys in the state key set.
	prefixState = []byte{byte(keySetState), keySetVersions[keySetState]}

	// prefixCoins is the prefix for all keys in the coins key set.
	prefixCoins = []byte{byte(keySetCoins), keySetVersions[keySetCoins]}
)

// prefixedKey returns a new byte slice that consists of the provided prefix
// appended with the provided key.
func prefixedKey(prefix []byte, key []byte) []byte {
	lenPrefix := len(prefix)
	prefixedKey := make([]byte, lenPrefix+len(key))
	_ = copy(prefixedKey, prefix)
	_ = copy(prefixedKey[lenPrefix:], key)
	return prefixedKey
}

// These variables define keys that are part of the database info and state
// key sets.
var (
	// dbInfoVersionKey is the database key used to house the database
	// version.
	dbInfoVersionKey = prefixedKey(prefixDbInfo, []byte("version"))

	// dbInfoCreatedKey is the database key used to house the date the
	// database was created.
	dbInfoCreatedKey = prefixedKey(prefixDbInfo, []byte("created"))

	// stateBestHashKey is the database key used to house the hash of the
	// block the coin set is current with respect to.
	stateBestHashKey = prefixedKey(prefixState, []byte("besthash"))
)

// -----------------------------------------------------------------------------
// Each coin is keyed by its outpoint serialized as follows under the coins
// key set:
//
//	<tx hash><output index>
//
//	Field         Type             Size
//	tx hash       chainhash.Hash   32 bytes
//	output index  uint32           4 bytes (big endian)
//
// The hash uses its raw byte order and the index is big endian so the natural
// leveldb key order yields coins in ascending (tx hash, output index) order,
// which is the iteration order the audit serialization relies on.
//
// The serialized value format is:
//
//	<code><value><script>
//
//	Field    Type     Size
//	code     VLQ      variable   block height << 2 | coinbase << 1 | coinstake
//	value    VLQ      variable   output value in atoms
//	script   []byte   variable   public key script (remainder of the record)
// -----------------------------------------------------------------------------

// coinKeySize is the size of a serialized coin key without its key set
// prefix.
const coinKeySize = chainhash.HashSize + 4

// coinKey returns the serialized database key for the provided outpoint.
func coinKey(outpoint *wire.OutPoint) []byte {
	key := make([]byte, len(prefixCoins)+coinKeySize)
	offset := copy(key, prefixCoins)
	offset += copy(key[offset:], outpoint.Hash[:])
	binary.BigEndian.PutUint32(key[offset:], outpoint.Index)
	return key
}

// decodeCoinKey decodes the provided full database key, including the key set
// prefix, into an outpoint.
func decodeCoinKey(key []byte) (wire.OutPoint, error) {
	var outpoint wire.OutPoint
	if len(key) != len(prefixCoins)+coinKeySize {
		str := fmt.Sprintf("malformed coin key of length %d", len(key))
		return outpoint, contextError(ErrStoreCorruption, str)
	}
	offset := len(prefixCoins)
	copy(outpoint.Hash[:], key[offset:offset+chainhash.HashSize])
	outpoint.Index = binary.BigEndian.Uint32(key[offset+chainhash.HashSize:])
	return outpoint, nil
}

// serializeCoin serializes the provided coin into the format described above.
func serializeCoin(coin *utxoaudit.Coin) []byte {
	code := uint64(coin.Height) << 2
	if coin.IsCoinBase {
		code |= 2
	}
	if coin.IsCoinStake {
		code |= 1
	}

	size := serializeSizeVLQ(code) + serializeSizeVLQ(uint64(coin.Value)) +
		len(coin.PkScript)
	serialized := make([]byte, size)
	offset := putVLQ(serialized, code)
	offset += putVLQ(serialized[offset:], uint64(coin.Value))
	copy(serialized[offset:], coin.PkScript)
	return serialized
}

// deserializeCoin decodes the provided serialized coin record.
func deserializeCoin(serialized []byte) (utxoaudit.Coin, error) {
	var coin utxoaudit.Coin

	code, offset := deserializeVLQ(serialized)
	if offset >= len(serialized) {
		return coin, contextError(ErrStoreCorruption,
			"coin record truncated after code")
	}
	value, bytesRead := deserializeVLQ(serialized[offset:])
	offset += bytesRead

	coin.Height = int64(code >> 2)
	coin.IsCoinBase = code&2 != 0
	coin.IsCoinStake = code&1 != 0
	coin.Value = int64(value)
	if offset < len(serialized) {
		coin.PkScript = make([]byte, len(serialized)-offset)
		copy(coin.PkScript, serialized[offset:])
	}
	return coin, nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// initDbInfo writes the versioning and creation information for a freshly
// created database.
func initDbInfo(db *leveldb.DB) error {
	var version [4]byte
	binary.BigEndian.PutUint32(version[:], currentDatabaseVersion)
	var created [8]byte
	binary.BigEndian.PutUint64(created[:], uint64(time.Now().Unix()))

	batch := new(leveldb.Batch)
	batch.Put(dbInfoVersionKey, version[:])
	batch.Put(dbInfoCreatedKey, created[:])
	if err := db.Write(batch, nil); err != nil {
		return convertLdbErr(err, "failed to write database info")
	}
	return nil
}

// LoadDB loads (or creates when needed) the coin database and returns a
// handle to it.
func LoadDB(dataDir string) (*leveldb.DB, error) {
	dbPath := filepath.Join(dataDir, coinDbName)

	// Ensure the full path to the database exists.
	dbExists := fileExists(dbPath)
	if !dbExists {
		// The error can be ignored here since the call to leveldb.OpenFile
		// will fail if the directory couldn't be created.
		//
		// NOTE: It is important that os.MkdirAll is only called if the
		// database does not exist.  The documentation states that os.MkdirAll
		// does nothing if the directory already exists.  However, this has
		// proven not to be the case on some less supported OSes and can lead
		// to creating new directories with the wrong permissions or otherwise
		// lead to hard to diagnose issues.
		_ = os.MkdirAll(dataDir, 0700)
	}

	// Open the database (will create it if needed).
	log.Infof("Loading coin database from '%s'", dbPath)
	opts := opt.Options{
		ErrorIfExist: !dbExists,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open coin database")
	}

	if !dbExists {
		if err := initDbInfo(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	log.Info("Coin database loaded")

	return db, nil
}

// Store provides persistent storage for the unspent transaction output set
// using an underlying leveldb database instance.
//
// All methods are safe for concurrent access.
type Store struct {
	// db is the database that contains the coin set.  It is set when the
	// instance is created and is not changed afterward.
	db *leveldb.DB
}

// New returns a new coin store that uses the provided leveldb database for
// its underlying storage.
func New(db *leveldb.DB) *Store {
	return &Store{
		db: db,
	}
}

// Open loads (or creates when needed) the coin database in the provided data
// directory and returns a store backed by it.
func Open(dataDir string) (*Store, error) {
	db, err := LoadDB(dataDir)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close coin database")
	}
	return nil
}

// get returns the value for the given key from the database.  It returns nil
// for both the value and the error if the database does not contain the key.
func (s *Store) get(key []byte) ([]byte, error) {
	serialized, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		str := fmt.Sprintf("failed to get key %x from coin database", key)
		return nil, convertLdbErr(err, str)
	}
	return serialized, nil
}

// FetchCoin returns the coin associated with the provided outpoint.
//
// When there is no entry for the provided outpoint, nil will be returned for
// both the coin and the error.
func (s *Store) FetchCoin(outpoint *wire.OutPoint) (*utxoaudit.Coin, error) {
	serialized, err := s.get(coinKey(outpoint))
	if err != nil {
		return nil, err
	}
	if serialized == nil {
		return nil, nil
	}

	coin, err := deserializeCoin(serialized)
	if err != nil {
		str := fmt.Sprintf("corrupt coin record for %v: %v", outpoint, err)
		return nil, contextError(ErrStoreCorruption, str)
	}
	return &coin, nil
}

// PutCoin stores the provided coin keyed by its outpoint.
func (s *Store) PutCoin(outpoint *wire.OutPoint, coin *utxoaudit.Coin) error {
	err := s.db.Put(coinKey(outpoint), serializeCoin(coin), nil)
	if err != nil {
		str := fmt.Sprintf("failed to store coin for %v", outpoint)
		return convertLdbErr(err, str)
	}
	return nil
}

// RemoveCoin removes the coin associated with the provided outpoint.
// Removing a coin that does not exist is not an error.
func (s *Store) RemoveCoin(outpoint *wire.OutPoint) error {
	if err := s.db.Delete(coinKey(outpoint), nil); err != nil {
		str := fmt.Sprintf("failed to remove coin for %v", outpoint)
		return convertLdbErr(err, str)
	}
	return nil
}

// BestHash returns the hash of the block the coin set is current with respect
// to.  The zero hash is returned for a freshly created store that has not
// committed any state yet.
func (s *Store) BestHash() (chainhash.Hash, error) {
	var hash chainhash.Hash
	serialized, err := s.get(stateBestHashKey)
	if err != nil {
		return hash, err
	}
	if serialized == nil {
		return hash, nil
	}
	if len(serialized) != chainhash.HashSize {
		str := fmt.Sprintf("malformed best hash record of length %d",
			len(serialized))
		return hash, contextError(ErrStoreCorruption, str)
	}
	copy(hash[:], serialized)
	return hash, nil
}

// Commit atomically applies the provided coin additions and removals along
// with the new best block hash.  This is the integration point the
// validation engine uses when connecting or disconnecting a block so the
// stored set and the best hash always agree.
func (s *Store) Commit(adds map[wire.OutPoint]*utxoaudit.Coin, removes []wire.OutPoint, bestHash *chainhash.Hash) error {
	batch := new(leveldb.Batch)
	for outpoint, coin := range adds {
		batch.Put(coinKey(&outpoint), serializeCoin(coin))
	}
	for i := range removes {
		batch.Delete(coinKey(&removes[i]))
	}
	batch.Put(stateBestHashKey, bestHash[:])

	if err := s.db.Write(batch, nil); err != nil {
		return convertLdbErr(err, "failed to commit coin set changes")
	}

	log.Debugf("Committed %d coin additions and %d removals for block %s",
		len(adds), len(removes), bestHash)
	return nil
}

// SizeEstimate returns an approximation of the store's on-disk footprint in
// bytes.
func (s *Store) SizeEstimate() (int64, error) {
	sizes, err := s.db.SizeOf([]util.Range{*util.BytesPrefix(prefixCoins)})
	if err != nil {
		return 0, convertLdbErr(err, "failed to calculate database size")
	}
	return sizes.Sum(), nil
}

// AuditSource provides a snapshot-consistent view of the coin set that
// implements the audit source contract.  The best hash and the set iterated
// by cursors both come from the same snapshot, so concurrent mutations of the
// store do not affect an audit in progress.
//
// The source must be released after use, by calling the Release method.
type AuditSource struct {
	db   *leveldb.DB
	snap *leveldb.Snapshot
}

// Ensure AuditSource implements the utxoaudit.Source interface.
var _ utxoaudit.Source = (*AuditSource)(nil)

// AuditSource returns a snapshot-consistent audit source over the current
// contents of the store.
func (s *Store) AuditSource() (*AuditSource, error) {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, convertLdbErr(err, "failed to create audit snapshot")
	}
	return &AuditSource{db: s.db, snap: snap}, nil
}

// BestHash returns the hash of the block the snapshot of the coin set is
// current with respect to.
func (a *AuditSource) BestHash() (chainhash.Hash, error) {
	var hash chainhash.Hash
	serialized, err := a.snap.Get(stateBestHashKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return hash, nil
		}
		return hash, convertLdbErr(err, "failed to fetch snapshot best hash")
	}
	if len(serialized) != chainhash.HashSize {
		str := fmt.Sprintf("malformed best hash record of length %d",
			len(serialized))
		return hash, contextError(ErrStoreCorruption, str)
	}
	copy(hash[:], serialized)
	return hash, nil
}

// AuditCursor returns a cursor over the snapshot of the coin set in ascending
// (transaction hash, output index) order.
//
// The cursor must be released after use, by calling the Release method.
func (a *AuditSource) AuditCursor() (utxoaudit.Cursor, error) {
	iter := a.snap.NewIterator(util.BytesPrefix(prefixCoins), nil)
	return &auditCursor{iter: iter}, nil
}

// SizeEstimate returns an approximation of the store's on-disk footprint in
// bytes.
func (a *AuditSource) SizeEstimate() (int64, error) {
	sizes, err := a.db.SizeOf([]util.Range{*util.BytesPrefix(prefixCoins)})
	if err != nil {
		return 0, convertLdbErr(err, "failed to calculate database size")
	}
	return sizes.Sum(), nil
}

// Release releases the underlying snapshot.  It must be called exactly once
// when the source is no longer needed.
func (a *AuditSource) Release() {
	a.snap.Release()
}

// auditCursor implements the audit cursor contract over a leveldb iterator,
// decoding each key and record as the cursor advances.
type auditCursor struct {
	iter     iterator.Iterator
	outpoint wire.OutPoint
	coin     utxoaudit.Coin
	err      error
}

// Ensure auditCursor implements the utxoaudit.Cursor interface.
var _ utxoaudit.Cursor = (*auditCursor)(nil)

// Next advances the cursor to the next coin.  It returns false once the
// cursor is exhausted or an error occurs.
func (c *auditCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.iter.Next() {
		return false
	}

	outpoint, err := decodeCoinKey(c.iter.Key())
	if err != nil {
		c.err = err
		return false
	}
	coin, err := deserializeCoin(c.iter.Value())
	if err != nil {
		c.err = err
		return false
	}

	c.outpoint = outpoint
	c.coin = coin
	return true
}

// Outpoint returns the outpoint of the coin the cursor is currently
// positioned at.
func (c *auditCursor) Outpoint() wire.OutPoint {
	return c.outpoint
}

// Coin returns the details of the coin the cursor is currently positioned at.
func (c *auditCursor) Coin() utxoaudit.Coin {
	return c.coin
}

// Error returns the first error encountered during iteration or nil when
// iteration completed successfully.
func (c *auditCursor) Error() error {
	if c.err != nil {
		return c.err
	}
	if err := c.iter.Error(); err != nil {
		return convertLdbErr(err, "coin iteration failed")
	}
	return nil
}

// Release releases the underlying iterator.
func (c *auditCursor) Release() {
	c.iter.Release()
}
