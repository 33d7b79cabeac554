// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC results that are returned by
// the chain server.

package types

// AgendaInfo provides the information about the state of a single consensus
// upgrade as returned by getblockchaininfo.
type AgendaInfo struct {
	Status           string `json:"status"`
	ActivationHeight int64  `json:"activationheight"`
	Info             string `json:"info,omitempty"`
}

// SoftForkDescription describes the legacy projection of a consensus upgrade
// onto its historical block version as returned by getblockchaininfo.
type SoftForkDescription struct {
	ID      string `json:"id"`
	Version int32  `json:"version"`
	Active  bool   `json:"active"`
}

// GetBlockChainInfoResult models the data returned from the getblockchaininfo
// command.
type GetBlockChainInfoResult struct {
	Chain         string                `json:"chain"`
	Blocks        int64                 `json:"blocks"`
	BestBlockHash string                `json:"bestblockhash"`
	Upgrades      map[string]AgendaInfo `json:"upgrades"`
	SoftForks     []SoftForkDescription `json:"softforks"`
}

// GetChainTipsResult models the data returned from the getchaintips command.
type GetChainTipsResult struct {
	Height    int64  `json:"height"`
	Hash      string `json:"hash"`
	BranchLen int64  `json:"branchlen"`
	Status    string `json:"status"`
}

// GetTxOutSetInfoResult models the data returned from the gettxoutsetinfo
// command.
type GetTxOutSetInfoResult struct {
	Height         int64  `json:"height"`
	BestBlock      string `json:"bestblock"`
	Transactions   int64  `json:"transactions"`
	TxOuts         int64  `json:"txouts"`
	SerializedHash string `json:"serializedhash"`
	DiskSize       int64  `json:"disksize"`
	TotalAmount    int64  `json:"totalamount"`
}

// SessionResult models the data from the session command.
type SessionResult struct {
	SessionID uint64 `json:"sessionid"`
}

// VersionResult models objects included in the version response.  In the
// actual result, these objects are keyed by the program or API name.
type VersionResult struct {
	VersionString string `json:"versionstring"`
	Major         uint32 `json:"major"`
	Minor         uint32 `json:"minor"`
	Patch         uint32 `json:"patch"`
	Prerelease    string `json:"prerelease"`
	BuildMetadata string `json:"buildmetadata"`
}

// WaitForBlockResult models the data returned from the waitfornewblock,
// waitforblock, and waitforblockheight commands.  It reports the best chain
// tip as of the time the wait concluded.
type WaitForBlockResult struct {
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
}
