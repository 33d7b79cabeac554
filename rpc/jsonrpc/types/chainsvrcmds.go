// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// the chain server.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

// GetBestBlockHashCmd defines the getbestblockhash JSON-RPC command.
type GetBestBlockHashCmd struct{}

// NewGetBestBlockHashCmd returns a new instance which can be used to issue a
// getbestblockhash JSON-RPC command.
func NewGetBestBlockHashCmd() *GetBestBlockHashCmd {
	return &GetBestBlockHashCmd{}
}

// GetBlockChainInfoCmd defines the getblockchaininfo JSON-RPC command.
type GetBlockChainInfoCmd struct{}

// NewGetBlockChainInfoCmd returns a new instance which can be used to issue a
// getblockchaininfo JSON-RPC command.
func NewGetBlockChainInfoCmd() *GetBlockChainInfoCmd {
	return &GetBlockChainInfoCmd{}
}

// GetBlockCountCmd defines the getblockcount JSON-RPC command.
type GetBlockCountCmd struct{}

// NewGetBlockCountCmd returns a new instance which can be used to issue a
// getblockcount JSON-RPC command.
func NewGetBlockCountCmd() *GetBlockCountCmd {
	return &GetBlockCountCmd{}
}

// GetBlockHashCmd defines the getblockhash JSON-RPC command.
type GetBlockHashCmd struct {
	Index int64
}

// NewGetBlockHashCmd returns a new instance which can be used to issue a
// getblockhash JSON-RPC command.
func NewGetBlockHashCmd(index int64) *GetBlockHashCmd {
	return &GetBlockHashCmd{
		Index: index,
	}
}

// GetChainTipsCmd defines the getchaintips JSON-RPC command.
type GetChainTipsCmd struct{}

// NewGetChainTipsCmd returns a new instance which can be used to issue a
// getchaintips JSON-RPC command.
func NewGetChainTipsCmd() *GetChainTipsCmd {
	return &GetChainTipsCmd{}
}

// GetTxOutSetInfoCmd defines the gettxoutsetinfo JSON-RPC command.
type GetTxOutSetInfoCmd struct{}

// NewGetTxOutSetInfoCmd returns a new instance which can be used to issue a
// gettxoutsetinfo JSON-RPC command.
func NewGetTxOutSetInfoCmd() *GetTxOutSetInfoCmd {
	return &GetTxOutSetInfoCmd{}
}

// StopCmd defines the stop JSON-RPC command.
type StopCmd struct{}

// NewStopCmd returns a new instance which can be used to issue a stop
// JSON-RPC command.
func NewStopCmd() *StopCmd {
	return &StopCmd{}
}

// VersionCmd defines the version JSON-RPC command.
type VersionCmd struct{}

// NewVersionCmd returns a new instance which can be used to issue a version
// JSON-RPC command.
func NewVersionCmd() *VersionCmd { return new(VersionCmd) }

// WaitForNewBlockCmd defines the waitfornewblock JSON-RPC command.
type WaitForNewBlockCmd struct {
	Timeout *int64 `jsonrpcdefault:"0"`
}

// NewWaitForNewBlockCmd returns a new instance which can be used to issue a
// waitfornewblock JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewWaitForNewBlockCmd(timeout *int64) *WaitForNewBlockCmd {
	return &WaitForNewBlockCmd{
		Timeout: timeout,
	}
}

// WaitForBlockCmd defines the waitforblock JSON-RPC command.
type WaitForBlockCmd struct {
	BlockHash string
	Timeout   *int64 `jsonrpcdefault:"0"`
}

// NewWaitForBlockCmd returns a new instance which can be used to issue a
// waitforblock JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewWaitForBlockCmd(blockHash string, timeout *int64) *WaitForBlockCmd {
	return &WaitForBlockCmd{
		BlockHash: blockHash,
		Timeout:   timeout,
	}
}

// WaitForBlockHeightCmd defines the waitforblockheight JSON-RPC command.
type WaitForBlockHeightCmd struct {
	Height  int64
	Timeout *int64 `jsonrpcdefault:"0"`
}

// NewWaitForBlockHeightCmd returns a new instance which can be used to issue
// a waitforblockheight JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewWaitForBlockHeightCmd(height int64, timeout *int64) *WaitForBlockHeightCmd {
	return &WaitForBlockHeightCmd{
		Height:  height,
		Timeout: timeout,
	}
}

func init() {
	// No special flags for commands in this file.
	flags := dcrjson.UsageFlag(0)

	dcrjson.MustRegister(Method("getbestblockhash"), (*GetBestBlockHashCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblockchaininfo"), (*GetBlockChainInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblockcount"), (*GetBlockCountCmd)(nil), flags)
	dcrjson.MustRegister(Method("getblockhash"), (*GetBlockHashCmd)(nil), flags)
	dcrjson.MustRegister(Method("getchaintips"), (*GetChainTipsCmd)(nil), flags)
	dcrjson.MustRegister(Method("gettxoutsetinfo"), (*GetTxOutSetInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("stop"), (*StopCmd)(nil), flags)
	dcrjson.MustRegister(Method("version"), (*VersionCmd)(nil), flags)
	dcrjson.MustRegister(Method("waitforblock"), (*WaitForBlockCmd)(nil), flags)
	dcrjson.MustRegister(Method("waitforblockheight"), (*WaitForBlockHeightCmd)(nil), flags)
	dcrjson.MustRegister(Method("waitfornewblock"), (*WaitForNewBlockCmd)(nil), flags)
}
