// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC websocket notifications that
// are supported by the chain server.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

const (
	// TipChangedNtfnMethod is the method used for notifications from the
	// chain server that the best chain tip has changed.
	TipChangedNtfnMethod Method = "tipchanged"
)

// TipChangedNtfn defines the tipchanged JSON-RPC notification.
type TipChangedNtfn struct {
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
}

// NewTipChangedNtfn returns a new instance which can be used to issue a
// tipchanged JSON-RPC notification.
func NewTipChangedNtfn(hash string, height int64) *TipChangedNtfn {
	return &TipChangedNtfn{
		Hash:   hash,
		Height: height,
	}
}

func init() {
	// The commands in this file are only usable by websockets and are
	// notifications.
	flags := dcrjson.UFWebsocketOnly | dcrjson.UFNotification

	dcrjson.MustRegister(TipChangedNtfnMethod, (*TipChangedNtfn)(nil), flags)
}
