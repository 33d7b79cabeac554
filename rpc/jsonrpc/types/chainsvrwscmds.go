// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// the chain server, but are only available via websockets.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

// AuthenticateCmd defines the authenticate JSON-RPC command.
type AuthenticateCmd struct {
	Username   string
	Passphrase string
}

// NewAuthenticateCmd returns a new instance which can be used to issue an
// authenticate JSON-RPC command.
func NewAuthenticateCmd(username, passphrase string) *AuthenticateCmd {
	return &AuthenticateCmd{
		Username:   username,
		Passphrase: passphrase,
	}
}

// NotifyTipChangeCmd defines the notifytipchange JSON-RPC command.
type NotifyTipChangeCmd struct{}

// NewNotifyTipChangeCmd returns a new instance which can be used to issue a
// notifytipchange JSON-RPC command.
func NewNotifyTipChangeCmd() *NotifyTipChangeCmd {
	return &NotifyTipChangeCmd{}
}

// SessionCmd defines the session JSON-RPC command.
type SessionCmd struct{}

// NewSessionCmd returns a new instance which can be used to issue a session
// JSON-RPC command.
func NewSessionCmd() *SessionCmd {
	return &SessionCmd{}
}

// StopNotifyTipChangeCmd defines the stopnotifytipchange JSON-RPC command.
type StopNotifyTipChangeCmd struct{}

// NewStopNotifyTipChangeCmd returns a new instance which can be used to issue
// a stopnotifytipchange JSON-RPC command.
func NewStopNotifyTipChangeCmd() *StopNotifyTipChangeCmd {
	return &StopNotifyTipChangeCmd{}
}

func init() {
	// The commands in this file are only usable by websockets.
	flags := dcrjson.UFWebsocketOnly

	dcrjson.MustRegister(Method("authenticate"), (*AuthenticateCmd)(nil), flags)
	dcrjson.MustRegister(Method("notifytipchange"), (*NotifyTipChangeCmd)(nil), flags)
	dcrjson.MustRegister(Method("session"), (*SessionCmd)(nil), flags)
	dcrjson.MustRegister(Method("stopnotifytipchange"), (*StopNotifyTipChangeCmd)(nil), flags)
}
