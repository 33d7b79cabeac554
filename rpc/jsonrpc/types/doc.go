// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package types implements concrete types for marshalling to and from the
tesserad JSON-RPC commands, return values, and notifications.

The types are registered with the dcrjson package on init, so the generic
command marshalling in that package handles them transparently.
*/
package types
