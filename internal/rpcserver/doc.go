// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rpcserver implements the JSON-RPC API server for tesserad.

The server exposes the chain state introspection surface of the node over
both standard HTTP POST requests and websocket connections.  This includes
queries for the best chain tip, the known chain tip topology, the activation
status of consensus rule changes, and audits over the set of unspent
transaction outputs, along with long-polling commands that block until the
best chain tip changes.

The collaborators the handlers rely on are described by interfaces in this
package so the various systems the RPC server interacts with remain loosely
coupled.
*/
package rpcserver
