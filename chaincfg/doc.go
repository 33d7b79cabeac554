// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines chain configuration parameters for the supported
// Tessera networks.
//
// In addition to the main network, which is intended for the transfer of
// monetary value, there is an independent test network provided for
// development purposes.  Rather than duplicating network-specific details
// throughout the rest of the code, callers accept a *Params instance from
// this package and use it to make chain-dependent decisions such as which
// consensus upgrades are in effect at a given height.
package chaincfg
