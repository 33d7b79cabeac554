// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// chainhashZero is the zero value for a chainhash.Hash and is shared by the
// per-network genesis block definitions.
var chainhashZero chainhash.Hash

// NoActivationHeight is the sentinel activation height for a network upgrade
// that has not been assigned an activation height on a given network.  Such
// upgrades are undeployed and are hidden from status reporting entirely.
const NoActivationHeight = int64(-1)

// NetworkUpgrade describes a consensus rule change that activates at a fixed
// block height.
type NetworkUpgrade struct {
	// Name is the stable identifier for the upgrade.  It is unique across
	// all networks.
	Name string

	// ActivationHeight is the height at which the upgrade rules become
	// effective, or NoActivationHeight when the upgrade is not deployed on
	// the network.
	ActivationHeight int64

	// Description is a human-readable summary of the rule change.
	Description string
}

// Params defines a Tessera network by its parameters.  These parameters may
// be used by applications to differentiate networks as well as addresses and
// keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.CurrencyNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DefaultRPCPort defines the default RPC port for the network.
	DefaultRPCPort string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock wire.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash chainhash.Hash

	// TargetTimePerBlock defines the desired amount of time to generate each
	// block.
	TargetTimePerBlock int64 // seconds

	// Upgrades defines the consensus rule changes for the network, ordered
	// by activation height with undeployed upgrades last.  The set of names
	// is identical across networks; only the activation heights differ.
	Upgrades []NetworkUpgrade
}

// UpgradeByName returns the network upgrade with the provided name or nil
// when no upgrade with that name exists.
func (p *Params) UpgradeByName(name string) *NetworkUpgrade {
	for i := range p.Upgrades {
		if p.Upgrades[i].Name == name {
			return &p.Upgrades[i]
		}
	}
	return nil
}

// These upgrade names identify the consensus rule changes shared by all
// networks.  The activation heights are per network.
const (
	// UpgradePoS is the switch from proof of work to proof of stake block
	// production.
	UpgradePoS = "pos"

	// UpgradeStakeModV2 is the second version of the stake modifier
	// calculation which closes the modifier grinding vector.
	UpgradeStakeModV2 = "stake-modifier-v2"

	// UpgradeTimeProtoV2 is the second version of the block time protocol
	// which tightens the allowed clock drift.
	UpgradeTimeProtoV2 = "time-protocol-v2"

	// UpgradeMsgSigV2 is the second version of the message signing scheme.
	// It is not yet deployed on the main network.
	UpgradeMsgSigV2 = "message-signing-v2"
)
