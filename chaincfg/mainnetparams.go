// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/decred/dcrd/wire"
)

// MainNet represents the main Tessera network.
const MainNet wire.CurrencyNet = 0xa6f1d84b

// mainNetGenesisBlock defines the genesis block of the block chain which
// serves as the public transaction ledger for the main network.
var mainNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:      1,
		PrevBlock:    chainhashZero,
		MerkleRoot:   chainhashZero,
		Bits:         0x1d00ffff,
		SBits:        2 * 1e8,
		Height:       0,
		Timestamp:    time.Unix(1702512000, 0), // 2023-12-14 00:00:00 +0000 UTC
		Nonce:        0x18aea41a,
		StakeVersion: 0,
	},
}

// MainNetParams returns the network parameters for the main Tessera network.
func MainNetParams() *Params {
	genesisHash := mainNetGenesisBlock.BlockHash()
	return &Params{
		Name:               "mainnet",
		Net:                MainNet,
		DefaultPort:        "9318",
		DefaultRPCPort:     "9319",
		GenesisBlock:       mainNetGenesisBlock,
		GenesisHash:        genesisHash,
		TargetTimePerBlock: 60,
		Upgrades: []NetworkUpgrade{{
			Name:             UpgradePoS,
			ActivationHeight: 1001,
			Description:      "Switch block production to proof of stake",
		}, {
			Name:             UpgradeStakeModV2,
			ActivationHeight: 120000,
			Description:      "Version 2 of the stake modifier calculation",
		}, {
			Name:             UpgradeTimeProtoV2,
			ActivationHeight: 250000,
			Description:      "Version 2 of the block time protocol",
		}, {
			Name:             UpgradeMsgSigV2,
			ActivationHeight: NoActivationHeight,
			Description:      "Version 2 of the message signing scheme",
		}},
	}
}
