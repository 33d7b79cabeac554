// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/decred/dcrd/wire"
)

// TestNet represents the test Tessera network.
const TestNet wire.CurrencyNet = 0x4bd7a2c9

// testNetGenesisBlock defines the genesis block of the block chain which
// serves as the public transaction ledger for the test network.
var testNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:      1,
		PrevBlock:    chainhashZero,
		MerkleRoot:   chainhashZero,
		Bits:         0x1e00ffff,
		SBits:        2 * 1e7,
		Height:       0,
		Timestamp:    time.Unix(1702512600, 0), // 2023-12-14 00:10:00 +0000 UTC
		Nonce:        0x0b8f1c22,
		StakeVersion: 0,
	},
}

// TestNetParams returns the network parameters for the test Tessera network.
func TestNetParams() *Params {
	genesisHash := testNetGenesisBlock.BlockHash()
	return &Params{
		Name:               "testnet",
		Net:                TestNet,
		DefaultPort:        "19318",
		DefaultRPCPort:     "19319",
		GenesisBlock:       testNetGenesisBlock,
		GenesisHash:        genesisHash,
		TargetTimePerBlock: 60,
		Upgrades: []NetworkUpgrade{{
			Name:             UpgradePoS,
			ActivationHeight: 201,
			Description:      "Switch block production to proof of stake",
		}, {
			Name:             UpgradeStakeModV2,
			ActivationHeight: 51197,
			Description:      "Version 2 of the stake modifier calculation",
		}, {
			Name:             UpgradeTimeProtoV2,
			ActivationHeight: 77775,
			Description:      "Version 2 of the block time protocol",
		}, {
			Name:             UpgradeMsgSigV2,
			ActivationHeight: 105000,
			Description:      "Version 2 of the message signing scheme",
		}},
	}
}
