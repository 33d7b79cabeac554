// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upgrades

import (
	"testing"

	"github.com/tessernet/tesserad/chaincfg"
)

// TestStateAt ensures the upgrade state machine reports the expected state
// for heights around the activation boundary as well as for undeployed
// upgrades.
func TestStateAt(t *testing.T) {
	tests := []struct {
		name       string
		activation int64
		height     int64
		want       State
	}{{
		name:       "one below activation",
		activation: 1000,
		height:     999,
		want:       StatePending,
	}, {
		name:       "exactly at activation",
		activation: 1000,
		height:     1000,
		want:       StateActive,
	}, {
		name:       "beyond activation",
		activation: 1000,
		height:     250000,
		want:       StateActive,
	}, {
		name:       "genesis with future activation",
		activation: 1000,
		height:     0,
		want:       StatePending,
	}, {
		name:       "undeployed upgrade",
		activation: chaincfg.NoActivationHeight,
		height:     1 << 40,
		want:       StateDisabled,
	}}

	for _, test := range tests {
		upgrade := chaincfg.NetworkUpgrade{
			Name:             "test-upgrade",
			ActivationHeight: test.activation,
		}
		got := StateAt(&upgrade, test.height)
		if got != test.want {
			t.Errorf("%s: unexpected state -- got %v, want %v", test.name,
				got, test.want)
		}
	}
}

// TestResolve ensures resolving the full upgrade set for a network hides
// undeployed upgrades and reports the correct state for the rest.
func TestResolve(t *testing.T) {
	upgrades := []chaincfg.NetworkUpgrade{{
		Name:             chaincfg.UpgradePoS,
		ActivationHeight: 1001,
		Description:      "pos switch",
	}, {
		Name:             chaincfg.UpgradeStakeModV2,
		ActivationHeight: 120000,
		Description:      "stake modifier v2",
	}, {
		Name:             chaincfg.UpgradeMsgSigV2,
		ActivationHeight: chaincfg.NoActivationHeight,
		Description:      "message signing v2",
	}}

	descs := Resolve(upgrades, 5000)
	if len(descs) != 2 {
		t.Fatalf("unexpected number of descriptors -- got %d, want 2",
			len(descs))
	}
	if _, ok := descs[chaincfg.UpgradeMsgSigV2]; ok {
		t.Fatal("undeployed upgrade must be omitted from the result")
	}

	pos, ok := descs[chaincfg.UpgradePoS]
	if !ok {
		t.Fatal("missing descriptor for pos upgrade")
	}
	if pos.State != StateActive {
		t.Errorf("unexpected pos state -- got %v, want %v", pos.State,
			StateActive)
	}
	if pos.ActivationHeight != 1001 || pos.Description != "pos switch" {
		t.Errorf("descriptor fields not populated from parameters: %+v", pos)
	}

	stakeMod := descs[chaincfg.UpgradeStakeModV2]
	if stakeMod.State != StatePending {
		t.Errorf("unexpected stake modifier state -- got %v, want %v",
			stakeMod.State, StatePending)
	}
}

// TestLegacySoftForks ensures the legacy block-version projection agrees with
// the upgrade state machine and skips undeployed upgrades.
func TestLegacySoftForks(t *testing.T) {
	params := chaincfg.MainNetParams()

	// Height between pos activation and stake modifier v2 activation.
	forks := LegacySoftForks(params.Upgrades, 2000)
	if len(forks) != 3 {
		t.Fatalf("unexpected number of soft forks -- got %d, want 3",
			len(forks))
	}
	for _, fork := range forks {
		upgrade := params.UpgradeByName(fork.Name)
		if upgrade == nil {
			t.Fatalf("soft fork %q references unknown upgrade", fork.Name)
		}
		wantActive := StateAt(upgrade, 2000) == StateActive
		if fork.Active != wantActive {
			t.Errorf("version %d: active flag disagrees with state "+
				"machine -- got %v, want %v", fork.Version, fork.Active,
				wantActive)
		}
	}
	if !forks[0].Active {
		t.Error("pos soft fork must be active at height 2000")
	}
	if forks[1].Active || forks[2].Active {
		t.Error("later soft forks must not be active at height 2000")
	}
}
