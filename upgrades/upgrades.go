// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package upgrades provides pure functions for determining the activation
// status of consensus rule changes at a given height.
//
// The status of an upgrade is derived solely from the network parameters and
// the height in question, so the package is stateless and requires no
// synchronization.
package upgrades

import (
	"github.com/tessernet/tesserad/chaincfg"
)

// State represents the activation state of a network upgrade at a height.
type State int

// These constants define the possible activation states of an upgrade.
const (
	// StateDisabled indicates the upgrade has no activation height assigned
	// on the network and is therefore undeployed.
	StateDisabled State = iota

	// StatePending indicates the upgrade has an activation height that has
	// not been reached yet.
	StatePending

	// StateActive indicates the height is at or beyond the activation height
	// of the upgrade.
	StateActive
)

// String returns the State as a human-readable name.
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Descriptor describes a deployed network upgrade along with its computed
// activation state at the height it was resolved for.
type Descriptor struct {
	// Name is the stable identifier of the upgrade.
	Name string

	// ActivationHeight is the height at which the upgrade rules become
	// effective.
	ActivationHeight int64

	// Description is a human-readable summary of the rule change.
	Description string

	// State is the activation state of the upgrade at the resolved height.
	State State
}

// StateAt returns the activation state of the provided upgrade at the given
// height.  Upgrades without an assigned activation height are disabled.
func StateAt(upgrade *chaincfg.NetworkUpgrade, height int64) State {
	switch {
	case upgrade.ActivationHeight == chaincfg.NoActivationHeight:
		return StateDisabled
	case height < upgrade.ActivationHeight:
		return StatePending
	default:
		return StateActive
	}
}

// Resolve returns a descriptor for every deployed upgrade in the provided
// set with its activation state computed for the given height.  Upgrades
// that are not deployed on the network are omitted from the result entirely.
func Resolve(upgrades []chaincfg.NetworkUpgrade, height int64) map[string]Descriptor {
	descs := make(map[string]Descriptor, len(upgrades))
	for i := range upgrades {
		upgrade := &upgrades[i]
		state := StateAt(upgrade, height)
		if state == StateDisabled {
			continue
		}

		descs[upgrade.Name] = Descriptor{
			Name:             upgrade.Name,
			ActivationHeight: upgrade.ActivationHeight,
			Description:      upgrade.Description,
			State:            state,
		}
	}
	return descs
}

// SoftFork describes the activation status of a historical block version in
// the legacy reporting format expected by older clients.
type SoftFork struct {
	// Version is the historical block version associated with the upgrade.
	Version int32

	// Name is the stable identifier of the associated upgrade.
	Name string

	// Active indicates whether the associated upgrade is active.
	Active bool
}

// legacySoftForkVersions maps the small fixed set of historical block
// versions to the upgrade each one signaled.  Newer upgrades do not bump the
// block version and are intentionally absent.
var legacySoftForkVersions = []struct {
	version int32
	name    string
}{
	{version: 4, name: chaincfg.UpgradePoS},
	{version: 5, name: chaincfg.UpgradeStakeModV2},
	{version: 6, name: chaincfg.UpgradeTimeProtoV2},
}

// LegacySoftForks returns the legacy block-version-based view of upgrade
// activation at the given height.  It is strictly a projection over StateAt
// rather than an independent computation so the two reports can never
// disagree.  Versions whose upgrade is not deployed on the network are
// omitted.
func LegacySoftForks(upgrades []chaincfg.NetworkUpgrade, height int64) []SoftFork {
	forks := make([]SoftFork, 0, len(legacySoftForkVersions))
	for _, lv := range legacySoftForkVersions {
		var upgrade *chaincfg.NetworkUpgrade
		for i := range upgrades {
			if upgrades[i].Name == lv.name {
				upgrade = &upgrades[i]
				break
			}
		}
		if upgrade == nil {
			continue
		}

		state := StateAt(upgrade, height)
		if state == StateDisabled {
			continue
		}

		forks = append(forks, SoftFork{
			Version: lv.version,
			Name:    lv.name,
			Active:  state == StateActive,
		})
	}
	return forks
}
