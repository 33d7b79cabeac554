// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

import (
	_ "embed"
)

// sampleTesseradConf is a string containing the commented example config for
// tesserad.
//
//go:embed sample-tesserad.conf
var sampleTesseradConf string

// Tesserad returns a string containing the commented example config for
// tesserad.
func Tesserad() string {
	return sampleTesseradConf
}
