// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxoaudit

import (
	"bytes"
	"testing"
)

// TestVLQ ensures the variable-length quantity serialization, deserialization,
// and size calculation work as expected.
func TestVLQ(t *testing.T) {
	tests := []struct {
		val        uint64
		serialized []byte
	}{
		{0, hexToBytes("00")},
		{1, hexToBytes("01")},
		{127, hexToBytes("7f")},
		{128, hexToBytes("8000")},
		{129, hexToBytes("8001")},
		{255, hexToBytes("807f")},
		{256, hexToBytes("8100")},
		{16383, hexToBytes("fe7f")},
		{16384, hexToBytes("ff00")},
		{16511, hexToBytes("ff7f")}, // Max 2-byte value
		{16512, hexToBytes("808000")},
		{32895, hexToBytes("80ff7f")},
		{2113663, hexToBytes("ffff7f")}, // Max 3-byte value
		{2113664, hexToBytes("80808000")},
		{270549119, hexToBytes("ffffff7f")}, // Max 4-byte value
		{270549120, hexToBytes("8080808000")},
		{2147483647, hexToBytes("86fefefe7f")},
		{2147483648, hexToBytes("86fefeff00")},
		{4294967295, hexToBytes("8efefefe7f")}, // Max uint32, 5 bytes
	}

	for _, test := range tests {
		// Ensure the function to calculate the serialized size without
		// actually serializing the value is calculated properly.
		gotSize := serializeSizeVLQ(test.val)
		if gotSize != len(test.serialized) {
			t.Errorf("serializeSizeVLQ (%d): did not get expected size -- "+
				"got %d, want %d", test.val, gotSize, len(test.serialized))
			continue
		}

		// Ensure the value serializes to the expected bytes.
		gotBytes := make([]byte, gotSize)
		gotBytesWritten := putVLQ(gotBytes, test.val)
		if !bytes.Equal(gotBytes, test.serialized) {
			t.Errorf("putVLQ (%d): did not get expected bytes -- got %x, "+
				"want %x", test.val, gotBytes, test.serialized)
			continue
		}
		if gotBytesWritten != len(test.serialized) {
			t.Errorf("putVLQ (%d): did not get expected number of bytes "+
				"written -- got %d, want %d", test.val, gotBytesWritten,
				len(test.serialized))
			continue
		}

		// Ensure the serialized bytes deserialize to the expected value.
		gotVal, gotBytesRead := deserializeVLQ(test.serialized)
		if gotVal != test.val {
			t.Errorf("deserializeVLQ (%x): did not get expected value -- "+
				"got %d, want %d", test.serialized, gotVal, test.val)
			continue
		}
		if gotBytesRead != len(test.serialized) {
			t.Errorf("deserializeVLQ (%x): did not get expected number of "+
				"bytes read -- got %d, want %d", test.serialized,
				gotBytesRead, len(test.serialized))
			continue
		}

		// Ensure the append based serialization matches as well.
		gotAppended := appendVLQ(nil, test.val)
		if !bytes.Equal(gotAppended, test.serialized) {
			t.Errorf("appendVLQ (%d): did not get expected bytes -- got %x, "+
				"want %x", test.val, gotAppended, test.serialized)
			continue
		}
	}
}
