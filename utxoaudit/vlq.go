// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxoaudit

// serializeSizeVLQ returns the number of bytes it would take to serialize the
// passed number as a variable-length quantity according to the format
// described by putVLQ.
func serializeSizeVLQ(n uint64) int {
	size := 1
	for ; n > 0x7f; n = (n >> 7) - 1 {
		size++
	}

	return size
}

// putVLQ serializes the provided number to a variable-length quantity.  It
// returns the number of bytes of the serialized value.  The result is placed
// directly into the passed byte slice which must be at least large enough to
// handle the number of bytes returned by the serializeSizeVLQ function or it
// will panic.
//
// The encoding is an MSB base-128 scheme with an added 1 to each byte of the
// value aside from the final one, which allows smaller numbers to take fewer
// bytes while remaining a prefix-free code with a unique encoding for every
// number.  The high bit of each byte indicates whether another byte follows.
//
// Example encodings:
//
//	    0 -> [0x00]
//	  127 -> [0x7f]
//	  128 -> [0x80 0x00]
//	  129 -> [0x80 0x01]
//	  255 -> [0x80 0x7f]
//	  256 -> [0x81 0x00]
//	16511 -> [0xff 0x7f]
//	16512 -> [0x80 0x80 0x00]
func putVLQ(target []byte, n uint64) int {
	offset := 0
	for ; ; offset++ {
		// The high bit is set when another byte follows.
		highBitMask := byte(0x80)
		if offset == 0 {
			highBitMask = 0x00
		}

		target[offset] = byte(n&0x7f) | highBitMask
		if n <= 0x7f {
			break
		}
		n = (n >> 7) - 1
	}

	// Reverse the bytes so it is MSB-encoded.
	for i, j := 0, offset; i < j; i, j = i+1, j-1 {
		target[i], target[j] = target[j], target[i]
	}

	return offset + 1
}

// deserializeVLQ deserializes the provided variable-length quantity according
// to the format described by putVLQ.  It also returns the number of bytes
// deserialized.
func deserializeVLQ(serialized []byte) (uint64, int) {
	var n uint64
	var size int
	for _, val := range serialized {
		size++
		n = (n << 7) | uint64(val&0x7f)
		if val&0x80 != 0x80 {
			break
		}
		n++
	}

	return n, size
}

// appendVLQ appends the variable-length quantity encoding of the passed
// number to the provided slice and returns the resulting slice.  It is a
// convenience for serialization paths that build a buffer incrementally.
func appendVLQ(target []byte, n uint64) []byte {
	var buf [9]byte
	size := putVLQ(buf[:], n)
	return append(target, buf[:size]...)
}
