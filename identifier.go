package kbucket

import "math/big"

// Distance returns the big-endian XOR distance between a and b as a
// non-negative integer. When a and b differ in length, the shorter one is
// conceptually right-padded with 0xFF bytes so a missing tail counts as
// maximally distant. Distance is symmetric and zero only for equal
// identifiers; it is used solely for ordering, never for equality.
func Distance(a, b []byte) *big.Int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	xored := make([]byte, n)
	for i := 0; i < n; i++ {
		var x, y byte = 0xff, 0xff
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		xored[i] = x ^ y
	}

	return new(big.Int).SetBytes(xored)
}

// bitAt returns the ith bit of id, 0-indexed from the most significant bit
// of byte 0. An index beyond id's length always yields 0, so identifiers
// shorter than the depth being probed route to the left child of every
// split they encounter. In normal operation every identifier admitted into
// one table shares a length and this branch is unreachable, but it must be
// honored for adversarial input.
func bitAt(id []byte, i int) int {
	byteIndex := i / 8
	if byteIndex >= len(id) {
		return 0
	}

	bitInByte := uint(i % 8)
	if id[byteIndex]&(1<<(7-bitInByte)) != 0 {
		return 1
	}

	return 0
}
