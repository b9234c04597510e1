package signatureproof

import (
	"fmt"
	"math/big"
	"sort"
)

// concat joins byte slices with an 8-byte length prefix each, matching the
// encoding statement.concatBytes and dlrne.concat use so a SignatureProof
// can sit next to a kyber-backed atomic inside the same AndProof/OrProof
// tree without its precommitment or response bytes being ambiguous.
func concat(parts ...[]byte) []byte {
	out := make([]byte, 0)
	for _, p := range parts {
		var lenPrefix [8]byte
		n := len(p)
		for i := 0; i < 8; i++ {
			lenPrefix[7-i] = byte(n)
			n >>= 8
		}
		out = append(out, lenPrefix[:]...)
		out = append(out, p...)
	}
	return out
}

// splitN reverses concat into exactly n parts.
func splitN(data []byte, n int) ([][]byte, error) {
	out := make([][]byte, 0, n)
	rest := data
	for len(out) < n {
		if len(rest) < 8 {
			return nil, fmt.Errorf("truncated length prefix")
		}
		length := 0
		for i := 0; i < 8; i++ {
			length = length<<8 | int(rest[i])
		}
		rest = rest[8:]
		if len(rest) < length {
			return nil, fmt.Errorf("truncated part: want %d bytes, have %d", length, len(rest))
		}
		out = append(out, rest[:length])
		rest = rest[length:]
	}
	return out, nil
}

// encodeResponse packs (eHat, sHat, mHat) into the Response.Bytes shape
// Verify's decodeResponse expects: eHat, sHat, then mHat's (index, value)
// pairs sorted by index so the encoding is deterministic regardless of Go's
// map iteration order.
func encodeResponse(eHat, sHat *big.Int, mHat map[int]*big.Int) []byte {
	idx := make([]int, 0, len(mHat))
	for i := range mHat {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	parts := make([][]byte, 0, 2+2*len(idx))
	parts = append(parts, eHat.Bytes(), sHat.Bytes())
	for _, i := range idx {
		var idxBytes [4]byte
		idxBytes[0] = byte(i >> 24)
		idxBytes[1] = byte(i >> 16)
		idxBytes[2] = byte(i >> 8)
		idxBytes[3] = byte(i)
		parts = append(parts, idxBytes[:], mHat[i].Bytes())
	}
	return concat(parts...)
}

// decodeResponse reverses encodeResponse.
func decodeResponse(data []byte) (eHat, sHat *big.Int, mHat map[int]*big.Int, err error) {
	if len(data) < 16 {
		return nil, nil, nil, fmt.Errorf("signature response too short")
	}
	length := 0
	for i := 0; i < 8; i++ {
		length = length<<8 | int(data[i])
	}
	rest := data[8:]
	if len(rest) < length {
		return nil, nil, nil, fmt.Errorf("truncated eHat")
	}
	eHat = new(big.Int).SetBytes(rest[:length])
	rest = rest[length:]

	if len(rest) < 8 {
		return nil, nil, nil, fmt.Errorf("truncated sHat length prefix")
	}
	length = 0
	for i := 0; i < 8; i++ {
		length = length<<8 | int(rest[i])
	}
	rest = rest[8:]
	if len(rest) < length {
		return nil, nil, nil, fmt.Errorf("truncated sHat")
	}
	sHat = new(big.Int).SetBytes(rest[:length])
	rest = rest[length:]

	mHat = make(map[int]*big.Int)
	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, nil, nil, fmt.Errorf("truncated mHat index length prefix")
		}
		length = 0
		for i := 0; i < 8; i++ {
			length = length<<8 | int(rest[i])
		}
		rest = rest[8:]
		if length != 4 || len(rest) < 4 {
			return nil, nil, nil, fmt.Errorf("malformed mHat index")
		}
		idx := int(rest[0])<<24 | int(rest[1])<<16 | int(rest[2])<<8 | int(rest[3])
		rest = rest[4:]

		if len(rest) < 8 {
			return nil, nil, nil, fmt.Errorf("truncated mHat value length prefix")
		}
		length = 0
		for i := 0; i < 8; i++ {
			length = length<<8 | int(rest[i])
		}
		rest = rest[8:]
		if len(rest) < length {
			return nil, nil, nil, fmt.Errorf("truncated mHat value")
		}
		mHat[idx] = new(big.Int).SetBytes(rest[:length])
		rest = rest[length:]
	}

	return eHat, sHat, mHat, nil
}
