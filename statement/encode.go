package statement

import (
	"fmt"
	"math/big"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/util/random"

	"github.com/anupsv/sigma-compose/sigma"
)

// pointBytes canonically encodes a kyber.Point for hashing and equality
// checks across prover and verifier. Points produced by this module are
// always well-formed, so a MarshalBinary error here indicates a library
// bug, not adversarial input; callers treat a nil result as "encoding
// failed" and surface a VerificationError rather than panicking.
func pointBytes(p kyber.Point) []byte {
	if p == nil {
		return nil
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

// scalarBytes canonically encodes a kyber.Scalar the same way.
func scalarBytes(s kyber.Scalar) []byte {
	if s == nil {
		return nil
	}
	b, err := s.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

// concatBytes joins byte slices with a length-prefix so the concatenation
// cannot be reinterpreted by shifting a boundary (distinct inputs never
// collide on the joined encoding).
func concatBytes(parts ...[]byte) []byte {
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

// splitParts reverses concatBytes's length-prefixed encoding back into n
// byte slices.
func splitParts(data []byte, n int) ([][]byte, error) {
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

// sampleChallenge draws a uniform scalar mod sigma.Modulus for a
// composite's own Simulate(), independent of any child's group.
func sampleChallenge() *big.Int {
	return random.Int(sigma.Modulus, random.New())
}
