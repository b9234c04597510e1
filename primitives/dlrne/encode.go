package dlrne

import (
	"fmt"
	"math/big"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/util/random"

	"github.com/anupsv/sigma-compose/sigma"
)

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

// concat joins byte slices with an 8-byte length prefix each, matching the
// encoding statement.concatBytes uses so precommitments nest cleanly.
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

// splitTwo reverses concat for exactly two parts: the precommitment point C
// and the inner AndProof's own precommitment blob.
func splitTwo(data []byte) ([][]byte, error) {
	out := make([][]byte, 0, 2)
	rest := data
	for len(out) < 2 {
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

// sampleChallenge draws a uniform scalar mod sigma.Modulus, matching
// statement.sampleChallenge's role for this package's own Simulate.
func sampleChallenge() *big.Int {
	return random.Int(sigma.Modulus, random.New())
}
