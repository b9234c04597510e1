package transcript

import (
	"math/big"
	"testing"
)

func TestChallengeIsDeterministic(t *testing.T) {
	id := []byte("statement")
	pre := []byte("pre")
	com := []byte("commitment")

	c1 := Challenge(nil, Modulus(), id, pre, com)
	c2 := Challenge(nil, Modulus(), id, pre, com)
	if c1.Cmp(c2) != 0 {
		t.Fatal("same inputs must hash to the same challenge")
	}
}

func TestChallengeReactsToEveryInput(t *testing.T) {
	base := Challenge(nil, Modulus(), []byte("a"), []byte("b"), []byte("c"))
	variants := [][3][]byte{
		{[]byte("x"), []byte("b"), []byte("c")},
		{[]byte("a"), []byte("y"), []byte("c")},
		{[]byte("a"), []byte("b"), []byte("z")},
	}
	for _, v := range variants {
		got := Challenge(nil, Modulus(), v[0], v[1], v[2])
		if got.Cmp(base) == 0 {
			t.Fatalf("expected a different challenge for input %v", v)
		}
	}
}

func TestWithXOFDiffersFromSHA256(t *testing.T) {
	id, pre, com := []byte("s"), []byte("p"), []byte("c")
	sha := Challenge(SHA256, Modulus(), id, pre, com)
	xof := Challenge(WithXOF("TEST_DST_"), Modulus(), id, pre, com)
	if sha.Cmp(xof) == 0 {
		t.Fatal("SHA256 and SHAKE-256 hashers should not coincidentally agree")
	}
}

// Modulus is a small helper so this package's tests don't need to import
// sigma (which would be a circular import); it mirrors sigma.Modulus.
func Modulus() *big.Int {
	m, _ := new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)
	return m
}
