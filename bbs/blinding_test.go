package bbs

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestBlindSigningRoundTrip(t *testing.T) {
	keyPair, err := GenerateKeyPair(4, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	messages := make([]*big.Int, 4)
	for i := range messages {
		m, err := RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar failed: %v", err)
		}
		messages[i] = m
	}

	hidden := map[int]*big.Int{0: messages[0], 1: messages[1]}
	known := map[int]*big.Int{2: messages[2], 3: messages[3]}

	creator := NewSignatureCreator(keyPair.PublicKey)
	commitment, err := creator.Commit(hidden, rand.Reader)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	pre, err := keyPair.PrivateKey.SignBlinded(keyPair.PublicKey, commitment, known, nil)
	if err != nil {
		t.Fatalf("SignBlinded failed: %v", err)
	}

	signature, err := creator.ObtainSignature(pre, commitment)
	if err != nil {
		t.Fatalf("ObtainSignature failed: %v", err)
	}

	if err := Verify(keyPair.PublicKey, signature, messages, nil); err != nil {
		t.Fatalf("blind-issued signature failed verification: %v", err)
	}
}

func TestBlindSigningRejectsOutOfRangeIndex(t *testing.T) {
	keyPair, err := GenerateKeyPair(2, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	creator := NewSignatureCreator(keyPair.PublicKey)
	_, err = creator.Commit(map[int]*big.Int{5: big.NewInt(1)}, rand.Reader)
	if err == nil {
		t.Fatal("expected Commit to reject an out-of-range hidden index")
	}
}
