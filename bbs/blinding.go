package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Commitment is produced by a SignatureCreator when it wants a subset of
// messages blinded from the signer during issuance. The signer never learns
// CommitmentMessage's opening; only the creator, via SBlinding, can remove
// its own contribution once the pre-signature comes back.
type Commitment struct {
	CommitmentMessage bls12381.G1Affine
	SBlinding         *big.Int
	HiddenIndices     []int
}

// PreSignature is what a signer returns after signing a blinded commitment.
// It is not yet a valid Signature: ObtainSignature must fold in the
// committer's own blinding contribution first.
type PreSignature struct {
	ABlind bls12381.G1Affine
	E      *big.Int
	SBlind *big.Int
}

// SignatureCreator drives the blind-signing handshake: commit to the hidden
// messages, hand the commitment to a signer, then unblind the pre-signature
// it returns into an ordinary Signature.
type SignatureCreator struct {
	pk *PublicKey
}

// NewSignatureCreator binds a creator session to the issuer's public key.
func NewSignatureCreator(pk *PublicKey) *SignatureCreator {
	return &SignatureCreator{pk: pk}
}

// Commit blinds the messages at hiddenMessages' indices into a single G1
// commitment the signer can incorporate without learning their values.
func (sc *SignatureCreator) Commit(hiddenMessages map[int]*big.Int, rng io.Reader) (*Commitment, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for idx := range hiddenMessages {
		if idx < 0 || idx+2 >= len(sc.pk.H) {
			return nil, fmt.Errorf("hidden message index %d out of range: %w", idx, ErrInvalidMessageCount)
		}
	}

	sTilde, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate commitment blinding: %w", err)
	}

	// C = H0^sTilde * prod_{i in hidden} H[i+2]^{m_i}
	cJac := bls12381.G1Jac{}
	h0Jac := bls12381.G1Jac{}
	h0Jac.FromAffine(&sc.pk.H[0])
	h0Jac.ScalarMultiplication(&h0Jac, sTilde)
	cJac.AddAssign(&h0Jac)

	indices := make([]int, 0, len(hiddenMessages))
	for idx, m := range hiddenMessages {
		hiJac := bls12381.G1Jac{}
		hiJac.FromAffine(&sc.pk.H[idx+2])
		hiJac.ScalarMultiplication(&hiJac, m)
		cJac.AddAssign(&hiJac)
		indices = append(indices, idx)
	}

	return &Commitment{
		CommitmentMessage: g1JacToAffine(cJac),
		SBlinding:         sTilde,
		HiddenIndices:     indices,
	}, nil
}

// SignBlinded lets a signer issue a signature over a creator's commitment
// plus whatever messages the signer itself knows in the clear, without ever
// seeing the hidden messages folded into commitment.CommitmentMessage.
func (sk *PrivateKey) SignBlinded(
	pk *PublicKey,
	commitment *Commitment,
	knownMessages map[int]*big.Int,
	header []byte,
) (*PreSignature, error) {
	domain := CalculateDomain(pk, header)

	e, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value e: %w", err)
	}
	sBlind, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value s: %w", err)
	}

	// B'' = P1 + commitment + H0^sBlind + H1^domain + sum_{known} H_i^{m_i}
	bJac := bls12381.G1Jac{}
	bJac.FromAffine(&pk.G1)

	commitJac := bls12381.G1Jac{}
	commitJac.FromAffine(&commitment.CommitmentMessage)
	bJac.AddAssign(&commitJac)

	q1Jac := bls12381.G1Jac{}
	q1Jac.FromAffine(&pk.H[0])
	q1Jac.ScalarMultiplication(&q1Jac, sBlind)
	bJac.AddAssign(&q1Jac)

	q2Jac := bls12381.G1Jac{}
	q2Jac.FromAffine(&pk.H[1])
	q2Jac.ScalarMultiplication(&q2Jac, domain)
	bJac.AddAssign(&q2Jac)

	for idx, m := range knownMessages {
		if idx < 0 || idx+2 >= len(pk.H) {
			return nil, fmt.Errorf("known message index %d out of range: %w", idx, ErrInvalidMessageCount)
		}
		hiJac := bls12381.G1Jac{}
		hiJac.FromAffine(&pk.H[idx+2])
		hiJac.ScalarMultiplication(&hiJac, m)
		bJac.AddAssign(&hiJac)
	}

	B := g1JacToAffine(bJac)

	xPlusE := new(big.Int).Add(sk.X, e)
	inv := new(big.Int).ModInverse(xPlusE, Order)
	if inv == nil {
		return nil, fmt.Errorf("failed to compute modular inverse")
	}

	aJac := bls12381.G1Jac{}
	aJac.FromAffine(&B)
	aJac.ScalarMultiplication(&aJac, inv)

	return &PreSignature{
		ABlind: g1JacToAffine(aJac),
		E:      e,
		SBlind: sBlind,
	}, nil
}

// ObtainSignature folds the creator's own commitment blinding into the
// signer's pre-signature, producing an ordinary Signature that Verify
// accepts against the full message vector.
func (sc *SignatureCreator) ObtainSignature(pre *PreSignature, commitment *Commitment) (*Signature, error) {
	s := new(big.Int).Add(commitment.SBlinding, pre.SBlind)
	s.Mod(s, Order)

	return &Signature{
		A: pre.ABlind,
		E: pre.E,
		S: s,
	}, nil
}
