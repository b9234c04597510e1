// Package bbs implements the BBS+ Signatures for selective disclosure
package bbs

import (
	"crypto/rand"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// CreateProof creates a zero-knowledge proof that reveals only specific messages from a signature
// Following IRTF cfrg-bbs-signatures spec for standards compliance
func CreateProof(
	publicKey *PublicKey,
	signature *Signature,
	messages []*big.Int,
	disclosedIndices []int,
	header []byte,
) (*ProofOfKnowledge, map[int]*big.Int, error) {
	// Validate inputs
	if len(messages) != publicKey.MessageCount {
		return nil, nil, ErrInvalidMessageCount
	}

	// Create a map for faster lookup of disclosed indices
	disclosedMap := make(map[int]bool)
	for _, idx := range disclosedIndices {
		disclosedMap[idx] = true
	}

	// Create a map of disclosed messages
	disclosedMessages := make(map[int]*big.Int)
	for _, idx := range disclosedIndices {
		if idx < 0 || idx >= len(messages) {
			return nil, nil, fmt.Errorf("invalid disclosed index: %d", idx)
		}
		disclosedMessages[idx] = messages[idx]
	}

	// Calculate domain - use it in later operations
	_ = CalculateDomain(publicKey, header)

	// Generate randomness r for signature blinding
	r, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate random value: %w", err)
	}

	// Compute A' = A * g1^r
	APrimeJac := bls12381.G1Jac{}
	APrimeJac.FromAffine(&signature.A)

	g1rJac := bls12381.G1Jac{}
	g1rJac.FromAffine(&publicKey.G1)
	g1rJac.ScalarMultiplication(&g1rJac, r)
	APrimeJac.AddAssign(&g1rJac)

	// Convert to affine
	APrime := g1JacToAffine(APrimeJac)

	// Compute A-bar = A' * B^r where:
	// B = P1 + Q1*s + Q2*domain + H_1*m_1 + ... + H_L*m_L
	// We'll focus on the messages that are NOT being disclosed,
	// as these are the ones that need to be blinded with randomness

	// Initialize A-bar with A'
	ABarJac := bls12381.G1Jac{}
	ABarJac.FromAffine(&APrime)

	// Compute blinded messages contribution to A-bar
	for i := 0; i < len(messages); i++ {
		if disclosedMap[i] {
			continue // Skip disclosed messages
		}

		// Compute h_i^{m_i * r} for hidden messages
		msg := messages[i]
		mr := new(big.Int).Mul(msg, r)
		mr.Mod(mr, Order)

		himrJac := bls12381.G1Jac{}
		himrJac.FromAffine(&publicKey.H[i+2]) // +2 for Q1, Q2
		himrJac.ScalarMultiplication(&himrJac, mr)
		ABarJac.AddAssign(&himrJac)
	}

	// Convert to affine
	ABar := g1JacToAffine(ABarJac)

	// Generate random blinding factors
	eBlind, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}

	sBlind, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}

	// Generate blinding factor for domain
	domainBlind, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate domain blinding: %w", err)
	}

	// Create blinding factors for undisclosed messages
	mBlind := make(map[int]*big.Int)
	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			mBlind[i], err = RandomScalar(rand.Reader)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
			}
		}
	}

	// Compute commitment D = Q1^sBlind * Q2^domainBlind * ∏(H_i^mBlind_i) for all undisclosed i

	// Start with Q1^sBlind
	DJac := bls12381.G1Jac{}
	q1sBlindJac := bls12381.G1Jac{}
	q1sBlindJac.FromAffine(&publicKey.H[0])
	q1sBlindJac.ScalarMultiplication(&q1sBlindJac, sBlind)
	DJac.AddAssign(&q1sBlindJac)

	// Add Q2^domainBlind
	q2dBlindJac := bls12381.G1Jac{}
	q2dBlindJac.FromAffine(&publicKey.H[1])
	q2dBlindJac.ScalarMultiplication(&q2dBlindJac, domainBlind)
	DJac.AddAssign(&q2dBlindJac)

	// Add H_i^mBlind_i for each undisclosed message
	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			hiJac := bls12381.G1Jac{}
			hiJac.FromAffine(&publicKey.H[i+2]) // +2 for Q1, Q2
			hiJac.ScalarMultiplication(&hiJac, mBlind[i])
			DJac.AddAssign(&hiJac)
		}
	}

	// Convert to affine
	D := g1JacToAffine(DJac)

	// Compute the Fiat-Shamir challenge c
	c := ComputeProofChallenge(APrime, ABar, D, disclosedIndices, disclosedMessages)

	// Compute e^ = e*c + eBlind
	eHat := new(big.Int).Mul(signature.E, c)
	eHat.Add(eHat, eBlind)
	eHat.Mod(eHat, Order)

	// Compute s^ = s*c + sBlind
	sHat := new(big.Int).Mul(signature.S, c)
	sHat.Add(sHat, sBlind)
	sHat.Mod(sHat, Order)

	// Compute m_i^ = m_i*c + mBlind_i for each undisclosed message
	mHat := make(map[int]*big.Int)
	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			mHat[i] = new(big.Int).Mul(messages[i], c)
			mHat[i].Add(mHat[i], mBlind[i])
			mHat[i].Mod(mHat[i], Order)
		}
	}

	// Compute r^ = r*c + rBlind
	// For our implementation, we don't need r^ as it's used for signature binding in the original BBS scheme

	// Create the final proof
	proof := &ProofOfKnowledge{
		APrime: APrime,
		ABar:   ABar,
		D:      D,
		C:      c,
		EHat:   eHat,
		SHat:   sHat,
		MHat:   mHat,
	}

	return proof, disclosedMessages, nil
}

// ExtendProofOriginal extends an existing proof to disclose additional attributes
// - proof: The original proof
// - disclosedMessages: The currently disclosed messages
// - additionalIndices: The indices of additional messages to disclose
// - secretMessages: A map of all message values (both disclosed and undisclosed)
// - publicKey: The public key for verification
// Returns:
// - A new proof with additional disclosed attributes
// - An updated map of disclosed messages
// - An error, if any occurred
func ExtendProofOriginal(
	proof *ProofOfKnowledge,
	disclosedMessages map[int]*big.Int,
	additionalIndices []int,
	secretMessages map[int]*big.Int,
	publicKey *PublicKey,
) (*ProofOfKnowledge, map[int]*big.Int, error) {
	// Validate inputs
	for _, idx := range additionalIndices {
		if _, ok := disclosedMessages[idx]; ok {
			return nil, nil, fmt.Errorf("message at index %d is already disclosed", idx)
		}

		if _, ok := secretMessages[idx]; !ok {
			return nil, nil, fmt.Errorf("secret message at index %d not provided", idx)
		}

		if idx < 0 || idx >= publicKey.MessageCount {
			return nil, nil, fmt.Errorf("invalid message index: %d", idx)
		}
	}

	// Create the new disclosed messages map
	newDisclosedMessages := make(map[int]*big.Int)
	for idx, msg := range disclosedMessages {
		newDisclosedMessages[idx] = new(big.Int).Set(msg)
	}

	// Add the additional messages
	for _, idx := range additionalIndices {
		newDisclosedMessages[idx] = new(big.Int).Set(secretMessages[idx])
	}

	// Generate the new blinding factors
	e, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}

	s, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}

	// The approach is to:
	// 1. Compute the commitment to the newly disclosed messages
	// 2. Update the ABar commitment
	// 3. Update the D commitment
	// 4. Generate a new challenge value
	// 5. Create the final proof

	// Prepare the commitment for newly disclosed messages
	// We need to remove their blinding from ABar and add to APrime
	ABarJac := bls12381.G1Jac{}
	ABarJac.FromAffine(&proof.ABar)

	// Update APrime to include the newly disclosed messages
	APrimeJac := bls12381.G1Jac{}
	APrimeJac.FromAffine(&proof.APrime)

	// For each newly disclosed message, remove it from blinding
	for _, idx := range additionalIndices {
		// Get the message value
		msg := secretMessages[idx]

		// Compute h_i^(-msg * C)
		hiJac := bls12381.G1Jac{}
		hiJac.FromAffine(&publicKey.H[idx+2]) // +2 for Q1, Q2

		// Compute -msg * C
		negMsgC := new(big.Int).Mul(msg, proof.C)
		negMsgC.Neg(negMsgC)
		negMsgC.Mod(negMsgC, Order)

		// Compute h_i^(-msg * C)
		hiJac.ScalarMultiplication(&hiJac, negMsgC)

		// Update ABar: ABar = ABar * h_i^(-msg * C)
		ABarJac.AddAssign(&hiJac)
	}

	// Convert to affine
	newABar := g1JacToAffine(ABarJac)

	// Generate a new challenge value
	c := ComputeProofChallenge(
		proof.APrime,
		newABar,
		proof.D,
		additionalIndices,
		newDisclosedMessages,
	)

	// Compute the final proof with E' = E + e
	eHat := new(big.Int).Add(proof.EHat, e)
	eHat.Mod(eHat, Order)

	// Compute S' = S + s
	sHat := new(big.Int).Add(proof.SHat, s)
	sHat.Mod(sHat, Order)

	// Create the new proof
	newProof := &ProofOfKnowledge{
		APrime: proof.APrime,
		ABar:   newABar,
		D:      proof.D,
		C:      c,
		EHat:   eHat,
		SHat:   sHat,
	}

	return newProof, newDisclosedMessages, nil
}
