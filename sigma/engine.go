package sigma

import (
	"math/big"
	"sync"

	"github.com/anupsv/sigma-compose/transcript"
)

// sessionState enforces the precommit -> commit -> challenge -> respond ->
// verify ordering of a single Prover or Verifier run.
type sessionState int

const (
	stateInit sessionState = iota
	statePrecommitted
	stateCommitted
	stateChallenged
	stateResponded
	stateVerified
)

// SigmaProtocol drives the five-step interactive Sigma protocol between a
// Prover and a Verifier built from the same Statement. Each instance runs
// exactly one session; calling Run twice on the same instance is a
// ProtocolStateError.
type SigmaProtocol struct {
	prover   Prover
	verifier Verifier

	mu    sync.Mutex
	state sessionState
}

// NewSigmaProtocol pairs a prover and a verifier session for one run.
func NewSigmaProtocol(prover Prover, verifier Verifier) *SigmaProtocol {
	return &SigmaProtocol{prover: prover, verifier: verifier}
}

// Run executes the full interactive protocol:
//
//  1. verifier.ProcessPrecommitment(prover.Precommit())
//  2. commitment = prover.Commit()
//  3. challenge = sampleChallenge() -- supplied here by the caller, who is
//     expected to sample it uniformly mod Modulus (kept as a parameter
//     rather than sampled internally so the same driver also supports a
//     caller that wants to inject a specific test challenge)
//  4. response = prover.Respond(challenge)
//  5. verifier.Verify(commitment, challenge, response)
//
// It returns the VerificationError from step 5 directly; any other
// returned error is a ProtocolStateError or a failure from the statement
// itself (e.g. a malformed commitment).
func (sp *SigmaProtocol) Run(challenge *big.Int) error {
	sp.mu.Lock()
	if sp.state != stateInit {
		sp.mu.Unlock()
		return NewProtocolStateError("Run called more than once on the same SigmaProtocol session")
	}
	sp.state = stateResponded // single-shot: mark as consumed up front
	sp.mu.Unlock()

	pre, err := sp.prover.Precommit()
	if err != nil {
		return err
	}
	if err := sp.verifier.ProcessPrecommitment(pre); err != nil {
		return err
	}

	commitment, err := sp.prover.Commit()
	if err != nil {
		return err
	}

	response, err := sp.prover.Respond(challenge)
	if err != nil {
		return err
	}

	return sp.verifier.Verify(commitment, challenge, response)
}

// Prove runs the non-interactive Fiat-Shamir prover side: precommit,
// commit, derive the challenge by hashing statementID || precommitment ||
// commitment with hasher (SHA256 if nil), then respond. The resulting
// Transcript verifies via Verify with the same statement and hasher.
func Prove(st Statement, prover Prover, hasher transcript.Hasher) (Transcript, error) {
	pre, err := prover.Precommit()
	if err != nil {
		return Transcript{}, err
	}

	commitment, err := prover.Commit()
	if err != nil {
		return Transcript{}, err
	}

	challenge := transcript.Challenge(hasher, Modulus, st.CanonicalID(), pre, flattenCommitment(commitment))

	response, err := prover.Respond(challenge)
	if err != nil {
		return Transcript{}, err
	}

	return Transcript{
		Precommitment: pre,
		Challenge:     challenge,
		Commitment:    commitment,
		Response:      response,
	}, nil
}

// Verify checks a non-interactive Transcript: it recomputes the expected
// Fiat-Shamir challenge from the transcript's own precommitment and
// commitment and rejects if it disagrees with tr.Challenge, then runs the
// statement's ordinary verification equation over (commitment, challenge,
// response). This is the "verify commits as in interactive mode after
// rehashing" formulation spec.md 6.5/4.7 allows.
func Verify(st Statement, tr Transcript, hasher transcript.Hasher) error {
	expected := transcript.Challenge(hasher, Modulus, st.CanonicalID(), tr.Precommitment, flattenCommitment(tr.Commitment))
	if expected.Cmp(tr.Challenge) != 0 {
		return NewVerificationError("fiat-shamir challenge mismatch: transcript was not honestly derived")
	}

	verifier := st.GetVerifier()
	if err := verifier.ProcessPrecommitment(tr.Precommitment); err != nil {
		return err
	}
	return verifier.Verify(tr.Commitment, tr.Challenge, tr.Response)
}

// flattenCommitment canonically serializes a Commitment tree (depth-first,
// this node's own bytes then each child in order) for hashing.
func flattenCommitment(c Commitment) []byte {
	out := append([]byte(nil), c.Bytes...)
	for _, child := range c.Children {
		out = append(out, flattenCommitment(child)...)
	}
	return out
}
