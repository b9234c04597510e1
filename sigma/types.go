// Package sigma defines the group-agnostic core of the Sigma protocol
// engine: the Prover/Verifier contract every atomic and composite
// statement implements, the interactive three-move driver, the
// Fiat-Shamir prove/verify wrappers, and the tree-shaped commitment and
// response types that let AndProof and OrProof compose children built
// against different underlying groups (a kyber-backed DLRep next to a
// BLS12-381-backed SignatureProof) under one challenge.
package sigma

import (
	"math/big"

	"github.com/anupsv/sigma-compose/secret"
)

// Modulus is the challenge arithmetic modulus shared by every statement in
// a tree, regardless of which group an individual atomic operates over.
// Mixing a kyber-backed DLRep with a BLS12-381-backed SignatureProof inside
// one OrProof only makes sense if challenge-splitting arithmetic happens in
// one common modulus; each atomic further reduces the shared challenge into
// its own (smaller) group order when it uses the value as a scalar. This is
// the BLS12-381 Fr order, copied from bbs.Order (kept as a literal here so
// this package does not depend on bbs): it dominates every other group
// order this module uses, in particular kyber's edwards25519.
var Modulus, _ = new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

// Secrets is the witness map passed to GetProver, keyed by
// secret.Secret.BindingKey().
type Secrets = secret.Values

// Commitment is a statement's first protocol move, tree-shaped to match the
// statement tree it was produced from. Atomic statements populate Bytes
// with their own canonically encoded commitment and leave Children empty;
// composites concatenate their children's commitments into Children and
// leave Bytes empty.
type Commitment struct {
	Bytes    []byte
	Children []Commitment
}

// Response is a statement's third protocol move, tree-shaped to match the
// statement tree. ChildChallenges is populated only at OrProof nodes, one
// entry per child, summing to the challenge the OrProof itself received.
// Bindings maps a Secret's BindingKey to the exact response-scalar bytes an
// atomic used for it, letting an ancestor AndProof check that every
// sub-statement sharing a bound Secret produced the identical response.
type Response struct {
	Bytes           []byte
	Bindings        map[string][]byte
	Children        []Response
	ChildChallenges []*big.Int
}

// Transcript is a complete non-interactive (Fiat-Shamir) proof: the
// optional precommitment, the derived challenge, and the commitment and
// response the challenge was computed over. Carrying Commitment alongside
// Challenge and Response (rather than recomputing it) is the alternative
// verification formulation spec.md 6.4 allows.
type Transcript struct {
	Precommitment []byte
	Challenge     *big.Int
	Commitment    Commitment
	Response      Response
}

// Prover is the session side that knows the witness. One instance drives
// one run: precommit, then commit, then exactly one respond.
type Prover interface {
	// Precommit returns data to be published and hashed into the
	// Fiat-Shamir challenge before the Sigma commitment; nil if this
	// statement has none.
	Precommit() ([]byte, error)
	Commit() (Commitment, error)
	Respond(challenge *big.Int) (Response, error)
}

// Verifier is the session side that checks a proof. One instance drives
// one run.
type Verifier interface {
	ProcessPrecommitment(pre []byte) error
	// Verify checks commitment/challenge/response against the bound
	// statement's verification equation(s). It returns a
	// *VerificationError (never panics) on any failure, including a
	// malformed commitment or response shape.
	Verify(commitment Commitment, challenge *big.Int, response Response) error
}

// ProverOptions carries the binding context an AndProof threads through its
// children's GetProver calls.
type ProverOptions struct {
	// Shared holds, per Secret BindingKey, the randomness an earlier
	// sibling already sampled for that Secret; a later sibling reuses it
	// instead of sampling its own, so both children's response slot for
	// that Secret end up identical. nil means "no sharing in effect."
	Shared SharedRandomness
}

// SharedRandomness maps a Secret's BindingKey to the randomness value an
// atomic sampled for it, as a group-agnostic big integer each atomic
// reduces into its own scalar representation.
type SharedRandomness map[string]*big.Int

// ProverOption mutates ProverOptions; see WithSharedRandomness.
type ProverOption func(*ProverOptions)

// WithSharedRandomness threads an existing SharedRandomness table into a
// GetProver call, used internally by AndProof and by binding=true
// DLRepNotEqual/SignatureProof statements. Library callers normally never
// need to pass this themselves.
func WithSharedRandomness(s SharedRandomness) ProverOption {
	return func(o *ProverOptions) { o.Shared = s }
}

// ApplyProverOptions folds opts into a fresh ProverOptions value.
func ApplyProverOptions(opts ...ProverOption) *ProverOptions {
	po := &ProverOptions{}
	for _, o := range opts {
		o(po)
	}
	return po
}

// Statement is the contract every atomic and composite proof implements:
// DLRep, DLRepNotEqual, SignatureProof, AndProof, OrProof.
type Statement interface {
	// GetProver binds values (the witness map) to this statement for one
	// session. It returns a *ConfigurationError if values is missing an
	// entry for any Secret this statement's tree references.
	GetProver(values Secrets, opts ...ProverOption) (Prover, error)
	GetVerifier() Verifier

	// Simulate produces a Transcript that verifies (via
	// VerifySimulationConsistency, not via Verify) without any witness,
	// sampling its own challenge uniformly.
	Simulate() (Transcript, error)
	// SimulateWithChallenge produces a (commitment, response) pair
	// consistent with the given challenge, without a witness.
	SimulateWithChallenge(challenge *big.Int) (Commitment, Response, error)
	// VerifySimulationConsistency re-derives the challenge split and
	// checks each atomic commitment/response shape without re-deriving
	// soundness; it returns true for any output of Simulate, and is
	// expected to return false far less reliably than Verify for a
	// non-simulated, tampered transcript (it is a shape check, not a
	// proof check).
	VerifySimulationConsistency(tr Transcript) (bool, error)

	// CanonicalID returns the canonical byte encoding of this statement's
	// public parameters, used as the STATEMENT_ID component of the
	// Fiat-Shamir hash input.
	CanonicalID() []byte
}
