// Package dlrne implements DLRepNotEqual (DLRNE): proof of knowledge of a
// scalar x with Y0 = x*G0 while Y1 != x*G1, built as a precommitment plus
// an internal AndProof of two DLReps over two fresh auxiliary secrets,
// following spec.md 4.3.
package dlrne

import (
	"math/big"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/util/random"

	"github.com/anupsv/sigma-compose/lincomb"
	"github.com/anupsv/sigma-compose/secret"
	"github.com/anupsv/sigma-compose/sigma"
	"github.com/anupsv/sigma-compose/statement"
)

// Proof is the DLRepNotEqual statement: Y0 = X*G0, Y1 != X*G1. Binding, when
// true, exports X into the sibling shared-randomness table of an enclosing
// AndProof so that another sub-statement also naming X is forced to use the
// same scalar. Only a single witness secret is accepted: spec.md 9 resolves
// the zksk two-secret ([e, s]-style) variant question in favor of this
// one-secret canonical form.
type Proof struct {
	Group   kyber.Group
	Y0, G0  kyber.Point
	Y1, G1  kyber.Point
	X       *secret.Secret
	Binding bool
}

// New builds and validates a DLRepNotEqual statement.
func New(group kyber.Group, y0, g0, y1, g1 kyber.Point, x *secret.Secret, binding bool) (*Proof, error) {
	if group == nil {
		return nil, sigma.NewConfigurationError("dlrne: group is nil")
	}
	if y0 == nil || g0 == nil || y1 == nil || g1 == nil {
		return nil, sigma.NewConfigurationError("dlrne: all four points (Y0,G0,Y1,G1) are required")
	}
	if x == nil {
		return nil, sigma.NewConfigurationError("dlrne: witness secret is required")
	}
	return &Proof{Group: group, Y0: y0, G0: g0, Y1: y1, G1: g1, X: x, Binding: binding}, nil
}

func (d *Proof) CanonicalID() []byte {
	binding := byte(0)
	if d.Binding {
		binding = 1
	}
	return concat(
		[]byte("DLRNE"),
		pointBytes(d.Y0), pointBytes(d.G0),
		pointBytes(d.Y1), pointBytes(d.G1),
		[]byte{binding},
	)
}

// innerStatement builds the internal AndProof over the two fresh auxiliary
// secrets (alpha, beta = x*alpha), given the precommitment point C.
func (d *Proof) innerStatement(alphaSecret, betaSecret *secret.Secret, c kyber.Point) (*statement.AndProof, error) {
	group := d.Group
	negC := group.Point().Neg(c)
	negG1 := group.Point().Neg(d.G1)

	expr1 := lincomb.Term1(group, alphaSecret, d.Y1).Plus(lincomb.Term1(group, betaSecret, negG1))
	dlrep1, err := statement.Dlrep(group, negC, expr1)
	if err != nil {
		return nil, err
	}

	expr2 := lincomb.Term1(group, d.X, d.G0)
	dlrep2, err := statement.Dlrep(group, d.Y0, expr2)
	if err != nil {
		return nil, err
	}

	return statement.AndOf(dlrep1, dlrep2)
}

func (d *Proof) GetVerifier() sigma.Verifier {
	return &verifier{st: d}
}

func (d *Proof) GetProver(values sigma.Secrets, opts ...sigma.ProverOption) (sigma.Prover, error) {
	x, ok := values.Get(d.X)
	if !ok {
		return nil, sigma.NewConfigurationError("dlrne: missing witness for secret %s", d.X)
	}
	return &prover{st: d, x: x, opts: sigma.ApplyProverOptions(opts...)}, nil
}

type prover struct {
	st   *Proof
	x    *big.Int
	opts *sigma.ProverOptions

	inner sigma.Prover
}

func (p *prover) Precommit() ([]byte, error) {
	group := p.st.Group

	var alpha kyber.Scalar
	zero := group.Scalar().Zero()
	for {
		alpha = group.Scalar().Pick(random.New())
		if !alpha.Equal(zero) {
			break
		}
	}
	xScalar := group.Scalar().SetBytes(p.x.Bytes())
	beta := group.Scalar().Mul(alpha, xScalar)

	c := group.Point().Add(
		group.Point().Mul(beta, p.st.G1),
		group.Point().Neg(group.Point().Mul(alpha, p.st.Y1)),
	)

	alphaSecret := secret.New()
	betaSecret := secret.New()

	and, err := p.st.innerStatement(alphaSecret, betaSecret, c)
	if err != nil {
		return nil, err
	}

	innerValues := sigma.Secrets{}
	innerValues.Set(alphaSecret, new(big.Int).SetBytes(alpha.Bytes()))
	innerValues.Set(betaSecret, new(big.Int).SetBytes(beta.Bytes()))
	innerValues.Set(p.st.X, p.x)

	var innerOpts []sigma.ProverOption
	if p.st.Binding {
		if p.opts.Shared == nil {
			p.opts.Shared = sigma.SharedRandomness{}
		}
		innerOpts = append(innerOpts, sigma.WithSharedRandomness(p.opts.Shared))
	}

	innerProver, err := and.GetProver(innerValues, innerOpts...)
	if err != nil {
		return nil, err
	}
	p.inner = innerProver

	innerPre, err := innerProver.Precommit()
	if err != nil {
		return nil, err
	}

	return concat(pointBytes(c), innerPre), nil
}

func (p *prover) Commit() (sigma.Commitment, error) {
	return p.inner.Commit()
}

func (p *prover) Respond(challenge *big.Int) (sigma.Response, error) {
	resp, err := p.inner.Respond(challenge)
	if err != nil {
		return sigma.Response{}, err
	}
	if !p.st.Binding {
		delete(resp.Bindings, p.st.X.BindingKey())
	}
	return resp, nil
}

type verifier struct {
	st *Proof

	c     kyber.Point
	inner sigma.Verifier
}

func (v *verifier) ProcessPrecommitment(pre []byte) error {
	group := v.st.Group
	parts, err := splitTwo(pre)
	if err != nil {
		return sigma.NewVerificationError("dlrne: malformed precommitment: %v", err)
	}

	c := group.Point()
	if err := c.UnmarshalBinary(parts[0]); err != nil {
		return sigma.NewVerificationError("dlrne: malformed precommitment point: %v", err)
	}
	if c.Equal(group.Point().Null()) {
		return sigma.NewVerificationError("dlrne: precommitment C must be non-zero")
	}

	alphaSecret := secret.New()
	betaSecret := secret.New()
	and, err := v.st.innerStatement(alphaSecret, betaSecret, c)
	if err != nil {
		return err
	}

	inner := and.GetVerifier()
	if err := inner.ProcessPrecommitment(parts[1]); err != nil {
		return err
	}

	v.c = c
	v.inner = inner
	return nil
}

func (v *verifier) Verify(commitment sigma.Commitment, challenge *big.Int, response sigma.Response) error {
	if v.inner == nil {
		return sigma.NewVerificationError("dlrne: Verify called before ProcessPrecommitment")
	}
	return v.inner.Verify(commitment, challenge, response)
}

// Simulate and SimulateWithChallenge sample a non-zero C and simulate the
// internal AndProof consistently with the sampled/given challenge.
func (d *Proof) Simulate() (sigma.Transcript, error) {
	group := d.Group
	var c kyber.Point
	null := group.Point().Null()
	for {
		c = group.Point().Pick(random.New())
		if !c.Equal(null) {
			break
		}
	}

	challenge := sampleChallenge()
	and, _, _, err := d.buildForSimulation(c)
	if err != nil {
		return sigma.Transcript{}, err
	}

	commitment, response, err := and.SimulateWithChallenge(challenge)
	if err != nil {
		return sigma.Transcript{}, err
	}

	innerPre, err := simulatedInnerPrecommitment(and)
	if err != nil {
		return sigma.Transcript{}, err
	}

	return sigma.Transcript{
		Precommitment: concat(pointBytes(c), innerPre),
		Challenge:     challenge,
		Commitment:    commitment,
		Response:      response,
	}, nil
}

func (d *Proof) SimulateWithChallenge(challenge *big.Int) (sigma.Commitment, sigma.Response, error) {
	group := d.Group
	var c kyber.Point
	null := group.Point().Null()
	for {
		c = group.Point().Pick(random.New())
		if !c.Equal(null) {
			break
		}
	}
	and, _, _, err := d.buildForSimulation(c)
	if err != nil {
		return sigma.Commitment{}, sigma.Response{}, err
	}
	return and.SimulateWithChallenge(challenge)
}

func (d *Proof) buildForSimulation(c kyber.Point) (*statement.AndProof, *secret.Secret, *secret.Secret, error) {
	alphaSecret := secret.New()
	betaSecret := secret.New()
	and, err := d.innerStatement(alphaSecret, betaSecret, c)
	return and, alphaSecret, betaSecret, err
}

func (d *Proof) VerifySimulationConsistency(tr sigma.Transcript) (bool, error) {
	parts, err := splitTwo(tr.Precommitment)
	if err != nil {
		return false, nil
	}
	group := d.Group
	c := group.Point()
	if err := c.UnmarshalBinary(parts[0]); err != nil {
		return false, nil
	}

	and, _, _, err := d.buildForSimulation(c)
	if err != nil {
		return false, err
	}

	return and.VerifySimulationConsistency(sigma.Transcript{
		Challenge:  tr.Challenge,
		Commitment: tr.Commitment,
		Response:   tr.Response,
	})
}

// simulatedInnerPrecommitment produces a precommitment for the internal
// AndProof matching the shape ProcessPrecommitment expects (both DLRep
// children emit none, so this is an empty-but-correctly-framed blob).
func simulatedInnerPrecommitment(and *statement.AndProof) ([]byte, error) {
	tr, err := and.Simulate()
	if err != nil {
		return nil, err
	}
	return tr.Precommitment, nil
}
