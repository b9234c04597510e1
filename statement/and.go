package statement

import (
	"bytes"
	"math/big"

	"github.com/anupsv/sigma-compose/sigma"
)

// AndProof is the conjunction of n sub-statements, sharing one challenge.
// Constructing it flattens nested AndProofs: (a & b) & c yields one 3-ary
// node, matching spec.md 9's flattening policy.
type AndProof struct {
	Children []sigma.Statement
}

// AndOf builds an AndProof, flattening any *AndProof children into this
// node rather than nesting them.
func AndOf(stmts ...sigma.Statement) (*AndProof, error) {
	if len(stmts) == 0 {
		return nil, sigma.NewConfigurationError("and: no children")
	}
	flat := make([]sigma.Statement, 0, len(stmts))
	for _, s := range stmts {
		if s == nil {
			return nil, sigma.NewConfigurationError("and: nil child")
		}
		if a, ok := s.(*AndProof); ok {
			flat = append(flat, a.Children...)
			continue
		}
		flat = append(flat, s)
	}
	return &AndProof{Children: flat}, nil
}

func (a *AndProof) CanonicalID() []byte {
	parts := [][]byte{[]byte("And")}
	for _, c := range a.Children {
		parts = append(parts, c.CanonicalID())
	}
	return concatBytes(parts...)
}

func (a *AndProof) GetVerifier() sigma.Verifier {
	verifiers := make([]sigma.Verifier, len(a.Children))
	for i, c := range a.Children {
		verifiers[i] = c.GetVerifier()
	}
	return &andVerifier{children: verifiers}
}

func (a *AndProof) GetProver(values sigma.Secrets, opts ...sigma.ProverOption) (sigma.Prover, error) {
	po := sigma.ApplyProverOptions(opts...)
	shared := po.Shared
	if shared == nil {
		shared = sigma.SharedRandomness{}
	}

	childProvers := make([]sigma.Prover, len(a.Children))
	for i, c := range a.Children {
		cp, err := c.GetProver(values, sigma.WithSharedRandomness(shared))
		if err != nil {
			return nil, err
		}
		childProvers[i] = cp
	}
	return &andProver{children: childProvers}, nil
}

type andProver struct {
	children []sigma.Prover
}

func (p *andProver) Precommit() ([]byte, error) {
	parts := make([][]byte, len(p.children))
	for i, c := range p.children {
		pre, err := c.Precommit()
		if err != nil {
			return nil, err
		}
		parts[i] = pre
	}
	return concatBytes(parts...), nil
}

func (p *andProver) Commit() (sigma.Commitment, error) {
	children := make([]sigma.Commitment, len(p.children))
	for i, c := range p.children {
		com, err := c.Commit()
		if err != nil {
			return sigma.Commitment{}, err
		}
		children[i] = com
	}
	return sigma.Commitment{Children: children}, nil
}

func (p *andProver) Respond(challenge *big.Int) (sigma.Response, error) {
	children := make([]sigma.Response, len(p.children))
	merged := make(map[string][]byte)
	for i, c := range p.children {
		r, err := c.Respond(challenge)
		if err != nil {
			return sigma.Response{}, err
		}
		children[i] = r
		for k, v := range r.Bindings {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return sigma.Response{Children: children, Bindings: merged}, nil
}

type andVerifier struct {
	children []sigma.Verifier
}

func (v *andVerifier) ProcessPrecommitment(pre []byte) error {
	parts, err := splitParts(pre, len(v.children))
	if err != nil {
		return sigma.NewVerificationError("and: malformed precommitment: %v", err)
	}
	for i, c := range v.children {
		if err := c.ProcessPrecommitment(parts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *andVerifier) Verify(commitment sigma.Commitment, challenge *big.Int, response sigma.Response) error {
	if len(commitment.Children) != len(v.children) {
		return sigma.NewVerificationError("and: commitment has %d children, want %d", len(commitment.Children), len(v.children))
	}
	if len(response.Children) != len(v.children) {
		return sigma.NewVerificationError("and: response has %d children, want %d", len(response.Children), len(v.children))
	}

	merged := make(map[string][]byte)
	for i, c := range v.children {
		if err := c.Verify(commitment.Children[i], challenge, response.Children[i]); err != nil {
			return err
		}
		for k, v := range response.Children[i].Bindings {
			if existing, ok := merged[k]; ok {
				if !bytes.Equal(existing, v) {
					return sigma.NewVerificationError("and: bound secret has inconsistent response across sub-statements")
				}
			} else {
				merged[k] = v
			}
		}
	}
	return nil
}

// Simulate samples a uniform challenge and delegates to
// SimulateWithChallenge.
func (a *AndProof) Simulate() (sigma.Transcript, error) {
	c := sampleChallenge()
	commitment, response, err := a.SimulateWithChallenge(c)
	if err != nil {
		return sigma.Transcript{}, err
	}
	pre, err := simulatedPrecommitment(a.Children)
	if err != nil {
		return sigma.Transcript{}, err
	}
	return sigma.Transcript{Precommitment: pre, Challenge: c, Commitment: commitment, Response: response}, nil
}

func (a *AndProof) SimulateWithChallenge(challenge *big.Int) (sigma.Commitment, sigma.Response, error) {
	children := make([]sigma.Commitment, len(a.Children))
	responses := make([]sigma.Response, len(a.Children))
	for i, c := range a.Children {
		com, resp, err := c.SimulateWithChallenge(challenge)
		if err != nil {
			return sigma.Commitment{}, sigma.Response{}, err
		}
		children[i] = com
		responses[i] = resp
	}
	return sigma.Commitment{Children: children}, sigma.Response{Children: responses}, nil
}

func (a *AndProof) VerifySimulationConsistency(tr sigma.Transcript) (bool, error) {
	if len(tr.Commitment.Children) != len(a.Children) || len(tr.Response.Children) != len(a.Children) {
		return false, nil
	}
	for i, c := range a.Children {
		ok, err := c.VerifySimulationConsistency(sigma.Transcript{
			Challenge:  tr.Challenge,
			Commitment: tr.Commitment.Children[i],
			Response:   tr.Response.Children[i],
		})
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// simulatedPrecommitment builds a best-effort precommitment for a
// composite's own Simulate(): each child simulates a fresh transcript (with
// its own independent challenge, which is fine since only the
// precommitment bytes are used here) and contributes its precommitment.
func simulatedPrecommitment(children []sigma.Statement) ([]byte, error) {
	parts := make([][]byte, len(children))
	for i, c := range children {
		tr, err := c.Simulate()
		if err != nil {
			return nil, err
		}
		parts[i] = tr.Precommitment
	}
	return concatBytes(parts...), nil
}
