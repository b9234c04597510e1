package statement

import (
	"math/big"

	"github.com/anupsv/sigma-compose/sigma"
)

// OrProof is the disjunction of n sub-statements: the prover knows a
// witness for exactly one (the "real" branch) and simulates the rest.
// Constructing it flattens nested OrProofs, matching spec.md 9's
// flattening policy and the zksk integration tests that rely on
// Or(Or(a,b), c) == Or(a,b,c). No Secret binds across an OrProof's
// children: only one branch is ever real.
type OrProof struct {
	Children []sigma.Statement
}

// OrOf builds an OrProof, flattening any *OrProof children into this node.
func OrOf(stmts ...sigma.Statement) (*OrProof, error) {
	if len(stmts) == 0 {
		return nil, sigma.NewConfigurationError("or: no children")
	}
	flat := make([]sigma.Statement, 0, len(stmts))
	for _, s := range stmts {
		if s == nil {
			return nil, sigma.NewConfigurationError("or: nil child")
		}
		if o, ok := s.(*OrProof); ok {
			flat = append(flat, o.Children...)
			continue
		}
		flat = append(flat, s)
	}
	return &OrProof{Children: flat}, nil
}

func (o *OrProof) CanonicalID() []byte {
	parts := [][]byte{[]byte("Or")}
	for _, c := range o.Children {
		parts = append(parts, c.CanonicalID())
	}
	return concatBytes(parts...)
}

func (o *OrProof) GetVerifier() sigma.Verifier {
	verifiers := make([]sigma.Verifier, len(o.Children))
	for i, c := range o.Children {
		verifiers[i] = c.GetVerifier()
	}
	return &orVerifier{children: verifiers}
}

// realBranchKey is the key a caller sets in the witness map (alongside the
// real branch's own Secret values) to tell OrProof.GetProver which child is
// the one it actually knows a witness for. There is no Secret object to
// attach this to, so it is looked up by a fixed sentinel key.
const realBranchKey = "__or_real_branch_index__"

// WithRealBranch records which of an OrProof's children the caller can
// actually prove, by index in Children. It must be called once per
// OrProof.GetProver; omitting it is a ConfigurationError, since an OrProof
// prover cannot guess which branch is real from the witness map alone (a
// witness might validly satisfy more than one branch).
func WithRealBranch(values sigma.Secrets, index int) sigma.Secrets {
	if values == nil {
		values = sigma.Secrets{}
	}
	values[realBranchKey] = big.NewInt(int64(index))
	return values
}

func (o *OrProof) GetProver(values sigma.Secrets, opts ...sigma.ProverOption) (sigma.Prover, error) {
	real, ok := values[realBranchKey]
	if !ok {
		return nil, sigma.NewConfigurationError("or: caller must designate the real branch via WithRealBranch")
	}
	idx := int(real.Int64())
	if idx < 0 || idx >= len(o.Children) {
		return nil, sigma.NewConfigurationError("or: real branch index %d out of range", idx)
	}

	realProver, err := o.Children[idx].GetProver(values)
	if err != nil {
		return nil, err
	}

	return &orProver{st: o, realIndex: idx, realProver: realProver}, nil
}

type orProver struct {
	st         *OrProof
	realIndex  int
	realProver sigma.Prover

	simChallenges []*big.Int
	simResponses  []sigma.Response
}

func (p *orProver) Precommit() ([]byte, error) {
	parts := make([][]byte, len(p.st.Children))
	for i, c := range p.st.Children {
		if i == p.realIndex {
			pre, err := p.realProver.Precommit()
			if err != nil {
				return nil, err
			}
			parts[i] = pre
			continue
		}
		tr, err := c.Simulate()
		if err != nil {
			return nil, err
		}
		parts[i] = tr.Precommitment
	}
	return concatBytes(parts...), nil
}

func (p *orProver) Commit() (sigma.Commitment, error) {
	n := len(p.st.Children)
	commits := make([]sigma.Commitment, n)
	p.simChallenges = make([]*big.Int, n)
	p.simResponses = make([]sigma.Response, n)

	for i, c := range p.st.Children {
		if i == p.realIndex {
			com, err := p.realProver.Commit()
			if err != nil {
				return sigma.Commitment{}, err
			}
			commits[i] = com
			continue
		}
		ci := sampleChallenge()
		com, resp, err := c.SimulateWithChallenge(ci)
		if err != nil {
			return sigma.Commitment{}, err
		}
		p.simChallenges[i] = ci
		p.simResponses[i] = resp
		commits[i] = com
	}
	return sigma.Commitment{Children: commits}, nil
}

func (p *orProver) Respond(challenge *big.Int) (sigma.Response, error) {
	n := len(p.st.Children)
	sum := new(big.Int)
	for i := range p.st.Children {
		if i == p.realIndex {
			continue
		}
		sum.Add(sum, p.simChallenges[i])
	}
	sum.Mod(sum, sigma.Modulus)

	realChallenge := new(big.Int).Sub(challenge, sum)
	realChallenge.Mod(realChallenge, sigma.Modulus)

	realResponse, err := p.realProver.Respond(realChallenge)
	if err != nil {
		return sigma.Response{}, err
	}

	children := make([]sigma.Response, n)
	childChallenges := make([]*big.Int, n)
	for i := range p.st.Children {
		if i == p.realIndex {
			children[i] = realResponse
			childChallenges[i] = realChallenge
			continue
		}
		children[i] = p.simResponses[i]
		childChallenges[i] = p.simChallenges[i]
	}

	return sigma.Response{Children: children, ChildChallenges: childChallenges}, nil
}

type orVerifier struct {
	children []sigma.Verifier
}

func (v *orVerifier) ProcessPrecommitment(pre []byte) error {
	parts, err := splitParts(pre, len(v.children))
	if err != nil {
		return sigma.NewVerificationError("or: malformed precommitment: %v", err)
	}
	for i, c := range v.children {
		if err := c.ProcessPrecommitment(parts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *orVerifier) Verify(commitment sigma.Commitment, challenge *big.Int, response sigma.Response) error {
	n := len(v.children)
	if len(commitment.Children) != n || len(response.Children) != n || len(response.ChildChallenges) != n {
		return sigma.NewVerificationError("or: commitment/response shape does not match %d children", n)
	}

	sum := new(big.Int)
	for _, ci := range response.ChildChallenges {
		if ci == nil {
			return sigma.NewVerificationError("or: missing child challenge")
		}
		sum.Add(sum, ci)
	}
	sum.Mod(sum, sigma.Modulus)

	want := new(big.Int).Mod(challenge, sigma.Modulus)
	if sum.Cmp(want) != 0 {
		return sigma.NewVerificationError("or: child challenges do not sum to the parent challenge")
	}

	for i, c := range v.children {
		if err := c.Verify(commitment.Children[i], response.ChildChallenges[i], response.Children[i]); err != nil {
			return sigma.NewVerificationError("or: branch %d failed: %v", i, err)
		}
	}
	return nil
}

// Simulate samples a uniform parent challenge, splits it into |Children|
// shares summing to it, and simulates every branch independently.
func (o *OrProof) Simulate() (sigma.Transcript, error) {
	c := sampleChallenge()
	commitment, response, err := o.SimulateWithChallenge(c)
	if err != nil {
		return sigma.Transcript{}, err
	}
	pre, err := simulatedPrecommitment(o.Children)
	if err != nil {
		return sigma.Transcript{}, err
	}
	return sigma.Transcript{Precommitment: pre, Challenge: c, Commitment: commitment, Response: response}, nil
}

func (o *OrProof) SimulateWithChallenge(challenge *big.Int) (sigma.Commitment, sigma.Response, error) {
	n := len(o.Children)
	shares := make([]*big.Int, n)
	sum := new(big.Int)
	for i := 0; i < n-1; i++ {
		shares[i] = sampleChallenge()
		sum.Add(sum, shares[i])
	}
	sum.Mod(sum, sigma.Modulus)
	last := new(big.Int).Sub(challenge, sum)
	last.Mod(last, sigma.Modulus)
	shares[n-1] = last

	commits := make([]sigma.Commitment, n)
	responses := make([]sigma.Response, n)
	for i, c := range o.Children {
		com, resp, err := c.SimulateWithChallenge(shares[i])
		if err != nil {
			return sigma.Commitment{}, sigma.Response{}, err
		}
		commits[i] = com
		responses[i] = resp
	}
	return sigma.Commitment{Children: commits}, sigma.Response{Children: responses, ChildChallenges: shares}, nil
}

func (o *OrProof) VerifySimulationConsistency(tr sigma.Transcript) (bool, error) {
	n := len(o.Children)
	if len(tr.Commitment.Children) != n || len(tr.Response.Children) != n || len(tr.Response.ChildChallenges) != n {
		return false, nil
	}

	sum := new(big.Int)
	for _, ci := range tr.Response.ChildChallenges {
		if ci == nil {
			return false, nil
		}
		sum.Add(sum, ci)
	}
	sum.Mod(sum, sigma.Modulus)
	if sum.Cmp(new(big.Int).Mod(tr.Challenge, sigma.Modulus)) != 0 {
		return false, nil
	}

	for i, c := range o.Children {
		ok, err := c.VerifySimulationConsistency(sigma.Transcript{
			Challenge:  tr.Response.ChildChallenges[i],
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
