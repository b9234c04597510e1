package statement

import (
	"math/big"
	"testing"

	"go.dedis.ch/kyber/v3/group/edwards25519"

	"github.com/anupsv/sigma-compose/lincomb"
	"github.com/anupsv/sigma-compose/secret"
	"github.com/anupsv/sigma-compose/sigma"
	"github.com/anupsv/sigma-compose/transcript"
)

func TestDLRepBasicProveVerify(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()

	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y := group.Point().Mul(xv, g)

	st, err := Dlrep(group, y, lincomb.Term1(group, x, g))
	if err != nil {
		t.Fatalf("Dlrep: %v", err)
	}

	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))

	prover, err := st.GetProver(values)
	if err != nil {
		t.Fatalf("GetProver: %v", err)
	}

	tr, err := sigma.Prove(st, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(st, tr, transcript.SHA256); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestDLRepRejectsWrongWitness(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()

	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y := group.Point().Mul(xv, g)

	st, err := Dlrep(group, y, lincomb.Term1(group, x, g))
	if err != nil {
		t.Fatalf("Dlrep: %v", err)
	}

	wrong := group.Scalar().Pick(group.RandomStream())
	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(wrong.Bytes()))

	prover, err := st.GetProver(values)
	if err != nil {
		t.Fatalf("GetProver: %v", err)
	}
	tr, err := sigma.Prove(st, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(st, tr, transcript.SHA256); err == nil {
		t.Fatal("expected verification to fail for a wrong witness")
	}
}

func TestAndProofBindsSharedSecret(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g0 := group.Point().Base()
	g1 := group.Point().Pick(group.RandomStream())

	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y0 := group.Point().Mul(xv, g0)
	y1 := group.Point().Mul(xv, g1)

	left, err := Dlrep(group, y0, lincomb.Term1(group, x, g0))
	if err != nil {
		t.Fatalf("Dlrep left: %v", err)
	}
	right, err := Dlrep(group, y1, lincomb.Term1(group, x, g1))
	if err != nil {
		t.Fatalf("Dlrep right: %v", err)
	}

	and, err := AndOf(left, right)
	if err != nil {
		t.Fatalf("AndOf: %v", err)
	}

	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))

	prover, err := and.GetProver(values)
	if err != nil {
		t.Fatalf("GetProver: %v", err)
	}
	tr, err := sigma.Prove(and, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(and, tr, transcript.SHA256); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

// TestAndProofRejectsInconsistentBinding forces the two children to disagree
// on x's response by bypassing AndProof.GetProver's shared-randomness
// wiring, simulating what an adversarial prover implementation would submit.
func TestAndProofRejectsInconsistentBinding(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g0 := group.Point().Base()
	g1 := group.Point().Pick(group.RandomStream())

	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y0 := group.Point().Mul(xv, g0)
	y1 := group.Point().Mul(xv, g1)

	left, err := Dlrep(group, y0, lincomb.Term1(group, x, g0))
	if err != nil {
		t.Fatalf("Dlrep left: %v", err)
	}
	right, err := Dlrep(group, y1, lincomb.Term1(group, x, g1))
	if err != nil {
		t.Fatalf("Dlrep right: %v", err)
	}

	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))

	leftProver, err := left.GetProver(values)
	if err != nil {
		t.Fatalf("left GetProver: %v", err)
	}
	rightProver, err := right.GetProver(values)
	if err != nil {
		t.Fatalf("right GetProver: %v", err)
	}

	leftCommit, err := leftProver.Commit()
	if err != nil {
		t.Fatalf("left Commit: %v", err)
	}
	rightCommit, err := rightProver.Commit()
	if err != nil {
		t.Fatalf("right Commit: %v", err)
	}

	challenge := big.NewInt(12345)
	leftResp, err := leftProver.Respond(challenge)
	if err != nil {
		t.Fatalf("left Respond: %v", err)
	}
	rightResp, err := rightProver.Respond(challenge)
	if err != nil {
		t.Fatalf("right Respond: %v", err)
	}

	and, err := AndOf(left, right)
	if err != nil {
		t.Fatalf("AndOf: %v", err)
	}
	commitment := sigma.Commitment{Children: []sigma.Commitment{leftCommit, rightCommit}}
	response := sigma.Response{
		Children: []sigma.Response{leftResp, rightResp},
		Bindings: map[string][]byte{},
	}

	verifier := and.GetVerifier()
	if err := verifier.ProcessPrecommitment(concatBytes(nil, nil)); err != nil {
		t.Fatalf("ProcessPrecommitment: %v", err)
	}
	if err := verifier.Verify(commitment, challenge, response); err == nil {
		t.Fatal("expected independently-sampled randomness to fail binding check")
	}
}

func TestOrProofWithOneInvalidBranch(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()

	x := secret.Named("x")
	xv := group.Scalar().Pick(group.RandomStream())
	y := group.Point().Mul(xv, g)

	real, err := Dlrep(group, y, lincomb.Term1(group, x, g))
	if err != nil {
		t.Fatalf("Dlrep real: %v", err)
	}

	other := secret.New()
	bogusY := group.Point().Pick(group.RandomStream())
	fake, err := Dlrep(group, bogusY, lincomb.Term1(group, other, g))
	if err != nil {
		t.Fatalf("Dlrep fake: %v", err)
	}

	or, err := OrOf(real, fake)
	if err != nil {
		t.Fatalf("OrOf: %v", err)
	}

	values := sigma.Secrets{}
	values.Set(x, new(big.Int).SetBytes(xv.Bytes()))
	values = WithRealBranch(values, 0)

	prover, err := or.GetProver(values)
	if err != nil {
		t.Fatalf("GetProver: %v", err)
	}
	tr, err := sigma.Prove(or, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(or, tr, transcript.SHA256); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestOrProofFlattensNestedChildren(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()

	mk := func() *DLRep {
		s := secret.New()
		y := group.Point().Pick(group.RandomStream())
		st, err := Dlrep(group, y, lincomb.Term1(group, s, g))
		if err != nil {
			t.Fatalf("Dlrep: %v", err)
		}
		return st
	}

	a, b, c := mk(), mk(), mk()
	inner, err := OrOf(a, b)
	if err != nil {
		t.Fatalf("OrOf inner: %v", err)
	}
	outer, err := OrOf(inner, c)
	if err != nil {
		t.Fatalf("OrOf outer: %v", err)
	}
	if len(outer.Children) != 3 {
		t.Fatalf("expected flattening to produce 3 children, got %d", len(outer.Children))
	}
}

func TestAndProofFlattensNestedChildren(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()

	mk := func() *DLRep {
		s := secret.New()
		y := group.Point().Pick(group.RandomStream())
		st, err := Dlrep(group, y, lincomb.Term1(group, s, g))
		if err != nil {
			t.Fatalf("Dlrep: %v", err)
		}
		return st
	}

	a, b, c := mk(), mk(), mk()
	inner, err := AndOf(a, b)
	if err != nil {
		t.Fatalf("AndOf inner: %v", err)
	}
	outer, err := AndOf(inner, c)
	if err != nil {
		t.Fatalf("AndOf outer: %v", err)
	}
	if len(outer.Children) != 3 {
		t.Fatalf("expected flattening to produce 3 children, got %d", len(outer.Children))
	}
}
