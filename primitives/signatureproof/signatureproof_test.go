package signatureproof

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/anupsv/sigma-compose/bbs"
	"github.com/anupsv/sigma-compose/sigma"
	"github.com/anupsv/sigma-compose/statement"
	"github.com/anupsv/sigma-compose/transcript"
)

func issue(t *testing.T, count int) (*bbs.KeyPair, []*big.Int, *bbs.Signature) {
	t.Helper()
	kp, err := bbs.GenerateKeyPair(count, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	messages := make([]*big.Int, count)
	for i := range messages {
		m, err := bbs.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		messages[i] = m
	}
	sig, err := bbs.Sign(kp.PrivateKey, kp.PublicKey, messages, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return kp, messages, sig
}

func TestSignatureProofProveVerify(t *testing.T) {
	kp, messages, sig := issue(t, 3)

	st, err := New(kp.PublicKey, map[int]*big.Int{0: messages[0]}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prover, err := st.ProverFor(Witness{Signature: sig, Messages: messages})
	if err != nil {
		t.Fatalf("ProverFor: %v", err)
	}

	tr, err := sigma.Prove(st, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(st, tr, transcript.SHA256); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSignatureProofRejectsWrongMessage(t *testing.T) {
	kp, messages, sig := issue(t, 3)

	st, err := New(kp.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tampered := append([]*big.Int(nil), messages...)
	tampered[1] = new(big.Int).Add(tampered[1], big.NewInt(1))

	prover, err := st.ProverFor(Witness{Signature: sig, Messages: tampered})
	if err != nil {
		t.Fatalf("ProverFor: %v", err)
	}
	tr, err := sigma.Prove(st, prover, transcript.SHA256)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := sigma.Verify(st, tr, transcript.SHA256); err == nil {
		t.Fatal("expected verification to fail for a tampered message")
	}
}

func TestSignatureProofSimulationConsistencyNotSound(t *testing.T) {
	kp, _, _ := issue(t, 2)

	st, err := New(kp.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tr, err := st.Simulate()
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	ok, err := st.VerifySimulationConsistency(tr)
	if err != nil {
		t.Fatalf("VerifySimulationConsistency: %v", err)
	}
	if !ok {
		t.Fatal("expected a simulated transcript to be simulation-consistent")
	}

	if err := sigma.Verify(st, tr, transcript.SHA256); err == nil {
		t.Fatal("expected a simulated transcript to fail ordinary Verify")
	}
}

func TestTwoSignaturesCombinedWithAnd(t *testing.T) {
	kp0, messages0, sig0 := issue(t, 3)
	kp1, messages1, sig1 := issue(t, 3)

	st0, err := New(kp0.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New st0: %v", err)
	}
	st1, err := New(kp1.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New st1: %v", err)
	}

	and, err := statement.AndOf(st0, st1)
	if err != nil {
		t.Fatalf("AndOf: %v", err)
	}

	values := sigma.Secrets{}
	values, err = st0.Bind(values, Witness{Signature: sig0, Messages: messages0})
	if err != nil {
		t.Fatalf("Bind st0: %v", err)
	}
	values, err = st1.Bind(values, Witness{Signature: sig1, Messages: messages1})
	if err != nil {
		t.Fatalf("Bind st1: %v", err)
	}

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

func TestOrOfOrFlattensIntoOneThreeAryNode(t *testing.T) {
	kp0, _, _ := issue(t, 2)
	kp1, _, _ := issue(t, 2)
	kp2, messages2, sig2 := issue(t, 2)

	st0, err := New(kp0.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New st0: %v", err)
	}
	st1, err := New(kp1.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New st1: %v", err)
	}
	st2, err := New(kp2.PublicKey, nil, nil)
	if err != nil {
		t.Fatalf("New st2: %v", err)
	}

	inner, err := statement.OrOf(st0, st1)
	if err != nil {
		t.Fatalf("OrOf inner: %v", err)
	}

	// Or(Or(st0,st1), st2) must flatten into a single 3-ary Or, matching
	// spec.md 9's flattening policy (the zksk integration tests rely on
	// exactly this shape), not a nested 2-ary tree.
	or, err := statement.OrOf(inner, st2)
	if err != nil {
		t.Fatalf("OrOf outer: %v", err)
	}
	if len(or.Children) != 3 {
		t.Fatalf("expected flattening into 3 children, got %d", len(or.Children))
	}

	values := sigma.Secrets{}
	values, err = st2.Bind(values, Witness{Signature: sig2, Messages: messages2})
	if err != nil {
		t.Fatalf("Bind st2: %v", err)
	}
	values = statement.WithRealBranch(values, 2)

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
