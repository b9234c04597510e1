package lincomb

import (
	"testing"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/group/edwards25519"

	"github.com/anupsv/sigma-compose/secret"
)

func TestPlusConcatenatesWithoutSimplifying(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()
	x := secret.Named("x")

	e1 := Term1(group, x, g)
	e2 := e1.Plus(e1)

	if len(e2.Terms) != 2 {
		t.Fatalf("expected 2 terms after concatenation, got %d", len(e2.Terms))
	}
	if e2.Terms[0].Secret != e2.Terms[1].Secret {
		t.Fatal("duplicate secret across terms should stay the same identity")
	}
}

func TestValidateRejectsEmptyExpression(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	e := Expression{Group: group}
	if err := e.Validate(); err == nil {
		t.Fatal("expected validation error for empty expression")
	}
}

func TestEvalComputesLinearCombination(t *testing.T) {
	group := edwards25519.NewBlakeSHA256Ed25519()
	g := group.Point().Base()
	x := secret.Named("x")
	e := Term1(group, x, g)

	three := group.Scalar().SetInt64(3)
	got, err := Eval(e, []kyber.Scalar{three})
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := group.Point().Mul(three, g)
	if !got.Equal(want) {
		t.Fatal("Eval(3*G) != 3*G")
	}
}
