package secret

import (
	"math/big"
	"testing"
)

func TestAnonymousSecretsHaveDistinctKeys(t *testing.T) {
	a := New()
	b := New()
	if a.BindingKey() == b.BindingKey() {
		t.Fatalf("anonymous secrets must not collide: %s == %s", a.BindingKey(), b.BindingKey())
	}
}

func TestNamedSecretsShareKey(t *testing.T) {
	a := Named("x")
	b := Named("x")
	if a == b {
		t.Fatalf("Named should mint distinct Secret objects")
	}
	if a.BindingKey() != b.BindingKey() {
		t.Fatalf("same-named secrets must share a binding key: %s != %s", a.BindingKey(), b.BindingKey())
	}
}

func TestValuesRoundTrip(t *testing.T) {
	s := Named("x")
	v := Values{}
	v.Set(s, big.NewInt(42))

	got, ok := v.Get(s)
	if !ok {
		t.Fatal("expected value to be present")
	}
	if got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("got %s, want 42", got)
	}

	other := New()
	if _, ok := v.Get(other); ok {
		t.Fatal("unrelated secret should not resolve to a value")
	}
}

func TestEmptyNameFallsBackToAnonymous(t *testing.T) {
	a := Named("")
	b := Named("")
	if a.BindingKey() == b.BindingKey() {
		t.Fatal("Named(\"\") must not create a shared binding key")
	}
}
