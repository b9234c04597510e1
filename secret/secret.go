// Package secret implements the witness placeholders used throughout a
// statement tree: Secret values are never embedded directly in an
// Expression or a Statement, only a *Secret identity is, so the same
// witness can be referenced from several sub-statements and bound
// together at proving time.
package secret

import (
	"fmt"
	"math/big"
	"sync/atomic"
)

var nextID uint64

// Secret is a named or anonymous witness placeholder. Two Secrets denote
// the same scalar during proving and verifying iff they share a non-empty
// Name; anonymous Secrets are distinguished by their own identity only,
// never by coincidence with another anonymous Secret.
type Secret struct {
	id   uint64
	Name string
}

// New returns an anonymous Secret, usable only by direct reference (its own
// pointer identity), never by name collision with another Secret.
func New() *Secret {
	return &Secret{id: atomic.AddUint64(&nextID, 1)}
}

// Named returns a Secret that binds to every other Secret sharing name
// across a statement tree, subject to each sub-statement's own binding
// rules (DLRep always exports named secrets; DLRepNotEqual only when its
// binding flag is set).
func Named(name string) *Secret {
	if name == "" {
		return New()
	}
	return &Secret{id: atomic.AddUint64(&nextID, 1), Name: name}
}

// BindingKey returns the identity a Prover session uses to unify Secrets
// across sub-statements: the Name if one was supplied, otherwise a private
// key derived from this Secret's own stable id that can never collide with
// any other Secret's key.
func (s *Secret) BindingKey() string {
	if s == nil {
		return "nil"
	}
	if s.Name != "" {
		return "name:" + s.Name
	}
	return fmt.Sprintf("anon:%d", s.id)
}

func (s *Secret) String() string {
	if s == nil {
		return "<nil secret>"
	}
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("secret#%d", s.id)
}

// Values is the witness map a caller supplies to start a Prover session:
// BindingKey() of every Secret reachable from the statement's tree must
// have an entry, or GetProver returns a ConfigurationError. Every witness
// in this framework is, underneath whichever group represents it, a scalar
// mod some prime order, so a single *big.Int representation is shared by
// the kyber-backed statements and the BLS12-381-backed SignatureProof atom.
type Values map[string]*big.Int

// Set records val under s's BindingKey.
func (v Values) Set(s *Secret, val *big.Int) {
	v[s.BindingKey()] = val
}

// Get looks up the value bound to s, if any.
func (v Values) Get(s *Secret) (*big.Int, bool) {
	val, ok := v[s.BindingKey()]
	return val, ok
}
