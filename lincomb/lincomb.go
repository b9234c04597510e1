// Package lincomb implements Expression, the linear combination
// Σ sᵢ·Gᵢ of Secret placeholders and group elements that every atomic
// statement in this module is built from.
package lincomb

import (
	"fmt"

	"go.dedis.ch/kyber/v3"

	"github.com/anupsv/sigma-compose/secret"
)

// Term is one s*G addend of an Expression.
type Term struct {
	Secret *secret.Secret
	Base   kyber.Point
}

// Expression is an ordered, unsimplified linear combination Σ sᵢ·Gᵢ over a
// single kyber.Group. No simplification or deduplication is performed: a
// Secret referenced by two terms stays written twice, matching the way the
// terms were built.
type Expression struct {
	Group kyber.Group
	Terms []Term
}

// Term1 builds the one-term expression s*G.
func Term1(group kyber.Group, s *secret.Secret, g kyber.Point) Expression {
	return Expression{Group: group, Terms: []Term{{Secret: s, Base: g}}}
}

// Plus concatenates this expression's terms with other's, left to right.
// The two expressions must share the same Group.
func (e Expression) Plus(other Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(other.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, other.Terms...)
	group := e.Group
	if group == nil {
		group = other.Group
	}
	return Expression{Group: group, Terms: terms}
}

// Add is a builder-surface synonym for Plus, matching the s*G + s'*G' style
// described for statement construction.
func (e Expression) Add(other Expression) Expression {
	return e.Plus(other)
}

// Secrets returns the distinct Secrets referenced by this expression's
// terms, in first-occurrence order.
func (e Expression) Secrets() []*secret.Secret {
	seen := make(map[string]bool, len(e.Terms))
	out := make([]*secret.Secret, 0, len(e.Terms))
	for _, t := range e.Terms {
		key := t.Secret.BindingKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t.Secret)
	}
	return out
}

// Validate rejects structurally malformed expressions: no terms, a nil
// Group, or a nil base point in any term.
func (e Expression) Validate() error {
	if e.Group == nil {
		return fmt.Errorf("lincomb: expression has no group")
	}
	if len(e.Terms) == 0 {
		return fmt.Errorf("lincomb: expression has no terms")
	}
	for i, t := range e.Terms {
		if t.Secret == nil {
			return fmt.Errorf("lincomb: term %d has no secret", i)
		}
		if t.Base == nil {
			return fmt.Errorf("lincomb: term %d has no base point", i)
		}
	}
	return nil
}

// Eval computes Σ values[i]·Gᵢ for the supplied per-term scalar values,
// which must be exactly len(e.Terms) long and in term order.
func Eval(e Expression, values []kyber.Scalar) (kyber.Point, error) {
	if len(values) != len(e.Terms) {
		return nil, fmt.Errorf("lincomb: got %d values for %d terms", len(values), len(e.Terms))
	}
	acc := e.Group.Point().Null()
	for i, t := range e.Terms {
		acc = acc.Add(acc, e.Group.Point().Mul(values[i], t.Base))
	}
	return acc, nil
}
