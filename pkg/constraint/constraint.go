// Package constraint provides composable business-time predicates.
//
// A Constraint is a closed variant over four node kinds: a leaf wrapping an
// opaque predicate, and the combinators Not, And and Or. Except is sugar
// over And and Not and has no runtime variant of its own. Evaluation is a
// recursive interpretation of the tree in the order children were supplied.
package constraint

import (
	"strings"
	"time"
)

// Predicate classifies a single instant
type Predicate interface {
	IsBusinessTime(t time.Time) bool
}

// Source is a fallible predicate, typically backed by external data.
//
// A Source may perform I/O on every call but must return the same answer
// for equal instants during one engine operation. If it does not, the
// number of iterations an operation needs is undefined. Keeping a source
// stable is the caller's responsibility.
type Source interface {
	Evaluate(t time.Time) (bool, error)
}

// Describer is implemented by leaves whose label depends on the instant,
// such as a holiday calendar naming the holiday that applies.
type Describer interface {
	Describe(t time.Time) string
}

// Kind identifies the node variant of a Constraint
type Kind int

const (
	KindLeaf Kind = iota
	KindNot
	KindAnd
	KindOr
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindNot:
		return "not"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "unknown"
	}
}

// Constraint is an immutable node of a constraint tree.
// The zero value is a leaf without a source and never holds.
type Constraint struct {
	kind     Kind
	source   Source
	children []Constraint
	label    string
}

type predicateSource struct {
	p Predicate
}

func (s predicateSource) Evaluate(t time.Time) (bool, error) {
	return s.p.IsBusinessTime(t), nil
}

func (s predicateSource) Describe(t time.Time) string {
	if d, ok := s.p.(Describer); ok {
		return d.Describe(t)
	}
	return ""
}

// FuncPredicate adapts a plain function to Predicate
type FuncPredicate func(t time.Time) bool

// IsBusinessTime calls f(t)
func (f FuncPredicate) IsBusinessTime(t time.Time) bool {
	return f(t)
}

// Leaf wraps an infallible predicate
func Leaf(p Predicate) Constraint {
	return Constraint{kind: KindLeaf, source: predicateSource{p: p}}
}

// FromSource wraps a fallible source. Errors returned by the source are
// passed to the caller of Evaluate unchanged.
func FromSource(s Source) Constraint {
	return Constraint{kind: KindLeaf, source: s}
}

// Func builds a labelled leaf from a function
func Func(label string, fn func(t time.Time) bool) Constraint {
	return Leaf(FuncPredicate(fn)).WithLabel(label)
}

// Not negates inner
func Not(inner Constraint) Constraint {
	return Constraint{kind: KindNot, children: []Constraint{inner}}
}

// And holds when every child holds. An empty And always holds.
func And(children ...Constraint) Constraint {
	return Constraint{kind: KindAnd, children: clone(children)}
}

// Or holds when any child holds. An empty Or never holds.
func Or(children ...Constraint) Constraint {
	return Constraint{kind: KindOr, children: clone(children)}
}

// Except holds when base holds and none of the exceptions do.
// It is exactly And(base, Not(Or(exceptions...))).
func Except(base Constraint, exceptions ...Constraint) Constraint {
	return And(base, Not(Or(exceptions...)))
}

// WithLabel returns a copy of c carrying label. A node label takes
// precedence over labels found further down the tree in Explain.
func (c Constraint) WithLabel(label string) Constraint {
	c.label = label
	return c
}

// Label returns the node's own label
func (c Constraint) Label() string {
	return c.label
}

// Kind returns the node variant
func (c Constraint) Kind() Kind {
	return c.kind
}

// Children returns a copy of the child nodes
func (c Constraint) Children() []Constraint {
	return clone(c.children)
}

// Source returns the source of a leaf, or nil for composite nodes
func (c Constraint) Source() Source {
	return c.source
}

// Evaluate classifies t. The first error raised by a source aborts the
// evaluation and is returned unchanged.
func (c Constraint) Evaluate(t time.Time) (bool, error) {
	switch c.kind {
	case KindLeaf:
		if c.source == nil {
			return false, nil
		}
		return c.source.Evaluate(t)

	case KindNot:
		ok, err := c.children[0].Evaluate(t)
		if err != nil {
			return false, err
		}
		return !ok, nil

	case KindAnd:
		for _, child := range c.children {
			ok, err := child.Evaluate(t)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case KindOr:
		for _, child := range c.children {
			ok, err := child.Evaluate(t)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

// IsBusinessTime classifies t, treating source errors as "not business time".
// It lets a Constraint be nested as a Predicate; use Evaluate to see errors.
func (c Constraint) IsBusinessTime(t time.Time) bool {
	ok, err := c.Evaluate(t)
	return ok && err == nil
}

// Explain classifies t and names the node that decided the result.
//
// A failing And is explained by its first failing child; a holding Or by
// its first holding child and a failing Or by its first child. Not passes
// its inner explanation through, so the exception of an Except is named
// by the exception that matched.
func (c Constraint) Explain(t time.Time) (bool, string, error) {
	switch c.kind {
	case KindLeaf:
		ok, err := c.Evaluate(t)
		if err != nil {
			return false, "", err
		}
		if c.label != "" {
			return ok, c.label, nil
		}
		if d, isDescriber := c.source.(Describer); isDescriber {
			return ok, d.Describe(t), nil
		}
		return ok, "", nil

	case KindNot:
		ok, label, err := c.children[0].Explain(t)
		if err != nil {
			return false, "", err
		}
		return !ok, c.labelOr(label), nil

	case KindAnd:
		for _, child := range c.children {
			ok, label, err := child.Explain(t)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, c.labelOr(label), nil
			}
		}
		return true, c.label, nil

	case KindOr:
		first := ""
		for i, child := range c.children {
			ok, label, err := child.Explain(t)
			if err != nil {
				return false, "", err
			}
			if ok {
				return true, c.labelOr(label), nil
			}
			if i == 0 {
				first = label
			}
		}
		return false, c.labelOr(first), nil
	}
	return false, c.label, nil
}

// String renders the tree, using labels where present
func (c Constraint) String() string {
	switch c.kind {
	case KindLeaf:
		if c.label != "" {
			return c.label
		}
		return "leaf"
	case KindNot:
		return "not(" + c.children[0].String() + ")"
	default:
		parts := make([]string, len(c.children))
		for i, child := range c.children {
			parts[i] = child.String()
		}
		s := c.kind.String() + "(" + strings.Join(parts, ", ") + ")"
		if c.label != "" {
			s = c.label + ":" + s
		}
		return s
	}
}

func (c Constraint) labelOr(fallback string) string {
	if c.label != "" {
		return c.label
	}
	return fallback
}

func clone(cs []Constraint) []Constraint {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Constraint, len(cs))
	copy(out, cs)
	return out
}
