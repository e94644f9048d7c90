package types

import "fmt"

// Variance is the direction in which a type argument's subtyping relates to
// its container's subtyping, either declared on a type parameter or given as
// a use-site projection
type Variance uint8

const (
	Invariant Variance = iota
	Out
	In
)

func (v Variance) String() string {
	switch v {
	case Out:
		return "out"
	case In:
		return "in"
	default:
		return "invariant"
	}
}

// label is how v prefixes a projection or parameter when printed
func (v Variance) label() string {
	if v == Invariant {
		return ""
	}
	return v.String() + " "
}

// Compose combines v, the variance of the enclosing position, with inner,
// the variance of a position nested in it. It behaves like sign multiplication
// where Invariant is zero.
func (v Variance) Compose(inner Variance) Variance {
	if v == Invariant || inner == Invariant {
		return Invariant
	}
	if v == inner {
		return Out
	}
	return In
}

func (v Variance) AllowsOutPosition() bool { return v != In }
func (v Variance) AllowsInPosition() bool  { return v != Out }

func (v Variance) Opposite() Variance {
	switch v {
	case Out:
		return In
	case In:
		return Out
	default:
		return Invariant
	}
}

// EffectiveVariance combines the declared variance of a parameter with the
// projection kind of the argument given for it.
// ok is false when they contradict each other (`in` given for an `out`
// parameter), in which case the argument behaves like a star projection.
func EffectiveVariance(declared, projection Variance) (v Variance, ok bool) {
	switch {
	case declared == Invariant:
		return projection, true
	case projection == Invariant:
		return declared, true
	case declared == projection:
		return declared, true
	default:
		return Invariant, false
	}
}

func ParseVariance(s string) (Variance, error) {
	switch s {
	case "", "inv", "invariant":
		return Invariant, nil
	case "out":
		return Out, nil
	case "in":
		return In, nil
	}
	return Invariant, fmt.Errorf("unknown variance %q", s)
}
