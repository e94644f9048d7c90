// Package inhabit decides whether intersection types have any values.
//
// An intersection is considered empty when one of its components cannot have
// subtypes and is incompatible with another component: neither is a subtype of
// the other, and no instantiation of the type parameters involved makes them
// related. The answer is conservative, an intersection that has values is never
// reported as empty.
package inhabit

import (
	"log/slog"

	"github.com/cottand/inhabit/inference"
	"github.com/cottand/inhabit/internal/log"
	"github.com/cottand/inhabit/types"
)

// SubtypeChecker is the nominal subtyping oracle; *types.Checker implements it
type SubtypeChecker interface {
	IsSubtypeOf(sub, sup types.Type) bool
	CanHaveSubtypes(t types.Type) bool
}

// SubtypeDecider is implemented by checkers that may give up on deeply nested
// types, as *types.Checker does. A check it leaves undecided counts as holding.
type SubtypeDecider interface {
	DecideSubtype(sub, sup types.Type) (isSubtype, decided bool)
}

// ConstraintSystem answers whether a set of subtyping constraints over fresh
// variables is consistent; *inference.Builder implements it
type ConstraintSystem interface {
	RegisterTypeVariables(params []*types.TypeParameterDescriptor) *types.Substitutor
	AddSubtypeConstraint(sub, sup types.Type, position inference.Position)
	Build() inference.Status
}

// ConstraintSystemFactory is called once per unification query
type ConstraintSystemFactory func() ConstraintSystem

// IntersectionBuilder builds the intersection of a non-empty list of types
type IntersectionBuilder func(ts []types.Type) types.Type

type Analyzer struct {
	checker   SubtypeChecker
	newSystem ConstraintSystemFactory
	intersect IntersectionBuilder
	logger    *slog.Logger
}

type AnalyzerOption func(*Analyzer)

func WithSubtypeChecker(c SubtypeChecker) AnalyzerOption {
	return func(a *Analyzer) { a.checker = c }
}

func WithConstraintSystems(f ConstraintSystemFactory) AnalyzerOption {
	return func(a *Analyzer) { a.newSystem = f }
}

func WithIntersectionBuilder(f IntersectionBuilder) AnalyzerOption {
	return func(a *Analyzer) { a.intersect = f }
}

func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer returns an Analyzer using the types package for subtyping and
// intersections, and a fresh inference.Builder for every unification
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		checker:   types.DefaultChecker,
		newSystem: func() ConstraintSystem { return inference.NewBuilder() },
		intersect: types.Intersect,
		logger:    log.Section("inhabit"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = NewAnalyzer()

// IsIntersectionTypePopulatedOrBottom tells whether a & b may have values, or is Nothing
func (a *Analyzer) IsIntersectionTypePopulatedOrBottom(typeA, typeB types.Type) bool {
	components := []types.Type{typeA}
	if !types.Equal(typeA, typeB) {
		components = append(components, typeB)
	}
	return a.isPopulatedOrBottom(a.intersect(components))
}

// GetEffectiveUpperBound returns the intersection of the upper bounds of p, or
// Nothing if no type satisfies all of them at once.
//
// It panics if p has no upper bounds.
func (a *Analyzer) GetEffectiveUpperBound(p *types.TypeParameterDescriptor) types.Type {
	bounds := p.UpperBounds()
	if len(bounds) == 0 {
		panic("type parameter " + p.Name() + " has no upper bounds")
	}
	if intersection, ok := a.IntersectTypes(bounds); ok {
		return intersection
	}
	a.logger.Debug("upper bounds have no common subtype", "parameter", p)
	return types.NothingType()
}

// IntersectTypes returns the intersection of ts, and false if it has no values.
//
// Deprecated: use IsIntersectionTypePopulatedOrBottom to check a pair of types,
// or GetEffectiveUpperBound to combine the bounds of a type parameter.
func (a *Analyzer) IntersectTypes(ts []types.Type) (types.Type, bool) {
	intersection := a.intersect(ts)
	if !a.isPopulatedOrBottom(intersection) {
		return nil, false
	}
	return intersection, true
}

func IsIntersectionTypePopulatedOrBottom(typeA, typeB types.Type) bool {
	return defaultAnalyzer.IsIntersectionTypePopulatedOrBottom(typeA, typeB)
}

func GetEffectiveUpperBound(p *types.TypeParameterDescriptor) types.Type {
	return defaultAnalyzer.GetEffectiveUpperBound(p)
}

// IntersectTypes uses the default Analyzer.
//
// Deprecated: see Analyzer.IntersectTypes.
func IntersectTypes(ts []types.Type) (types.Type, bool) {
	return defaultAnalyzer.IntersectTypes(ts)
}
