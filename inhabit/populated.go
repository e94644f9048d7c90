package inhabit

import (
	"github.com/cottand/inhabit/types"
)

// isPopulatedOrBottom is true for Nothing itself, and for any type which
// might have values once flexible types are replaced with their upper bound
func (a *Analyzer) isPopulatedOrBottom(t types.Type) bool {
	return types.IsNothing(t) || a.isPopulated(types.UpperIfFlexible(t))
}

// isPopulated is false for Nothing and for intersections where a component
// which cannot be refined any further is incompatible with another component.
// A nullable intersection is judged by its components like a non-null one.
func (a *Analyzer) isPopulated(t *types.SimpleType) bool {
	components, ok := types.IsIntersection(t)
	if !ok {
		return !types.IsNothing(t)
	}
	for _, lower := range components {
		if a.checker.CanHaveSubtypes(lower) {
			// a subtype of lower may still fit every other component
			continue
		}
		for _, upper := range components {
			if !a.compatible(lower, upper) {
				a.logger.Debug("intersection is empty",
					"intersection", t,
					"lower", lower,
					"upper", upper,
				)
				return false
			}
		}
	}
	return true
}

func (a *Analyzer) compatible(lower, upper types.Type) bool {
	if lower == upper || types.Equal(lower, upper) {
		return true
	}
	if a.mayBeEqual(lower, upper) {
		return true
	}
	return a.mayBeSubtype(lower, upper) || a.mayBeSubtype(upper, lower)
}

// mayBeSubtype is false only when the checker is sure sub is not a subtype of sup
func (a *Analyzer) mayBeSubtype(sub, sup types.Type) bool {
	decider, ok := a.checker.(SubtypeDecider)
	if !ok {
		return a.checker.IsSubtypeOf(sub, sup)
	}
	isSubtype, decided := decider.DecideSubtype(sub, sup)
	if !decided {
		a.logger.Debug("subtyping left undecided, assuming it holds", "sub", sub, "sup", sup)
	}
	return isSubtype || !decided
}
