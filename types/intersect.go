package types

import (
	"slices"

	"github.com/cottand/inhabit/util/oset"
)

// NewIntersectionType builds an intersection over components without simplifying it.
// Components are deduplicated, keeping the first occurrence.
func NewIntersectionType(components ...Type) *SimpleType {
	unique := oset.New[Type](TypeHasher{}, components...)
	return &SimpleType{constructor: &IntersectionConstructor{components: unique.Slice()}}
}

// IsIntersection reports whether t is headed by an intersection constructor, and its components
func IsIntersection(t Type) ([]Type, bool) {
	st, ok := t.(*SimpleType)
	if !ok {
		return nil, false
	}
	intersection, ok := st.constructor.(*IntersectionConstructor)
	if !ok {
		return nil, false
	}
	return intersection.components, true
}

// Intersect builds the canonical intersection of ts, deterministic for a given order of ts.
//
// Nested intersections are flattened, duplicates and components that are strict
// supertypes of another component are dropped, and a single remaining component
// is returned as is. If any component is flexible, the result is the flexible type
// ranging from the intersection of the lower bounds to that of the upper bounds.
//
// Intersect panics on an empty ts.
func Intersect(ts []Type) Type {
	if len(ts) == 0 {
		panic("intersection of no types")
	}
	if !slices.ContainsFunc(ts, isFlexible) {
		simple := make([]*SimpleType, len(ts))
		for i, t := range ts {
			simple[i] = t.(*SimpleType)
		}
		return intersectSimple(simple)
	}
	lowers := make([]*SimpleType, len(ts))
	uppers := make([]*SimpleType, len(ts))
	for i, t := range ts {
		lowers[i], uppers[i] = LowerIfFlexible(t), UpperIfFlexible(t)
	}
	lower, upper := intersectSimple(lowers), intersectSimple(uppers)
	if simpleTypesEqual(lower, upper) {
		return lower
	}
	return NewFlexibleType(lower, upper)
}

func isFlexible(t Type) bool {
	_, ok := t.(*FlexibleType)
	return ok
}

func intersectSimple(ts []*SimpleType) *SimpleType {
	flat := oset.Empty[Type](TypeHasher{})
	allNullable := true
	var flatten func(t *SimpleType)
	flatten = func(t *SimpleType) {
		if intersection, ok := t.constructor.(*IntersectionConstructor); ok && !t.nullable {
			for _, component := range intersection.components {
				flatten(UpperIfFlexible(component))
			}
			return
		}
		allNullable = allNullable && t.nullable
		flat.Add(t)
	}
	for _, t := range ts {
		flatten(t)
	}

	// the result only admits null when every component does
	components := oset.Empty[Type](TypeHasher{})
	for t := range flat.All() {
		if IsNothing(t) {
			return t.(*SimpleType)
		}
		components.Add(t.(*SimpleType).withNullability(allNullable && t.IsMarkedNullable()))
	}

	candidates := components.Slice()
	var kept []Type
	for i, candidate := range candidates {
		if isRedundant(i, candidate, candidates) {
			continue
		}
		kept = append(kept, candidate)
	}

	if len(kept) == 1 {
		return kept[0].(*SimpleType).withNullability(allNullable)
	}
	if allNullable {
		for i, component := range kept {
			kept[i] = MakeNotNullable(component)
		}
	}
	return &SimpleType{constructor: &IntersectionConstructor{components: kept}, nullable: allNullable}
}

// isRedundant is true when another component is a strict subtype of candidate,
// or an equivalent one appears before it
func isRedundant(index int, candidate Type, all []Type) bool {
	for j, other := range all {
		if j == index || !IsSubtypeOf(other, candidate) {
			continue
		}
		if !IsSubtypeOf(candidate, other) || j < index {
			return true
		}
	}
	return false
}
