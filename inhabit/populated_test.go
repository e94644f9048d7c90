package inhabit

import (
	"testing"

	"github.com/cottand/inhabit/inference"
	"github.com/cottand/inhabit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMayBeEqualQuery(t *testing.T) {
	f := newGenericFixture()
	p, q := param("P"), param("Q")
	systems := &stubSystems{successful: true}
	a := NewAnalyzer(WithConstraintSystems(systems.factory))

	typeA := f.pair.Of(p.DefaultType(), q.DefaultType())
	typeB := f.box.Of(q.DefaultType())
	assert.True(t, a.mayBeEqual(typeA, typeB))

	require.Len(t, systems.created, 1)
	system := systems.created[0]
	assert.Equal(t, []*types.TypeParameterDescriptor{p, q}, system.registered)
	require.Len(t, system.constraints, 1)
	assert.Same(t, typeA, system.constraints[0][0], "only the second type is substituted")
	assert.Equal(t, "Box<Q'>", system.constraints[0][1].String())
	assert.Equal(t, inference.SpecialPosition(), system.positions[0])

	a.mayBeEqual(typeA, typeB)
	assert.Len(t, systems.created, 2, "every query gets its own system")
}

func TestMayBeEqualReportsSolver(t *testing.T) {
	systems := &stubSystems{successful: false}
	a := NewAnalyzer(WithConstraintSystems(systems.factory))
	assert.False(t, a.mayBeEqual(types.IntClass().DefaultType(), types.StringClass().DefaultType()))
}

func TestMayBeEqual(t *testing.T) {
	f := newGenericFixture()
	number := types.NumberClass().DefaultType()
	intT := types.IntClass().DefaultType()
	stringT := types.StringClass().DefaultType()
	numeric := param("N", number)
	free := param("F")

	testCases := []struct {
		name     string
		a, b     types.Type
		expected bool
	}{
		{"unrelated finals", intT, stringT, false},
		{"subtype", intT, number, true},
		{"supertype", number, intT, false},
		{"parameter within bound", intT, numeric.DefaultType(), true},
		{"parameter outside bound", stringT, numeric.DefaultType(), false},
		{"free parameter", stringT, free.DefaultType(), true},
		{"parameter in arguments", f.box.Of(intT), f.box.Of(numeric.DefaultType()), true},
		{"parameter in arguments outside bound", f.box.Of(stringT), f.box.Of(numeric.DefaultType()), false},
		{"parameter through supertype", f.box.Of(intT), f.source.Of(free.DefaultType()), true},
		{"nullable into non-null parameter", types.MakeNullable(intT), numeric.DefaultType(), false},
		{"nullable into nullable parameter", types.MakeNullable(intT), types.MakeNullable(numeric.DefaultType()), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewAnalyzer().mayBeEqual(tc.a, tc.b))
		})
	}
}

func TestIsPopulatedWithStubs(t *testing.T) {
	x := final("X").DefaultType()
	y := final("Y").DefaultType()
	checker := stubChecker{refinable: map[string]bool{"Y": true}}

	t.Run("final against refinable asks the solver once", func(t *testing.T) {
		systems := &stubSystems{successful: true}
		a := NewAnalyzer(WithSubtypeChecker(checker), WithConstraintSystems(systems.factory))
		assert.True(t, a.isPopulated(types.NewIntersectionType(x, y)))
		require.Len(t, systems.created, 1, "the pair of X with itself does not reach the solver")
		assert.Same(t, x, systems.created[0].constraints[0][0])
	})
	t.Run("solver failure without subtyping", func(t *testing.T) {
		systems := &stubSystems{successful: false}
		a := NewAnalyzer(WithSubtypeChecker(checker), WithConstraintSystems(systems.factory))
		assert.False(t, a.isPopulated(types.NewIntersectionType(x, y)))
	})
	t.Run("solver failure with subtyping in either direction", func(t *testing.T) {
		for _, pair := range [][2]string{{"X", "Y"}, {"Y", "X"}} {
			systems := &stubSystems{successful: false}
			withSubtype := stubChecker{refinable: checker.refinable, subtypes: map[[2]string]bool{pair: true}}
			a := NewAnalyzer(WithSubtypeChecker(withSubtype), WithConstraintSystems(systems.factory))
			assert.True(t, a.isPopulated(types.NewIntersectionType(x, y)), "%s <: %s", pair[0], pair[1])
		}
	})
	t.Run("refinable components are never checked", func(t *testing.T) {
		systems := &stubSystems{successful: false}
		allRefinable := stubChecker{refinable: map[string]bool{"X": true, "Y": true}}
		a := NewAnalyzer(WithSubtypeChecker(allRefinable), WithConstraintSystems(systems.factory))
		assert.True(t, a.isPopulated(types.NewIntersectionType(x, y)))
		assert.Empty(t, systems.created)
	})
	t.Run("non-intersections", func(t *testing.T) {
		a := NewAnalyzer(WithSubtypeChecker(checker))
		assert.True(t, a.isPopulated(x))
		assert.False(t, a.isPopulated(types.NothingType()))
		assert.True(t, a.isPopulated(types.NullableNothingType()))
		assert.True(t, a.isPopulatedOrBottom(types.NothingType()))
	})
}

func TestIsPopulatedOrBottomUsesUpperBound(t *testing.T) {
	intT := types.IntClass().DefaultType()
	stringT := types.StringClass().DefaultType()
	a := NewAnalyzer()

	empty := types.NewIntersectionType(intT, stringT)
	assert.False(t, a.isPopulatedOrBottom(types.NewFlexibleType(types.NothingType(), empty)))
	assert.True(t, a.isPopulatedOrBottom(types.NewFlexibleType(empty, types.NullableAnyType())))
}

func TestCompatibilityIsSymmetricForFinalTypes(t *testing.T) {
	a := NewAnalyzer()
	base := types.NewClass("Base", types.KindClass, types.ModalityOpen)
	finals := []types.Type{
		types.IntClass().DefaultType(),
		types.StringClass().DefaultType(),
		types.LongClass().DefaultType(),
		types.UnitClass().DefaultType(),
		final("Leaf", base.DefaultType()).DefaultType(),
		final("Other", base.DefaultType()).DefaultType(),
		types.BooleanClass().DefaultType(),
	}
	for _, lower := range finals {
		require.False(t, types.CanHaveSubtypes(lower), "%s", lower)
		for _, upper := range finals {
			assert.Equal(t, a.compatible(lower, upper), a.compatible(upper, lower), "%s and %s", lower, upper)
		}
	}
}

// decidingChecker leaves the pairs in undecided open, and answers the others like stubChecker
type decidingChecker struct {
	stubChecker
	undecided map[[2]string]bool
}

func (d decidingChecker) DecideSubtype(sub, sup types.Type) (bool, bool) {
	if d.undecided[[2]string{sub.String(), sup.String()}] {
		return false, false
	}
	return d.IsSubtypeOf(sub, sup), true
}

func TestUndecidedSubtypingIsCompatible(t *testing.T) {
	x, y := final("X").DefaultType(), final("Y").DefaultType()
	systems := &stubSystems{successful: false}

	testCases := []struct {
		name      string
		undecided map[[2]string]bool
		expected  bool
	}{
		{"decided in both directions", nil, false},
		{"undecided one way", map[[2]string]bool{{"Y", "X"}: true}, true},
		{"undecided the other way", map[[2]string]bool{{"X", "Y"}: true}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checker := decidingChecker{undecided: tc.undecided}
			a := NewAnalyzer(WithSubtypeChecker(checker), WithConstraintSystems(systems.factory))
			assert.Equal(t, tc.expected, a.isPopulated(types.NewIntersectionType(x, y)))
		})
	}
}

func TestDeepSupertypesStayPopulated(t *testing.T) {
	f := newGenericFixture()
	nested := func(depth int, innermost types.Type) *types.SimpleType {
		t := innermost
		for range depth {
			t = f.source.Of(t)
		}
		return t.(*types.SimpleType)
	}
	intT := types.IntClass().DefaultType()
	number := types.NumberClass().DefaultType()

	for _, depth := range []int{100, 300} {
		deep := final("Deep", nested(depth, intT)).DefaultType()
		assert.True(t, IsIntersectionTypePopulatedOrBottom(deep, nested(depth, number)), "depth %d", depth)
		assert.True(t, IsIntersectionTypePopulatedOrBottom(nested(depth, number), deep), "depth %d", depth)
	}
}
