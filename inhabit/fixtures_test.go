package inhabit

import (
	"github.com/cottand/inhabit/ilerr"
	"github.com/cottand/inhabit/inference"
	"github.com/cottand/inhabit/types"
)

func final(name string, supertypes ...*types.SimpleType) *types.ClassDescriptor {
	c := types.NewClass(name, types.KindClass, types.ModalityFinal)
	c.SetSupertypes(supertypes...)
	return c
}

func param(name string, bounds ...types.Type) *types.TypeParameterDescriptor {
	p := types.NewTypeParameter(name, types.Invariant, 0)
	if len(bounds) == 0 {
		bounds = []types.Type{types.NullableAnyType()}
	}
	p.SetUpperBounds(bounds...)
	return p
}

// genericFixture declares
//
//	interface Source<out T>
//	interface Iface<T>
//	final class Box<T> : Source<T>
//	final class Pair<A, B>
//	final class C<T> : Iface<T>
//	final class D<T> : Iface<T>
type genericFixture struct {
	source, iface, box, pair, c, d *types.ClassDescriptor
}

func newGenericFixture() genericFixture {
	sourceT := types.NewTypeParameter("T", types.Out, 0)
	sourceT.SetUpperBounds(types.NullableAnyType())
	source := types.NewClass("Source", types.KindInterface, types.ModalityAbstract, sourceT)

	ifaceT := param("T")
	iface := types.NewClass("Iface", types.KindInterface, types.ModalityAbstract, ifaceT)

	boxT := param("T")
	box := types.NewClass("Box", types.KindClass, types.ModalityFinal, boxT)
	box.SetSupertypes(source.Of(boxT.DefaultType()))

	pair := types.NewClass("Pair", types.KindClass, types.ModalityFinal, param("A"), param("B"))

	cT := param("T")
	c := types.NewClass("C", types.KindClass, types.ModalityFinal, cT)
	c.SetSupertypes(iface.Of(cT.DefaultType()))
	dT := param("T")
	d := types.NewClass("D", types.KindClass, types.ModalityFinal, dT)
	d.SetSupertypes(iface.Of(dT.DefaultType()))

	return genericFixture{source: source, iface: iface, box: box, pair: pair, c: c, d: d}
}

func starOf(c *types.ClassDescriptor) *types.SimpleType {
	return types.NewSimpleType(c.TypeConstructor(), false, types.Star())
}

// stubChecker answers from the names of types
type stubChecker struct {
	refinable map[string]bool
	subtypes  map[[2]string]bool
}

func (s stubChecker) IsSubtypeOf(sub, sup types.Type) bool {
	return s.subtypes[[2]string{sub.String(), sup.String()}]
}

func (s stubChecker) CanHaveSubtypes(t types.Type) bool {
	return s.refinable[t.String()]
}

// stubSystem records what it is asked and replaces every parameter with a class named after it
type stubSystem struct {
	successful  bool
	registered  []*types.TypeParameterDescriptor
	constraints [][2]types.Type
	positions   []inference.Position
}

func (s *stubSystem) RegisterTypeVariables(params []*types.TypeParameterDescriptor) *types.Substitutor {
	s.registered = append(s.registered, params...)
	substitutor := types.NewSubstitutor()
	for _, p := range params {
		substitutor.Put(p, types.Invariantly(final(p.Name()+"'").DefaultType()))
	}
	return substitutor
}

func (s *stubSystem) AddSubtypeConstraint(sub, sup types.Type, position inference.Position) {
	s.constraints = append(s.constraints, [2]types.Type{sub, sup})
	s.positions = append(s.positions, position)
}

func (s *stubSystem) Build() inference.Status {
	if s.successful {
		return inference.NewStatus()
	}
	return inference.NewStatus(ilerr.New(ilerr.NewConstraintViolated{Sub: "stub", Sup: "stub"}))
}

// stubSystems hands out stubSystem instances and keeps them for inspection
type stubSystems struct {
	successful bool
	created    []*stubSystem
}

func (s *stubSystems) factory() ConstraintSystem {
	system := &stubSystem{successful: s.successful}
	s.created = append(s.created, system)
	return system
}
