package types

func class(name string, modality Modality, supertypes ...*SimpleType) *ClassDescriptor {
	c := NewClass(name, KindClass, modality)
	c.SetSupertypes(supertypes...)
	return c
}

func iface(name string, params ...*TypeParameterDescriptor) *ClassDescriptor {
	return NewClass(name, KindInterface, ModalityAbstract, params...)
}

func param(name string, variance Variance, bounds ...Type) *TypeParameterDescriptor {
	p := NewTypeParameter(name, variance, 0)
	if len(bounds) == 0 {
		bounds = []Type{NullableAnyType()}
	}
	p.SetUpperBounds(bounds...)
	return p
}

func nullable(t *SimpleType) *SimpleType {
	return MakeNullable(t).(*SimpleType)
}

// genericFixture declares
//
//	interface Source<out T>
//	interface Sink<in T>
//	final class Box<T> : Source<T>
type genericFixture struct {
	source, sink, box *ClassDescriptor
}

func newGenericFixture() genericFixture {
	sourceT := param("T", Out)
	source := iface("Source", sourceT)
	sinkT := param("T", In)
	sink := iface("Sink", sinkT)
	boxT := param("T", Invariant)
	box := NewClass("Box", KindClass, ModalityFinal, boxT)
	box.SetSupertypes(source.Of(boxT.DefaultType()))
	return genericFixture{source: source, sink: sink, box: box}
}

// nested wraps innermost in depth levels of c
func nested(c *ClassDescriptor, depth int, innermost Type) *SimpleType {
	t := innermost
	for range depth {
		t = c.Of(t)
	}
	return t.(*SimpleType)
}
