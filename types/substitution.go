package types

// Substitutor replaces references to type parameters with projections
type Substitutor struct {
	mapping map[*TypeParameterDescriptor]TypeProjection
}

func NewSubstitutor() *Substitutor {
	return &Substitutor{mapping: make(map[*TypeParameterDescriptor]TypeProjection)}
}

// SubstitutorFor maps the parameters of a class to the arguments of a type built from it
func SubstitutorFor(params []*TypeParameterDescriptor, args []TypeProjection) *Substitutor {
	s := NewSubstitutor()
	for i, param := range params {
		s.mapping[param] = args[i]
	}
	return s
}

func (s *Substitutor) Put(param *TypeParameterDescriptor, replacement TypeProjection) {
	s.mapping[param] = replacement
}

func (s *Substitutor) Lookup(param *TypeParameterDescriptor) (TypeProjection, bool) {
	p, ok := s.mapping[param]
	return p, ok
}

func (s *Substitutor) IsEmpty() bool {
	return len(s.mapping) == 0
}

// Substitute replaces every mapped parameter in t.
// A top-level reference to a parameter mapped to a projection becomes the projected type,
// a star replacement of a top-level reference is left untouched.
func (s *Substitutor) Substitute(t Type) Type {
	if s.IsEmpty() {
		return t
	}
	switch t := t.(type) {
	case *FlexibleType:
		return NewFlexibleType(
			UpperIfFlexible(s.Substitute(t.lower)),
			UpperIfFlexible(s.Substitute(t.upper)),
		)
	case *SimpleType:
		if replacement, ok := s.replacementOf(t); ok {
			if replacement.star {
				return t
			}
			return replacement.typ
		}
		return s.substituteSimple(t)
	}
	panic("unexpected implementation of Type")
}

// replacementOf returns the replacement of t if it is a mapped parameter reference,
// carrying over t's nullability
func (s *Substitutor) replacementOf(t *SimpleType) (TypeProjection, bool) {
	param, ok := t.constructor.(*TypeParameterConstructor)
	if !ok {
		return TypeProjection{}, false
	}
	replacement, ok := s.mapping[param.descriptor]
	if !ok {
		return TypeProjection{}, false
	}
	if t.nullable && !replacement.star {
		replacement.typ = MakeNullable(replacement.typ)
	}
	return replacement, true
}

func (s *Substitutor) substituteSimple(t *SimpleType) *SimpleType {
	if intersection, ok := t.constructor.(*IntersectionConstructor); ok {
		components := make([]Type, len(intersection.components))
		for i, component := range intersection.components {
			components[i] = s.Substitute(component)
		}
		return NewIntersectionType(components...).withNullability(t.nullable)
	}
	if len(t.arguments) == 0 {
		return t
	}
	args := make([]TypeProjection, len(t.arguments))
	for i, arg := range t.arguments {
		args[i] = s.SubstituteProjection(arg)
	}
	return &SimpleType{constructor: t.constructor, arguments: args, nullable: t.nullable}
}

// SubstituteProjection composes the projection kinds when p directly
// references a mapped parameter; kinds that contradict each other yield a star
func (s *Substitutor) SubstituteProjection(p TypeProjection) TypeProjection {
	if p.star {
		return p
	}
	if st, ok := p.typ.(*SimpleType); ok {
		if replacement, ok := s.replacementOf(st); ok {
			if replacement.star {
				return replacement
			}
			kind, ok := EffectiveVariance(p.kind, replacement.kind)
			if !ok {
				return Star()
			}
			return Projected(kind, replacement.typ)
		}
	}
	return Projected(p.kind, s.Substitute(p.typ))
}
