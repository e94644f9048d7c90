package types

// UpperIfFlexible returns the upper bound of a flexible type and any other type as is
func UpperIfFlexible(t Type) *SimpleType {
	switch t := t.(type) {
	case *FlexibleType:
		return t.upper
	case *SimpleType:
		return t
	}
	panic("unexpected implementation of Type")
}

// LowerIfFlexible returns the lower bound of a flexible type and any other type as is
func LowerIfFlexible(t Type) *SimpleType {
	if flexible, ok := t.(*FlexibleType); ok {
		return flexible.lower
	}
	return UpperIfFlexible(t)
}

func MakeNullable(t Type) Type {
	return withNullability(t, true)
}

func MakeNotNullable(t Type) Type {
	return withNullability(t, false)
}

func withNullability(t Type, nullable bool) Type {
	switch t := t.(type) {
	case *FlexibleType:
		return NewFlexibleType(t.lower.withNullability(nullable), t.upper.withNullability(nullable))
	case *SimpleType:
		return t.withNullability(nullable)
	}
	panic("unexpected implementation of Type")
}

// IsTypeParameter reports whether t is a reference to a declared type parameter, and which
func IsTypeParameter(t Type) (*TypeParameterDescriptor, bool) {
	c, ok := UpperIfFlexible(t).constructor.(*TypeParameterConstructor)
	if !ok {
		return nil, false
	}
	return c.descriptor, true
}

// IsTypeVariable reports whether t is a reference to an inference variable, and which
func IsTypeVariable(t Type) (*TypeVariableConstructor, bool) {
	st, ok := t.(*SimpleType)
	if !ok {
		return nil, false
	}
	v, ok := st.constructor.(*TypeVariableConstructor)
	return v, ok
}
