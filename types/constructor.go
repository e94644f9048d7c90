package types

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cottand/inhabit/util"
)

// TypeConstructor is the head of a SimpleType
type TypeConstructor interface {
	String() string
	// Parameters are matched positionally against the arguments of a SimpleType
	Parameters() []*TypeParameterDescriptor
	// Supertypes are the immediate supertypes: declared supertypes of a class,
	// upper bounds of a type parameter, components of an intersection.
	// The returned slice must not be modified.
	Supertypes() []Type
	// IsFinal reports whether no other constructor can produce subtypes of this one
	IsFinal() bool
	// Declaration is nil for intersections and type variables
	Declaration() Classifier
	hash() uint64
}

var (
	_ TypeConstructor = (*ClassConstructor)(nil)
	_ TypeConstructor = (*TypeParameterConstructor)(nil)
	_ TypeConstructor = (*IntersectionConstructor)(nil)
	_ TypeConstructor = (*TypeVariableConstructor)(nil)

	_ Classifier = (*ClassDescriptor)(nil)
	_ Classifier = (*TypeParameterDescriptor)(nil)
)

// Classifier is a declaration that can head a type: a class or a type parameter
type Classifier interface {
	Name() string
	DefaultType() *SimpleType
	isClassifier()
}

var descriptorIDs atomic.Uint64

func nextID() uint64 {
	return descriptorIDs.Add(1)
}

type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindObject
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindObject:
		return "object"
	default:
		return "class"
	}
}

type Modality uint8

const (
	ModalityFinal Modality = iota
	ModalityOpen
	ModalityAbstract
	ModalitySealed
)

func (m Modality) String() string {
	switch m {
	case ModalityOpen:
		return "open"
	case ModalityAbstract:
		return "abstract"
	case ModalitySealed:
		return "sealed"
	default:
		return "final"
	}
}

// ClassDescriptor declares a class, interface or object.
// Supertypes are set after creation so that declarations may refer to each other.
type ClassDescriptor struct {
	id             uint64
	name           string
	kind           ClassKind
	modality       Modality
	typeParameters []*TypeParameterDescriptor
	supertypes     []*SimpleType
	constructor    *ClassConstructor
}

func NewClass(name string, kind ClassKind, modality Modality, typeParameters ...*TypeParameterDescriptor) *ClassDescriptor {
	c := &ClassDescriptor{
		id:             nextID(),
		name:           name,
		kind:           kind,
		modality:       modality,
		typeParameters: typeParameters,
	}
	c.constructor = &ClassConstructor{descriptor: c}
	return c
}

func (c *ClassDescriptor) isClassifier()                              {}
func (c *ClassDescriptor) Name() string                               { return c.name }
func (c *ClassDescriptor) Kind() ClassKind                            { return c.kind }
func (c *ClassDescriptor) Modality() Modality                         { return c.modality }
func (c *ClassDescriptor) TypeParameters() []*TypeParameterDescriptor { return c.typeParameters }
func (c *ClassDescriptor) TypeConstructor() *ClassConstructor         { return c.constructor }

// SetSupertypes must only be called while declaring c
func (c *ClassDescriptor) SetSupertypes(supertypes ...*SimpleType) {
	c.supertypes = supertypes
}

// Supertypes defaults to Any for every class but Any and Nothing
func (c *ClassDescriptor) Supertypes() []*SimpleType {
	if len(c.supertypes) == 0 && c != anyClass && c != nothingClass {
		return []*SimpleType{AnyType()}
	}
	return c.supertypes
}

// DefaultType is c applied to its own type parameters
func (c *ClassDescriptor) DefaultType() *SimpleType {
	args := make([]TypeProjection, len(c.typeParameters))
	for i, param := range c.typeParameters {
		args[i] = Invariantly(param.DefaultType())
	}
	return NewSimpleType(c.constructor, false, args...)
}

// Of applies c to invariant arguments
func (c *ClassDescriptor) Of(args ...Type) *SimpleType {
	projections := make([]TypeProjection, len(args))
	for i, arg := range args {
		projections[i] = Invariantly(arg)
	}
	return NewSimpleType(c.constructor, false, projections...)
}

type ClassConstructor struct {
	descriptor *ClassDescriptor
}

func (c *ClassConstructor) String() string                         { return c.descriptor.name }
func (c *ClassConstructor) Descriptor() *ClassDescriptor           { return c.descriptor }
func (c *ClassConstructor) Declaration() Classifier                { return c.descriptor }
func (c *ClassConstructor) Parameters() []*TypeParameterDescriptor { return c.descriptor.typeParameters }
func (c *ClassConstructor) hash() uint64                           { return c.descriptor.id * 1099511628211 }

func (c *ClassConstructor) IsFinal() bool {
	return c.descriptor.kind != KindInterface && c.descriptor.modality == ModalityFinal
}

func (c *ClassConstructor) Supertypes() []Type {
	declared := c.descriptor.Supertypes()
	supertypes := make([]Type, len(declared))
	for i, st := range declared {
		supertypes[i] = st
	}
	return supertypes
}

// TypeParameterDescriptor declares a type parameter of a class or of a free-standing declaration.
// Identity is the pointer. Upper bounds are set after creation so they can refer to the parameter itself.
type TypeParameterDescriptor struct {
	id          uint64
	name        string
	variance    Variance
	index       int
	upperBounds []Type
	constructor *TypeParameterConstructor
}

func NewTypeParameter(name string, variance Variance, index int) *TypeParameterDescriptor {
	p := &TypeParameterDescriptor{
		id:       nextID(),
		name:     name,
		variance: variance,
		index:    index,
	}
	p.constructor = &TypeParameterConstructor{descriptor: p}
	return p
}

func (p *TypeParameterDescriptor) isClassifier()      {}
func (p *TypeParameterDescriptor) ID() uint64         { return p.id }
func (p *TypeParameterDescriptor) Name() string       { return p.name }
func (p *TypeParameterDescriptor) Variance() Variance { return p.variance }
func (p *TypeParameterDescriptor) Index() int         { return p.index }

func (p *TypeParameterDescriptor) TypeConstructor() *TypeParameterConstructor {
	return p.constructor
}

// UpperBounds are the declared bounds, which may be empty for a malformed declaration
func (p *TypeParameterDescriptor) UpperBounds() []Type { return p.upperBounds }

// SetUpperBounds must only be called while declaring p
func (p *TypeParameterDescriptor) SetUpperBounds(bounds ...Type) {
	p.upperBounds = bounds
}

// boundsOrDefault treats a parameter with no declared bounds as bounded by Any?
func (p *TypeParameterDescriptor) boundsOrDefault() []Type {
	if len(p.upperBounds) == 0 {
		return []Type{NullableAnyType()}
	}
	return p.upperBounds
}

func (p *TypeParameterDescriptor) DefaultType() *SimpleType {
	return NewSimpleType(p.constructor, false)
}

func (p *TypeParameterDescriptor) String() string {
	sb := strings.Builder{}
	sb.WriteString(p.variance.label())
	sb.WriteString(p.name)
	if len(p.upperBounds) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(util.JoinString(p.upperBounds, ", "))
	}
	return sb.String()
}

type TypeParameterConstructor struct {
	descriptor *TypeParameterDescriptor
}

func (c *TypeParameterConstructor) String() string                         { return c.descriptor.name }
func (c *TypeParameterConstructor) Descriptor() *TypeParameterDescriptor   { return c.descriptor }
func (c *TypeParameterConstructor) Declaration() Classifier                { return c.descriptor }
func (c *TypeParameterConstructor) Parameters() []*TypeParameterDescriptor { return nil }
func (c *TypeParameterConstructor) Supertypes() []Type                     { return c.descriptor.boundsOrDefault() }
func (c *TypeParameterConstructor) IsFinal() bool                          { return false }
func (c *TypeParameterConstructor) hash() uint64                           { return c.descriptor.id * 16777619 }

// IntersectionConstructor heads an intersection type. Its components are
// deduplicated and keep the order they were given in.
type IntersectionConstructor struct {
	components []Type
}

func (c *IntersectionConstructor) String() string {
	return "{" + util.JoinString(c.components, " & ") + "}"
}
func (c *IntersectionConstructor) Parameters() []*TypeParameterDescriptor { return nil }
func (c *IntersectionConstructor) Supertypes() []Type                     { return c.components }
func (c *IntersectionConstructor) IsFinal() bool                          { return false }
func (c *IntersectionConstructor) Declaration() Classifier                { return nil }

// hash does not depend on the order of components
func (c *IntersectionConstructor) hash() uint64 {
	var hash uint64 = 33533
	for _, component := range c.components {
		hash += component.Hash() * 43
	}
	return hash
}

func (c *IntersectionConstructor) contains(t Type) bool {
	return slices.ContainsFunc(c.components, func(component Type) bool {
		return Equal(component, t)
	})
}

// TypeVariableConstructor is a fresh inference variable standing for an
// unknown instantiation of origin. Its bounds live in the constraint system that created it.
type TypeVariableConstructor struct {
	id     uint64
	origin *TypeParameterDescriptor
}

func NewTypeVariable(origin *TypeParameterDescriptor) *TypeVariableConstructor {
	return &TypeVariableConstructor{id: nextID(), origin: origin}
}

func (c *TypeVariableConstructor) String() string {
	return c.origin.name + strconv.FormatUint(c.id, 10) + "'"
}
func (c *TypeVariableConstructor) ID() uint64                             { return c.id }
func (c *TypeVariableConstructor) Origin() *TypeParameterDescriptor       { return c.origin }
func (c *TypeVariableConstructor) Parameters() []*TypeParameterDescriptor { return nil }
func (c *TypeVariableConstructor) Supertypes() []Type                     { return nil }
func (c *TypeVariableConstructor) IsFinal() bool                          { return false }
func (c *TypeVariableConstructor) Declaration() Classifier                { return nil }
func (c *TypeVariableConstructor) hash() uint64                           { return c.id * 2654435761 }

func (c *TypeVariableConstructor) DefaultType() *SimpleType {
	return NewSimpleType(c, false)
}
