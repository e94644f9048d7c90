package types

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cottand/inhabit/util"
)

// Type is either a *SimpleType or a *FlexibleType.
// Types are immutable once built; nothing in this module modifies one after construction.
type Type interface {
	fmt.Stringer
	Hash() uint64
	IsMarkedNullable() bool
	isType()
}

var (
	_ Type = (*SimpleType)(nil)
	_ Type = (*FlexibleType)(nil)
)

// SimpleType is a constructor applied to type arguments, possibly marked nullable
type SimpleType struct {
	constructor TypeConstructor
	arguments   []TypeProjection
	nullable    bool
}

// NewSimpleType panics when the number of arguments does not match the
// constructor's parameters, as that can only come from a malformed declaration
func NewSimpleType(constructor TypeConstructor, nullable bool, arguments ...TypeProjection) *SimpleType {
	if want := len(constructor.Parameters()); want != len(arguments) {
		panic(fmt.Sprintf("%s expects %d type arguments, got %d", constructor, want, len(arguments)))
	}
	return &SimpleType{constructor: constructor, arguments: arguments, nullable: nullable}
}

func (t *SimpleType) isType()                      {}
func (t *SimpleType) Constructor() TypeConstructor { return t.constructor }
func (t *SimpleType) Arguments() []TypeProjection  { return t.arguments }
func (t *SimpleType) IsMarkedNullable() bool       { return t.nullable }

func (t *SimpleType) withNullability(nullable bool) *SimpleType {
	if t.nullable == nullable {
		return t
	}
	return &SimpleType{constructor: t.constructor, arguments: t.arguments, nullable: nullable}
}

func (t *SimpleType) String() string {
	sb := strings.Builder{}
	sb.WriteString(t.constructor.String())
	if len(t.arguments) > 0 {
		sb.WriteString("<")
		sb.WriteString(util.JoinString(t.arguments, ", "))
		sb.WriteString(">")
	}
	if t.nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

func (t *SimpleType) Hash() uint64 {
	hash := t.constructor.hash()
	for _, arg := range t.arguments {
		hash = hash*31 + arg.hash()
	}
	if t.nullable {
		hash = hash*31 + 1
	}
	return hash
}

// FlexibleType is a type known only to lie between lower and upper, like a
// platform type whose nullability is unknown
type FlexibleType struct {
	lower, upper *SimpleType
}

func NewFlexibleType(lower, upper *SimpleType) *FlexibleType {
	return &FlexibleType{lower: lower, upper: upper}
}

func (t *FlexibleType) isType()                {}
func (t *FlexibleType) Lower() *SimpleType     { return t.lower }
func (t *FlexibleType) Upper() *SimpleType     { return t.upper }
func (t *FlexibleType) IsMarkedNullable() bool { return t.lower.nullable }
func (t *FlexibleType) String() string {
	return "(" + t.lower.String() + ".." + t.upper.String() + ")"
}
func (t *FlexibleType) Hash() uint64 {
	return 31*t.upper.Hash() + 91*t.lower.Hash()
}

// TypeProjection is a type argument: a type with a use-site variance, or a star
type TypeProjection struct {
	kind Variance
	typ  Type
	star bool
}

func Invariantly(t Type) TypeProjection {
	return TypeProjection{kind: Invariant, typ: t}
}

func Projected(kind Variance, t Type) TypeProjection {
	return TypeProjection{kind: kind, typ: t}
}

// Star is the wildcard argument `*`, which carries no type
func Star() TypeProjection {
	return TypeProjection{star: true}
}

func (p TypeProjection) IsStar() bool   { return p.star }
func (p TypeProjection) Kind() Variance { return p.kind }

// Type is nil for a star projection
func (p TypeProjection) Type() Type { return p.typ }

func (p TypeProjection) String() string {
	if p.star {
		return "*"
	}
	return p.kind.label() + p.typ.String()
}

func (p TypeProjection) hash() uint64 {
	if p.star {
		return 42
	}
	return p.typ.Hash()*7 + uint64(p.kind)
}

// Equal is structural equality: same constructors, nullability and arguments.
// Intersections are equal when they have the same components in any order.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *SimpleType:
		b, ok := b.(*SimpleType)
		return ok && simpleTypesEqual(a, b)
	case *FlexibleType:
		b, ok := b.(*FlexibleType)
		return ok && simpleTypesEqual(a.lower, b.lower) && simpleTypesEqual(a.upper, b.upper)
	}
	return false
}

func simpleTypesEqual(a, b *SimpleType) bool {
	if a == b {
		return true
	}
	if a.nullable != b.nullable || len(a.arguments) != len(b.arguments) {
		return false
	}
	if !constructorsEqual(a.constructor, b.constructor) {
		return false
	}
	for i, arg := range a.arguments {
		if !projectionsEqual(arg, b.arguments[i]) {
			return false
		}
	}
	return true
}

func projectionsEqual(a, b TypeProjection) bool {
	if a.star || b.star {
		return a.star == b.star
	}
	return a.kind == b.kind && Equal(a.typ, b.typ)
}

func constructorsEqual(a, b TypeConstructor) bool {
	if a == b {
		return true
	}
	ai, ok := a.(*IntersectionConstructor)
	if !ok {
		return false
	}
	bi, ok := b.(*IntersectionConstructor)
	if !ok || len(ai.components) != len(bi.components) {
		return false
	}
	for _, component := range ai.components {
		if !bi.contains(component) {
			return false
		}
	}
	return true
}

func stringHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
