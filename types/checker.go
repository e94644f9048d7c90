package types

import (
	"log/slog"

	"github.com/cottand/inhabit/internal/log"
)

const defaultDepthLimit = 250

var logger = log.Section("types")

// VariableConstraints receives the bounds a Checker discovers for type variables.
// Without it, type variables are rigid and only equal to themselves.
type VariableConstraints interface {
	// AddUpperBound records v <: upper and returns false if that contradicts what is already known
	AddUpperBound(v *TypeVariableConstructor, upper Type) bool
	// AddLowerBound records lower <: v and returns false if that contradicts what is already known
	AddLowerBound(v *TypeVariableConstructor, lower Type) bool
	// Snapshot and Restore let the checker try alternatives without keeping
	// the bounds recorded by the ones that failed
	Snapshot() any
	Restore(snapshot any)
}

// Checker decides nominal subtyping between types, taking declaration-site
// variance, use-site projections, nullability and flexible types into account
type Checker struct {
	Variables  VariableConstraints
	DepthLimit int
	Logger     *slog.Logger
}

// DefaultChecker treats type variables as rigid
var DefaultChecker = &Checker{}

func IsSubtypeOf(sub, sup Type) bool { return DefaultChecker.IsSubtypeOf(sub, sup) }
func Equivalent(a, b Type) bool      { return DefaultChecker.Equivalent(a, b) }
func CanHaveSubtypes(t Type) bool    { return DefaultChecker.CanHaveSubtypes(t) }

func (c *Checker) IsSubtypeOf(sub, sup Type) bool {
	return c.newRun().isSubtype(sub, sup)
}

// DecideSubtype is IsSubtypeOf, but tells apart a check that failed from one
// the depth limit cut short: decided is false when sub <: sup may still hold.
func (c *Checker) DecideSubtype(sub, sup Type) (isSubtype, decided bool) {
	run := c.newRun()
	isSubtype = run.isSubtype(sub, sup)
	return isSubtype, isSubtype || !run.cutShort
}

// Equivalent is true when a and b are subtypes of each other
func (c *Checker) Equivalent(a, b Type) bool {
	run := c.newRun()
	return run.isSubtype(a, b) && run.isSubtype(b, a)
}

func (c *Checker) newRun() *subtypingRun {
	limit := c.DepthLimit
	if limit <= 0 {
		limit = defaultDepthLimit
	}
	l := c.Logger
	if l == nil {
		l = logger
	}
	return &subtypingRun{vars: c.Variables, limit: limit, logger: l}
}

// subtypingRun holds the state of a single top-level IsSubtypeOf call
type subtypingRun struct {
	vars   VariableConstraints
	depth  int
	limit  int
	logger *slog.Logger
	// cutShort is set once some check went past the depth limit
	cutShort bool
}

func (r *subtypingRun) isSubtype(sub, sup Type) bool {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > r.limit {
		if !r.cutShort {
			r.cutShort = true
			r.logger.Warn("exceeded max depth limit, subtyping left undecided", "sub", sub, "sup", sup)
		}
		return false
	}
	if Equal(sub, sup) {
		return true
	}
	// for (L..U) <: T it is enough that L <: T, for T <: (L..U) that T <: U
	return r.isSimpleSubtype(LowerIfFlexible(sub), UpperIfFlexible(sup))
}

func (r *subtypingRun) isSimpleSubtype(sub, sup *SimpleType) bool {
	if simpleTypesEqual(sub, sup) {
		return true
	}
	if r.vars != nil {
		if v, ok := sub.constructor.(*TypeVariableConstructor); ok {
			_, supIsVariable := sup.constructor.(*TypeVariableConstructor)
			if sub.nullable && !sup.nullable && !supIsVariable {
				return false
			}
			return r.vars.AddUpperBound(v, sup)
		}
		if v, ok := sup.constructor.(*TypeVariableConstructor); ok {
			var lower Type = sub
			if sup.nullable {
				lower = sub.withNullability(false)
			}
			return r.vars.AddLowerBound(v, lower)
		}
	}

	if sub.nullable && !sup.nullable {
		return false
	}
	// from here on, null is accepted by sup whenever sub admits it
	if simpleTypesEqual(sub.withNullability(false), sup.withNullability(false)) || isNothingConstructor(sub) {
		return true
	}

	if intersection, ok := sup.constructor.(*IntersectionConstructor); ok {
		for _, component := range intersection.components {
			if sup.nullable {
				component = MakeNullable(component)
			}
			if !r.isSubtype(sub, component) {
				return false
			}
		}
		return true
	}

	switch subConstructor := sub.constructor.(type) {
	case *IntersectionConstructor:
		return r.anyAlternative(subConstructor.components, func(component Type) bool {
			if sub.nullable {
				component = MakeNullable(component)
			}
			return r.isSubtype(component, sup)
		})
	case *TypeParameterConstructor:
		return r.anyAlternative(subConstructor.descriptor.boundsOrDefault(), func(bound Type) bool {
			if sub.nullable {
				bound = MakeNullable(bound)
			}
			return r.isSubtype(bound, sup)
		})
	case *TypeVariableConstructor:
		// rigid: equal only to itself, which was checked above
		return false
	}

	supClass, ok := sup.constructor.(*ClassConstructor)
	if !ok {
		// type parameters and rigid variables only have themselves and Nothing as subtypes
		return false
	}
	if supClass.descriptor == anyClass {
		return true
	}
	corresponding := findCorrespondingSupertype(sub, supClass.descriptor)
	if corresponding == nil {
		return false
	}
	return r.argumentsMatch(corresponding, sup, supClass.descriptor.typeParameters)
}

// anyAlternative succeeds when check holds for one of candidates, dropping
// the variable bounds recorded by the candidates that failed
func (r *subtypingRun) anyAlternative(candidates []Type, check func(Type) bool) bool {
	for _, candidate := range candidates {
		if r.vars == nil {
			if check(candidate) {
				return true
			}
			continue
		}
		snapshot := r.vars.Snapshot()
		if check(candidate) {
			return true
		}
		r.vars.Restore(snapshot)
	}
	return false
}

// argumentsMatch compares the arguments of sub and sup, which share the same class constructor
func (r *subtypingRun) argumentsMatch(sub, sup *SimpleType, params []*TypeParameterDescriptor) bool {
	for i, param := range params {
		supArg := sup.arguments[i]
		if supArg.star {
			continue
		}
		supKind, ok := EffectiveVariance(param.variance, supArg.kind)
		if !ok {
			// behaves like a star projection
			continue
		}
		subArg := sub.arguments[i]
		subStar := subArg.star
		subKind := Invariant
		if !subStar {
			subKind, ok = EffectiveVariance(param.variance, subArg.kind)
			subStar = !ok
		}

		switch supKind {
		case Out:
			var matches bool
			switch {
			case subStar:
				matches = r.anyAlternative(param.boundsOrDefault(), func(bound Type) bool {
					return r.isSubtype(bound, supArg.typ)
				})
			case subKind == In:
				matches = r.isSubtype(NullableAnyType(), supArg.typ)
			default:
				matches = r.isSubtype(subArg.typ, supArg.typ)
			}
			if !matches {
				return false
			}
		case In:
			if subStar || subKind == Out {
				if !r.isSubtype(supArg.typ, NothingType()) {
					return false
				}
				continue
			}
			if !r.isSubtype(supArg.typ, subArg.typ) {
				return false
			}
		default:
			if subStar || subKind != Invariant {
				return false
			}
			if !r.isSubtype(subArg.typ, supArg.typ) || !r.isSubtype(supArg.typ, subArg.typ) {
				return false
			}
		}
	}
	return true
}

// findCorrespondingSupertype walks the supertypes of t breadth-first, substituting
// arguments along the way, until it reaches one built from target.
// It returns nil if target is not among the supertypes of t.
func findCorrespondingSupertype(t *SimpleType, target *ClassDescriptor) *SimpleType {
	if _, ok := t.constructor.(*ClassConstructor); !ok {
		return nil
	}
	visited := map[*ClassDescriptor]struct{}{}
	queue := []*SimpleType{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		class := current.constructor.(*ClassConstructor).descriptor
		if class == target {
			return current
		}
		if _, seen := visited[class]; seen {
			continue
		}
		visited[class] = struct{}{}
		substitutor := SubstitutorFor(class.typeParameters, current.arguments)
		for _, supertype := range class.Supertypes() {
			substituted := UpperIfFlexible(substitutor.Substitute(supertype))
			if _, ok := substituted.constructor.(*ClassConstructor); ok {
				queue = append(queue, substituted)
			}
		}
	}
	return nil
}

// CanHaveSubtypes reports whether some other type could be a proper subtype of t:
// nullable types, non-final constructors and final classes whose arguments can
// still move given their variance all can. A flexible type is judged by its upper bound.
func (c *Checker) CanHaveSubtypes(t Type) bool {
	st := UpperIfFlexible(t)
	if st.nullable || !st.constructor.IsFinal() {
		return true
	}
	for i, param := range st.constructor.Parameters() {
		arg := st.arguments[i]
		if arg.star {
			return true
		}
		// an argument that can move up needs an argument below the bound,
		// one that can move down needs an argument with subtypes
		canMoveUp, canMoveDown := false, false
		switch param.variance {
		case Invariant:
			switch arg.kind {
			case Invariant:
				canMoveUp, canMoveDown = true, true
			case In:
				canMoveUp = true
			case Out:
				canMoveDown = true
			}
		case In:
			if arg.kind != Out {
				canMoveUp = true
			} else {
				canMoveDown = true
			}
		case Out:
			if arg.kind != In {
				canMoveDown = true
			} else {
				canMoveUp = true
			}
		}
		if canMoveUp && c.lowerThanBound(arg.typ, param) {
			return true
		}
		if canMoveDown && c.CanHaveSubtypes(arg.typ) {
			return true
		}
	}
	return false
}

func (c *Checker) lowerThanBound(arg Type, param *TypeParameterDescriptor) bool {
	for _, bound := range param.boundsOrDefault() {
		if c.IsSubtypeOf(arg, bound) && UpperIfFlexible(arg).constructor != UpperIfFlexible(bound).constructor {
			return true
		}
	}
	return false
}
