// Package inference implements a constraint system over fresh type variables.
//
// A Builder is created per question, type parameters are registered as
// variables, subtyping constraints are added, and Build tells whether some
// assignment of the variables satisfies all of them. Constraints are decomposed
// by the types.Checker, which hands every bound it reaches on a variable back
// to the Builder; each new bound is checked against the opposite bounds already
// known for that variable.
package inference

import (
	"log/slog"
	"slices"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/inhabit/ilerr"
	"github.com/cottand/inhabit/internal/log"
	"github.com/cottand/inhabit/types"
	"github.com/hashicorp/go-set/v3"
)

const defaultStartingFuel = 10000

var logger = log.Section("inference")

// Builder is not safe for concurrent use, and must not be shared between questions
type Builder struct {
	checker   *types.Checker
	variables *set.Set[*types.TypeVariableConstructor]
	// registration order of variables
	ordered []*types.TypeVariableConstructor

	state state
	// fuel is not part of state: work spent on discarded alternatives stays spent
	fuel     int
	position Position
	// incomplete is set when we ran out of fuel and stopped checking bounds,
	// or when a check went past the depth limit of the checker
	incomplete ilerr.IleError
	logger    *slog.Logger
}

type variableBounds struct {
	lower, upper []types.Type
}

// state is everything speculative checks may need to roll back.
// Persistent collections make taking a snapshot free.
type state struct {
	bounds *immutable.Map[uint64, variableBounds]
	// seen holds the keys of bounds already incorporated
	seen   immutable.Set[uint64]
	errors *immutable.List[ilerr.IleError]
}

func NewBuilder() *Builder {
	b := &Builder{
		variables: set.New[*types.TypeVariableConstructor](0),
		state: state{
			bounds: immutable.NewMap[uint64, variableBounds](immutable.NewHasher(uint64(0))),
			seen:   immutable.NewSet[uint64](immutable.NewHasher(uint64(0))),
			errors: immutable.NewList[ilerr.IleError](),
		},
		fuel:   defaultStartingFuel,
		logger: logger,
	}
	b.checker = &types.Checker{Variables: incorporator{b}, Logger: b.logger}
	return b
}

// WithFuel sets how many bounds may be incorporated before the builder gives up
// checking them. Giving up never makes a system unsuccessful.
func (b *Builder) WithFuel(fuel int) *Builder {
	b.fuel = fuel
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	b.checker.Logger = l
	return b
}

// RegisterTypeVariables creates a fresh variable for each of params and returns
// the substitution replacing every parameter with its variable.
// The declared upper bounds of params become upper bounds of the variables.
func (b *Builder) RegisterTypeVariables(params []*types.TypeParameterDescriptor) *types.Substitutor {
	substitutor := types.NewSubstitutor()
	fresh := make([]*types.TypeVariableConstructor, len(params))
	for i, param := range params {
		v := types.NewTypeVariable(param)
		fresh[i] = v
		b.variables.Insert(v)
		b.ordered = append(b.ordered, v)
		substitutor.Put(param, types.Invariantly(v.DefaultType()))
	}
	for i, param := range params {
		for _, bound := range param.UpperBounds() {
			if types.Equal(bound, types.NullableAnyType()) {
				continue
			}
			b.AddSubtypeConstraint(fresh[i].DefaultType(), substitutor.Substitute(bound), TypeBoundPosition(i))
		}
	}
	return substitutor
}

// AddSubtypeConstraint asserts sub <: sup
func (b *Builder) AddSubtypeConstraint(sub, sup types.Type, position Position) {
	b.position = position
	before := b.state
	holds, decided := b.checker.DecideSubtype(sub, sup)
	if holds {
		b.logger.Debug("added constraint", "sub", sub, "sup", sup, "position", position)
		return
	}
	if !decided {
		// drop whatever the unfinished check recorded
		b.state = before
		b.giveUp(ilerr.New(ilerr.NewDepthExceeded{Sub: sub.String(), Sup: sup.String()}),
			"constraint nests too deep, assuming it holds", "sub", sub, "sup", sup, "position", position)
		return
	}
	b.logger.Debug("constraint cannot be satisfied", "sub", sub, "sup", sup, "position", position)
	b.addError(ilerr.New(ilerr.NewConstraintViolated{
		Sub:      sub.String(),
		Sup:      sup.String(),
		Position: position.String(),
	}))
}

// giveUp marks the system incomplete; the first reason is kept
func (b *Builder) giveUp(reason ilerr.IleError, msg string, args ...any) {
	if b.incomplete != nil {
		return
	}
	b.incomplete = reason
	b.logger.Warn(msg, args...)
}

func (b *Builder) addError(err ilerr.IleError) {
	b.state.errors = b.state.errors.Append(err)
}

// Variables returns the registered variables in registration order
func (b *Builder) Variables() []*types.TypeVariableConstructor {
	return slices.Clone(b.ordered)
}

// Bounds returns the bounds recorded so far for v
func (b *Builder) Bounds(v *types.TypeVariableConstructor) (lower, upper []types.Type) {
	bounds, _ := b.state.bounds.Get(v.ID())
	return slices.Clone(bounds.lower), slices.Clone(bounds.upper)
}

// Build returns the status of the system. The builder may still be used afterwards.
func (b *Builder) Build() Status {
	errs := make([]ilerr.IleError, 0, b.state.errors.Len())
	itr := b.state.errors.Iterator()
	for !itr.Done() {
		_, err := itr.Next()
		errs = append(errs, err)
	}
	return Status{errors: errs, incomplete: b.incomplete}
}

// incorporator is how the checker reports bounds of variables back to the Builder
type incorporator struct {
	b *Builder
}

var _ types.VariableConstraints = incorporator{}

const (
	upperKey uint64 = 0x9e3779b97f4a7c15
	lowerKey uint64 = 0xc2b2ae3d27d4eb4f
)

func (i incorporator) AddUpperBound(v *types.TypeVariableConstructor, upper types.Type) bool {
	return i.b.incorporate(v, upper, true)
}

func (i incorporator) AddLowerBound(v *types.TypeVariableConstructor, lower types.Type) bool {
	return i.b.incorporate(v, lower, false)
}

func (i incorporator) Snapshot() any {
	return i.b.state
}

func (i incorporator) Restore(snapshot any) {
	i.b.state = snapshot.(state)
}

// incorporate records bound as an upper (or lower) bound of v and checks it
// against every lower (or upper) bound of v recorded so far
func (b *Builder) incorporate(v *types.TypeVariableConstructor, bound types.Type, isUpper bool) bool {
	if !b.variables.Contains(v) {
		// a variable of another system is as rigid as a type parameter
		b.logger.Warn("variable is not registered in this constraint system", "variable", v)
		return false
	}
	direction := lowerKey
	if isUpper {
		direction = upperKey
	}
	key := (v.ID()*31+bound.Hash())*31 ^ direction
	if b.state.seen.Has(key) {
		return true
	}
	if b.fuel <= 0 {
		b.giveUp(ilerr.New(ilerr.NewFuelExhausted{Sub: v.String(), Sup: bound.String()}),
			"ran out of fuel, assuming remaining bounds are consistent", "variable", v, "bound", bound)
		return true
	}
	b.fuel--
	b.state.seen = b.state.seen.Add(key)

	bounds, _ := b.state.bounds.Get(v.ID())
	var opposite []types.Type
	if isUpper {
		bounds.upper = append(slices.Clone(bounds.upper), bound)
		opposite = bounds.lower
	} else {
		bounds.lower = append(slices.Clone(bounds.lower), bound)
		opposite = bounds.upper
	}
	b.state.bounds = b.state.bounds.Set(v.ID(), bounds)

	for _, other := range opposite {
		lower, upper := other, bound
		if !isUpper {
			lower, upper = bound, other
		}
		before := b.state
		holds, decided := b.checker.DecideSubtype(lower, upper)
		if !decided {
			b.state = before
			b.giveUp(ilerr.New(ilerr.NewDepthExceeded{Sub: lower.String(), Sup: upper.String()}),
				"bounds nest too deep, assuming they are consistent", "variable", v, "lower", lower, "upper", upper)
			continue
		}
		if !holds {
			b.logger.Debug("conflicting bounds", "variable", v, "lower", lower, "upper", upper)
			b.addError(ilerr.New(ilerr.NewConflictingBounds{
				Variable: v.String(),
				Lower:    lower.String(),
				Upper:    upper.String(),
			}))
			return false
		}
	}
	return true
}
