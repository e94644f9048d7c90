package inhabit

import (
	"github.com/cottand/inhabit/types"
	"github.com/cottand/inhabit/util"
	"github.com/cottand/inhabit/util/oset"
)

// parameterUsage is a free type parameter and the variance it was first found under
type parameterUsage struct {
	parameter *types.TypeParameterDescriptor
	variance  types.Variance
}

type pendingType struct {
	t        types.Type
	variance types.Variance
}

// collectTypeParameters walks t in pre-order and calls emit for every type parameter
// reference not yet in seen, with the variance of the position it occurs in.
//
// A newly found parameter is added to seen and its declared upper bounds are walked
// under the same variance. Arguments are walked under the enclosing variance composed
// with their projection kind, star projections are skipped.
func collectTypeParameters(t types.Type, context types.Variance, seen *oset.OSet[*types.TypeParameterDescriptor], emit func(parameterUsage)) {
	stack := util.Stack[pendingType]{}
	stack.Push(pendingType{t: t, variance: context})
	for stack.Len() > 0 {
		current, _ := stack.Pop()
		if flexible, ok := current.t.(*types.FlexibleType); ok {
			stack.PushAll(
				pendingType{t: flexible.Lower(), variance: current.variance},
				pendingType{t: flexible.Upper(), variance: current.variance},
			)
			continue
		}
		simple := current.t.(*types.SimpleType)

		var next []pendingType
		switch constructor := simple.Constructor().(type) {
		case *types.TypeParameterConstructor:
			param := constructor.Descriptor()
			if seen.Add(param) == 0 {
				continue
			}
			emit(parameterUsage{parameter: param, variance: current.variance})
			for _, bound := range param.UpperBounds() {
				next = append(next, pendingType{t: bound, variance: current.variance})
			}
		case *types.IntersectionConstructor:
			for _, component := range constructor.Supertypes() {
				next = append(next, pendingType{t: component, variance: current.variance})
			}
		}
		for _, arg := range simple.Arguments() {
			if arg.IsStar() {
				continue
			}
			next = append(next, pendingType{t: arg.Type(), variance: current.variance.Compose(arg.Kind())})
		}
		stack.PushAll(next...)
	}
}

func newParameterSet() *oset.OSet[*types.TypeParameterDescriptor] {
	return oset.Empty[*types.TypeParameterDescriptor](types.ParameterHasher{})
}
