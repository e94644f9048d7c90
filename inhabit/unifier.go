package inhabit

import (
	"github.com/cottand/inhabit/inference"
	"github.com/cottand/inhabit/types"
)

// freeTypeParameters collects the type parameters of ts, in order of first discovery
func freeTypeParameters(ts ...types.Type) []parameterUsage {
	seen := newParameterSet()
	var usages []parameterUsage
	for _, t := range ts {
		collectTypeParameters(t, types.Invariant, seen, func(usage parameterUsage) {
			usages = append(usages, usage)
		})
	}
	return usages
}

// mayBeEqual tells whether a <: b holds for some instantiation of the type parameters
// occurring in either type. Every such parameter is treated as unconstrained apart
// from its declared bounds.
//
// mayBeEqual may answer true when no instantiation exists, but never answers false
// when one does.
func (a *Analyzer) mayBeEqual(typeA, typeB types.Type) bool {
	usages := freeTypeParameters(typeA, typeB)
	params := make([]*types.TypeParameterDescriptor, len(usages))
	for i, usage := range usages {
		params[i] = usage.parameter
	}

	system := a.newSystem()
	substitutor := system.RegisterTypeVariables(params)
	substitutedB := substitutor.Substitute(typeB)
	system.AddSubtypeConstraint(typeA, substitutedB, inference.SpecialPosition())
	status := system.Build()

	a.logger.Debug("checked if types may be equal",
		"a", typeA,
		"b", typeB,
		"parameters", len(params),
		"successful", status.IsSuccessful(),
	)
	return status.IsSuccessful()
}
