package decl

import (
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/cottand/inhabit/ilerr"
	"github.com/cottand/inhabit/internal/log"
	"github.com/cottand/inhabit/types"
	"github.com/cottand/inhabit/util"
	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

var logger = log.Section("decl")

// Declarations are the resolved contents of a declaration file
type Declarations struct {
	// Scope resolves the declared classes and free type parameters, and the builtins
	Scope   *Scope
	Classes []*types.ClassDescriptor
	// TypeParameters are the free type parameters, not those of classes
	TypeParameters []*types.TypeParameterDescriptor
	Queries        []Query
}

type QueryKind uint8

const (
	IntersectQuery QueryKind = iota
	BoundQuery
)

type Query struct {
	Kind QueryKind
	Pos  ilerr.Position
	// A and B are the types to intersect in an IntersectQuery
	A, B types.Type
	// Parameter is the type parameter of a BoundQuery
	Parameter *types.TypeParameterDescriptor

	// ExpectPopulated is the expected answer of an IntersectQuery, nil if none
	ExpectPopulated *bool
	// ExpectBound is the expected answer of a BoundQuery, nil if none
	ExpectBound types.Type
}

func (q Query) String() string {
	if q.Kind == BoundQuery {
		return "bound of " + q.Parameter.Name()
	}
	return q.A.String() + " & " + q.B.String()
}

// LoadFile reads and resolves the declaration file at name.
//
// The returned error is only set if the file could not be read or is not valid YAML.
// Problems with the declarations themselves are reported in the returned ilerr.Errors,
// and the declarations that could be resolved are still returned.
func LoadFile(fsys fs.FS, name string) (*Declarations, *ilerr.Errors, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", name)
	}
	decls, errs, err := Load(content)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", name)
	}
	return decls, errs, nil
}

// Load resolves a declaration file, see LoadFile
func Load(source []byte) (*Declarations, *ilerr.Errors, error) {
	file, err := DecodeFile(source)
	if err != nil {
		return nil, nil, err
	}
	l := &loader{
		decls: &Declarations{Scope: NewScope(BuiltinScope())},
	}
	l.resolve(file)
	logger.Debug("loaded declarations",
		"classes", len(l.decls.Classes),
		"typeParameters", len(l.decls.TypeParameters),
		"queries", len(l.decls.Queries),
		"errors", l.errs,
	)
	return l.decls, l.errs, nil
}

type loader struct {
	decls *Declarations
	errs  *ilerr.Errors
	// section holds the errors of the step currently resolving
	section *ilerr.Errors
}

func (l *loader) report(err ilerr.IleError) {
	l.section = l.section.With(err)
}

// inSection runs step, then adds the errors it reported to the others
func (l *loader) inSection(name string, step func()) {
	l.section = nil
	step()
	if l.section.HasError() {
		logger.Debug("declarations have errors", "step", name, "errors", l.section)
	}
	l.errs = l.errs.Merge(l.section)
	l.section = nil
}

// pendingParameter is a declared type parameter whose bounds are not resolved yet
type pendingParameter struct {
	descriptor *types.TypeParameterDescriptor
	decl       TypeParameterDecl
	scope      *Scope
}

func (l *loader) resolve(file File) {
	global := l.decls.Scope
	l.inSection("duplicates", func() { l.checkDuplicates(file) })

	var pending []pendingParameter
	classScopes := make([]*Scope, len(file.Classes))
	declared := make([]*types.ClassDescriptor, len(file.Classes))
	l.inSection("declarations", func() {
		for i, classDecl := range file.Classes {
			if _, exists := global.Lookup(classDecl.Name); exists {
				continue
			}
			class, params, ok := l.declareClass(classDecl)
			if !ok {
				continue
			}
			global.Declare(class)
			l.decls.Classes = append(l.decls.Classes, class)
			declared[i] = class

			classScopes[i] = NewScope(global)
			for j, param := range params {
				classScopes[i].Declare(param)
				pending = append(pending, pendingParameter{descriptor: param, decl: classDecl.TypeParameters[j], scope: classScopes[i]})
			}
		}

		for i, paramDecl := range file.TypeParameters {
			if _, exists := global.Lookup(paramDecl.Name); exists {
				continue
			}
			param, ok := l.declareParameter(paramDecl, i)
			if !ok {
				continue
			}
			global.Declare(param)
			l.decls.TypeParameters = append(l.decls.TypeParameters, param)
			pending = append(pending, pendingParameter{descriptor: param, decl: paramDecl, scope: global})
		}
	})

	// supertypes go first, so that intersections in bounds see the whole hierarchy
	l.inSection("supertypes", func() {
		for i, classDecl := range file.Classes {
			if declared[i] != nil {
				l.resolveSupertypes(declared[i], classDecl, classScopes[i])
			}
		}
	})
	l.inSection("bounds", func() {
		for _, param := range pending {
			l.resolveBounds(param)
		}
	})
	l.inSection("queries", func() {
		for _, queryDecl := range file.Queries {
			if query, ok := l.resolveQuery(queryDecl); ok {
				l.decls.Queries = append(l.decls.Queries, query)
			}
		}
	})
}

func (l *loader) checkDuplicates(file File) {
	for _, class := range file.Classes {
		paramNames := slices.Collect(util.MapIter(slices.Values(class.TypeParameters), TypeParameterDecl.name))
		if dups := duplicates(paramNames); len(dups) > 0 {
			l.report(ilerr.New(ilerr.NewDuplicateDeclaration{Names: qualify(class.Name, dups)}))
		}
	}

	names := slices.Collect(util.ConcatIter(
		util.MapIter(slices.Values(types.Builtins()), (*types.ClassDescriptor).Name),
		util.MapIter(slices.Values(file.Classes), func(c ClassDecl) string { return c.Name }),
		util.MapIter(slices.Values(file.TypeParameters), TypeParameterDecl.name),
	))
	if dups := duplicates(names); len(dups) > 0 {
		l.report(ilerr.New(ilerr.NewDuplicateDeclaration{Names: dups}))
	}
}

// duplicates returns, sorted, the names occurring more than once in names
func duplicates(names []string) []string {
	sorted := slices.Clone(names)
	sort.Strings(sorted)
	unique := set.Uniq(sort.StringSlice(sorted))
	// Uniq moves the repeated occurrences past the unique ones
	repeated := sorted[unique:]
	sort.Strings(repeated)
	return repeated[:set.Uniq(sort.StringSlice(repeated))]
}

func qualify(prefix string, names []string) []string {
	qualified := make([]string, len(names))
	for i, name := range names {
		qualified[i] = prefix + "." + name
	}
	return qualified
}

func (l *loader) invalid(name, format string, args ...any) {
	l.report(ilerr.New(ilerr.NewInvalidDeclaration{Name: name, Reason: fmt.Sprintf(format, args...)}))
}

func (l *loader) declareClass(d ClassDecl) (*types.ClassDescriptor, []*types.TypeParameterDescriptor, bool) {
	if !isName(d.Name) {
		l.invalid(d.Name, "at %s: class names must be identifiers", d.Pos)
		return nil, nil, false
	}
	var kind types.ClassKind
	switch d.Kind {
	case "", "class":
		kind = types.KindClass
	case "interface":
		kind = types.KindInterface
	case "object":
		kind = types.KindObject
	default:
		l.invalid(d.Name, "at %s: unknown kind '%s'", d.Pos, d.Kind)
		return nil, nil, false
	}

	var modality types.Modality
	switch d.Modality {
	case "":
		modality = types.ModalityFinal
		if kind == types.KindInterface {
			modality = types.ModalityAbstract
		}
	case "final":
		modality = types.ModalityFinal
	case "open":
		modality = types.ModalityOpen
	case "abstract":
		modality = types.ModalityAbstract
	case "sealed":
		modality = types.ModalitySealed
	default:
		l.invalid(d.Name, "at %s: unknown modality '%s'", d.Pos, d.Modality)
		return nil, nil, false
	}
	if kind == types.KindInterface && modality == types.ModalityFinal {
		l.invalid(d.Name, "at %s: interfaces cannot be final", d.Pos)
		return nil, nil, false
	}

	params := make([]*types.TypeParameterDescriptor, 0, len(d.TypeParameters))
	for i, paramDecl := range d.TypeParameters {
		param, ok := l.declareParameter(paramDecl, i)
		if !ok {
			return nil, nil, false
		}
		params = append(params, param)
	}
	return types.NewClass(d.Name, kind, modality, params...), params, true
}

func (l *loader) declareParameter(d TypeParameterDecl, index int) (*types.TypeParameterDescriptor, bool) {
	if !isName(d.Name) {
		l.invalid(d.Name, "at %s: type parameter names must be identifiers", d.Pos)
		return nil, false
	}
	variance, err := types.ParseVariance(d.Variance)
	if err != nil {
		l.invalid(d.Name, "at %s: %v", d.Pos, err)
		return nil, false
	}
	return types.NewTypeParameter(d.Name, variance, index), true
}

func (l *loader) resolveSupertypes(class *types.ClassDescriptor, d ClassDecl, scope *Scope) {
	var supertypes []*types.SimpleType
	for _, expr := range d.Supertypes {
		t, err := ParseType(expr, scope)
		if err != nil {
			l.report(err)
			continue
		}
		supertype, ok := t.(*types.SimpleType)
		if !ok || supertype.IsMarkedNullable() {
			l.invalid(class.Name(), "at %s: supertype %s must be a non-null class", expr.Pos, t)
			continue
		}
		constructor, ok := supertype.Constructor().(*types.ClassConstructor)
		if !ok {
			l.invalid(class.Name(), "at %s: supertype %s must be a class", expr.Pos, t)
			continue
		}
		if super := constructor.Descriptor(); super.Modality() == types.ModalityFinal {
			l.invalid(class.Name(), "at %s: cannot extend final class %s", expr.Pos, super.Name())
			continue
		}
		supertypes = append(supertypes, supertype)
	}
	class.SetSupertypes(supertypes...)
}

func (l *loader) resolveBounds(param pendingParameter) {
	if len(param.decl.Bounds) == 0 {
		param.descriptor.SetUpperBounds(types.NullableAnyType())
		return
	}
	var bounds []types.Type
	for _, expr := range param.decl.Bounds {
		bound, err := ParseType(expr, param.scope)
		if err != nil {
			l.report(err)
			continue
		}
		bounds = append(bounds, bound)
	}
	if len(bounds) == 0 {
		bounds = append(bounds, types.NullableAnyType())
	}
	param.descriptor.SetUpperBounds(bounds...)
}

func (l *loader) resolveQuery(d QueryDecl) (Query, bool) {
	query := Query{Pos: d.Pos}
	switch {
	case len(d.Intersect) > 0 && d.Bound != "":
		l.invalid("query", "at %s: a query either intersects or asks for a bound", d.Pos)
		return Query{}, false

	case d.Bound != "":
		query.Kind = BoundQuery
		classifier, ok := l.decls.Scope.Lookup(d.Bound)
		if !ok {
			l.report(ilerr.New(ilerr.NewUnknownName{Position: d.Pos, Name: d.Bound}))
			return Query{}, false
		}
		query.Parameter, ok = classifier.(*types.TypeParameterDescriptor)
		if !ok {
			l.invalid("query", "at %s: %s is not a type parameter", d.Pos, d.Bound)
			return Query{}, false
		}
		if d.Expect != nil {
			expected, err := ParseType(*d.Expect, l.decls.Scope)
			if err != nil {
				l.report(err)
				return Query{}, false
			}
			query.ExpectBound = expected
		}
		return query, true

	case len(d.Intersect) == 2:
		query.Kind = IntersectQuery
		var err ilerr.IleError
		if query.A, err = ParseType(d.Intersect[0], l.decls.Scope); err != nil {
			l.report(err)
			return Query{}, false
		}
		if query.B, err = ParseType(d.Intersect[1], l.decls.Scope); err != nil {
			l.report(err)
			return Query{}, false
		}
		if d.Expect != nil {
			var populated bool
			switch strings.TrimSpace(d.Expect.Source) {
			case "populated":
				populated = true
			case "empty":
				populated = false
			default:
				l.invalid("query", "at %s: expected populated or empty, found '%s'", d.Expect.Pos, d.Expect.Source)
				return Query{}, false
			}
			query.ExpectPopulated = &populated
		}
		return query, true
	}
	l.invalid("query", "at %s: intersect needs exactly two types, found %d", d.Pos, len(d.Intersect))
	return Query{}, false
}

func isName(s string) bool {
	if s == "" || s == "in" || s == "out" {
		return false
	}
	for i, r := range s {
		isLetter := r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
