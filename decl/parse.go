package decl

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/cottand/inhabit/ilerr"
	"github.com/cottand/inhabit/types"
)

// Expr is the source of a type expression and where it was written.
//
// The grammar is
//
//	type         = intersection [ ".." intersection ]
//	intersection = nullable { "&" nullable }
//	nullable     = primary { "?" }
//	primary      = Name [ "<" argument { "," argument } ">" ] | "(" type ")"
//	argument     = "*" | [ "in" | "out" ] type
//
// where "L..U" is a flexible type, and "&" intersects its operands.
type Expr struct {
	Source string
	// Pos is where Source starts, unknown if zero
	Pos ilerr.Position
}

func (e Expr) String() string {
	return e.Source
}

// ParseType resolves e in scope
func ParseType(e Expr, scope *Scope) (types.Type, ilerr.IleError) {
	p := &parser{expr: e, scope: scope}
	p.s.Init(strings.NewReader(e.Source))
	p.s.Mode = scanner.ScanIdents
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.scanErr == nil {
			p.scanErr = p.errorf(s.Pos(), "%s", msg)
		}
	}
	p.next()

	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	if p.tok != scanner.EOF {
		return nil, p.unexpected("end of type")
	}
	return t, nil
}

type parser struct {
	s       scanner.Scanner
	tok     rune
	text    string
	pos     scanner.Position
	expr    Expr
	scope   *Scope
	scanErr ilerr.IleError
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position
}

// position translates a position inside the expression to one in the file
func (p *parser) position(at scanner.Position) ilerr.Position {
	// the scanner reports line 0 for the end of an empty input
	line, column := max(at.Line, 1), max(at.Column, 1)
	if !p.expr.Pos.IsKnown() {
		return ilerr.Position{Line: line, Column: column}
	}
	if line > 1 {
		return ilerr.Position{Line: p.expr.Pos.Line + line - 1, Column: column}
	}
	return ilerr.Position{Line: p.expr.Pos.Line, Column: p.expr.Pos.Column + column - 1}
}

func (p *parser) errorf(at scanner.Position, format string, args ...any) ilerr.IleError {
	return ilerr.New(ilerr.NewSyntax{
		Position: p.position(at),
		Message:  fmt.Sprintf(format, args...),
		Source:   p.expr.Source,
	})
}

func (p *parser) unexpected(expected string) ilerr.IleError {
	if p.tok == scanner.EOF {
		return p.errorf(p.pos, "expected %s, found end of input", expected)
	}
	return p.errorf(p.pos, "expected %s, found '%s'", expected, p.text)
}

func (p *parser) expect(tok rune) ilerr.IleError {
	if p.tok != tok {
		return p.unexpected("'" + string(tok) + "'")
	}
	p.next()
	return nil
}

func (p *parser) parseType() (types.Type, ilerr.IleError) {
	start := p.pos
	lower, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	if p.tok != '.' {
		return lower, nil
	}
	p.next()
	if err := p.expect('.'); err != nil {
		return nil, err
	}
	upper, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	lowerSimple, lowerOk := lower.(*types.SimpleType)
	upperSimple, upperOk := upper.(*types.SimpleType)
	if !lowerOk || !upperOk {
		return nil, p.errorf(start, "bounds of a flexible type cannot be flexible")
	}
	return types.NewFlexibleType(lowerSimple, upperSimple), nil
}

func (p *parser) parseIntersection() (types.Type, ilerr.IleError) {
	first, err := p.parseNullable()
	if err != nil {
		return nil, err
	}
	if p.tok != '&' {
		return first, nil
	}
	components := []types.Type{first}
	for p.tok == '&' {
		p.next()
		component, err := p.parseNullable()
		if err != nil {
			return nil, err
		}
		components = append(components, component)
	}
	return types.Intersect(components), nil
}

func (p *parser) parseNullable() (types.Type, ilerr.IleError) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok == '?' {
		t = types.MakeNullable(t)
		p.next()
	}
	return t, nil
}

func (p *parser) parsePrimary() (types.Type, ilerr.IleError) {
	switch p.tok {
	case '(':
		p.next()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return t, nil
	case scanner.Ident:
		return p.parseNamed()
	}
	return nil, p.unexpected("a type")
}

func (p *parser) parseNamed() (types.Type, ilerr.IleError) {
	name, at := p.text, p.pos
	p.next()
	classifier, ok := p.scope.Lookup(name)
	if !ok {
		return nil, ilerr.New(ilerr.NewUnknownName{Position: p.position(at), Name: name})
	}

	var args []types.TypeProjection
	if p.tok == '<' {
		p.next()
		for {
			arg, err := p.parseArgument()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok != ',' {
				break
			}
			p.next()
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
	}

	switch classifier := classifier.(type) {
	case *types.ClassDescriptor:
		if expected := len(classifier.TypeParameters()); expected != len(args) {
			return nil, ilerr.New(ilerr.NewArityMismatch{Position: p.position(at), Name: name, Expected: expected, Found: len(args)})
		}
		return types.NewSimpleType(classifier.TypeConstructor(), false, args...), nil
	case *types.TypeParameterDescriptor:
		if len(args) != 0 {
			return nil, ilerr.New(ilerr.NewArityMismatch{Position: p.position(at), Name: name, Expected: 0, Found: len(args)})
		}
		return classifier.DefaultType(), nil
	}
	panic("unexpected classifier " + classifier.Name())
}

func (p *parser) parseArgument() (types.TypeProjection, ilerr.IleError) {
	if p.tok == '*' {
		p.next()
		return types.Star(), nil
	}
	kind := types.Invariant
	if p.tok == scanner.Ident && (p.text == "in" || p.text == "out") {
		kind, _ = types.ParseVariance(p.text)
		p.next()
	}
	t, err := p.parseType()
	if err != nil {
		return types.TypeProjection{}, err
	}
	return types.Projected(kind, t), nil
}
