// Package decl reads declaration files: YAML documents declaring classes and
// type parameters, and the questions to ask about them.
//
//	classes:
//	  - name: Box
//	    typeParameters: [T]
//	    supertypes: ["Source<T>"]
//	typeParameters:
//	  - name: P
//	    bounds: [Number, "Comparable<P>"]
//	queries:
//	  - intersect: [P, Int]
//	    expect: populated
//	  - bound: P
//
// Types are written as expressions, see Expr for their grammar.
package decl

import (
	"github.com/cottand/inhabit/ilerr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type File struct {
	Classes        []ClassDecl         `yaml:"classes"`
	TypeParameters []TypeParameterDecl `yaml:"typeParameters"`
	Queries        []QueryDecl         `yaml:"queries"`
}

type ClassDecl struct {
	Name string `yaml:"name"`
	// Kind is class, interface or object; class if empty
	Kind string `yaml:"kind,omitempty"`
	// Modality is final, open, abstract or sealed; abstract for interfaces
	// and final otherwise if empty
	Modality       string              `yaml:"modality,omitempty"`
	TypeParameters []TypeParameterDecl `yaml:"typeParameters,omitempty"`
	Supertypes     []Expr              `yaml:"supertypes,omitempty"`

	Pos ilerr.Position `yaml:"-"`
}

// TypeParameterDecl may also be written as just its name
type TypeParameterDecl struct {
	Name     string `yaml:"name"`
	Variance string `yaml:"variance,omitempty"`
	// Bounds default to Any?
	Bounds []Expr `yaml:"bounds,omitempty"`

	Pos ilerr.Position `yaml:"-"`
}

// QueryDecl either checks whether the intersection of two types has values,
// or computes the effective upper bound of a type parameter
type QueryDecl struct {
	Intersect []Expr `yaml:"intersect,omitempty"`
	Bound     string `yaml:"bound,omitempty"`
	// Expect is populated or empty for an intersection, and a type for a bound
	Expect *Expr `yaml:"expect,omitempty"`

	Pos ilerr.Position `yaml:"-"`
}

func nodePosition(node *yaml.Node) ilerr.Position {
	return ilerr.Position{Line: node.Line, Column: node.Column}
}

func (c *ClassDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain ClassDecl
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Pos = nodePosition(node)
	return nil
}

func (d *TypeParameterDecl) UnmarshalYAML(node *yaml.Node) error {
	d.Pos = nodePosition(node)
	if node.Kind == yaml.ScalarNode {
		d.Name = node.Value
		return nil
	}
	type plain TypeParameterDecl
	return node.Decode((*plain)(d))
}

func (d TypeParameterDecl) name() string { return d.Name }

func (q *QueryDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain QueryDecl
	if err := node.Decode((*plain)(q)); err != nil {
		return err
	}
	q.Pos = nodePosition(node)
	return nil
}

func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a type, found a %s", node.Line, nodeKindName(node.Kind))
	}
	e.Source = node.Value
	e.Pos = nodePosition(node)
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		e.Pos.Column++
	}
	return nil
}

func nodeKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "map"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// DecodeFile parses source without resolving any names
func DecodeFile(source []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(source, &file); err != nil {
		return File{}, errors.Wrap(err, "decode declarations")
	}
	return file, nil
}
