package decl

import (
	"testing"

	"github.com/cottand/inhabit/ilerr"
	"github.com/cottand/inhabit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope() *Scope {
	scope := NewScope(BuiltinScope())
	t := types.NewTypeParameter("T", types.Invariant, 0)
	t.SetUpperBounds(types.NullableAnyType())
	box := types.NewClass("Box", types.KindClass, types.ModalityFinal, t)
	k := types.NewTypeParameter("K", types.In, 0)
	k.SetUpperBounds(types.NullableAnyType())
	v := types.NewTypeParameter("V", types.Out, 1)
	v.SetUpperBounds(types.NullableAnyType())
	pair := types.NewClass("Pair", types.KindClass, types.ModalityFinal, k, v)
	open := types.NewClass("Base", types.KindClass, types.ModalityOpen)
	p := types.NewTypeParameter("P", types.Invariant, 0)
	p.SetUpperBounds(types.NumberClass().DefaultType())
	for _, c := range []types.Classifier{box, pair, open, p} {
		scope.Declare(c)
	}
	return scope
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		source   string
		expected string
	}{
		{"Int", "Int"},
		{"Int?", "Int?"},
		{"  String ", "String"},
		{"Box<Int>", "Box<Int>"},
		{"Box<Box<Int?>>", "Box<Box<Int?>>"},
		{"Box<*>", "Box<*>"},
		{"Box<out Number>", "Box<out Number>"},
		{"Pair<in Int, String>", "Pair<in Int, String>"},
		{"Comparable<P>?", "Comparable<P>?"},
		{"P", "P"},
		{"(Int)", "Int"},
		{"Int & Number", "Int"},
		{"Base & Comparable<Int>", "{Base & Comparable<Int>}"},
		{"(Base & Comparable<Int>)?", "{Base & Comparable<Int>}?"},
		{"Int..Int?", "(Int..Int?)"},
		{"Box<Int..Int?>", "Box<(Int..Int?)>"},
	}
	for _, tc := range testCases {
		t.Run(tc.source, func(t *testing.T) {
			parsed, err := ParseType(Expr{Source: tc.source}, testScope())
			require.Nil(t, err)
			assert.Equal(t, tc.expected, parsed.String())
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	testCases := []struct {
		source   string
		code     ilerr.ErrCode
		position ilerr.Position
	}{
		{"Foo", ilerr.UnknownName, ilerr.Position{Line: 3, Column: 10}},
		{"Box<Foo>", ilerr.UnknownName, ilerr.Position{Line: 3, Column: 14}},
		{"Box", ilerr.ArityMismatch, ilerr.Position{Line: 3, Column: 10}},
		{"Box<Int, Int>", ilerr.ArityMismatch, ilerr.Position{Line: 3, Column: 10}},
		{"P<Int>", ilerr.ArityMismatch, ilerr.Position{Line: 3, Column: 10}},
		{"Box<Int", ilerr.Syntax, ilerr.Position{Line: 3, Column: 17}},
		{"Int Int", ilerr.Syntax, ilerr.Position{Line: 3, Column: 14}},
		{"", ilerr.Syntax, ilerr.Position{Line: 3, Column: 10}},
		{"Int.Int", ilerr.Syntax, ilerr.Position{Line: 3, Column: 14}},
		{"(Int", ilerr.Syntax, ilerr.Position{Line: 3, Column: 14}},
		{"(Int..Int?)..Int", ilerr.Syntax, ilerr.Position{Line: 3, Column: 10}},
	}
	for _, tc := range testCases {
		t.Run(tc.source, func(t *testing.T) {
			_, err := ParseType(Expr{Source: tc.source, Pos: ilerr.Position{Line: 3, Column: 10}}, testScope())
			require.NotNil(t, err)
			assert.Equal(t, tc.code, err.Code(), err.Error())
			assert.Contains(t, err.Error(), tc.position.String())
		})
	}
}
