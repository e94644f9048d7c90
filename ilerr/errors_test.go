package ilerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWithCode(t *testing.T) {
	testCases := []struct {
		err      IleError
		expected string
	}{
		{New(NewUnknownName{Position: Position{Line: 2, Column: 34}, Name: "Missing"}), "(E005) 2:34: 'Missing' does not name a class or type parameter"},
		{New(NewSyntax{Message: "expected a type, found end of input"}), "(E004) -: expected a type, found end of input"},
		{New(NewSyntax{Position: Position{Line: 1, Column: 5}, Message: "expected '>'", Source: "Box<Int"}), "(E004) 1:5: expected '>' in 'Box<Int'"},
		{New(NewArityMismatch{Position: Position{Line: 1, Column: 1}, Name: "Box", Expected: 1, Found: 0}), "(E006) 1:1: 'Box' expects 1 type arguments, but 0 were given"},
		{New(NewDuplicateDeclaration{Names: []string{"A", "B.T"}}), "(E007) declared more than once: A, B.T"},
		{New(NewConflictingBounds{Variable: "T'", Lower: "String", Upper: "Number"}), "(E002) type variable T' has conflicting bounds: String is not a subtype of Number"},
		{New(NewFuelExhausted{Sub: "A", Sup: "B"}), "(E003) ran out of fuel while constraining A <: B"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatWithCode(tc.err))
		})
	}
}

func TestErrors(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.Nil(t, errs.Errors())
	assert.Nil(t, errs.Merge(nil))
	assert.Nil(t, errs.With())
	assert.Equal(t, "", errs.Format("x:"))

	first := New(NewFuelExhausted{Sub: "A", Sup: "B"})
	errs = errs.With(first)
	assert.True(t, errs.HasError())

	other := (*Errors)(nil).With(New(NewDuplicateDeclaration{Names: []string{"A"}}))
	errs = errs.Merge(other).Merge(nil)
	assert.Equal(t, 2, errs.Len())
	assert.Equal(t, first, errs.Errors()[0])
	assert.Equal(t, []ErrCode{FuelExhausted, DuplicateDeclaration}, errs.Codes())
	assert.Equal(t, 1, other.Len(), "merging must not change the merged errors")
	assert.Equal(t,
		"decls.yaml:(E003) ran out of fuel while constraining A <: B\ndecls.yaml:(E007) declared more than once: A\n",
		errs.Format("decls.yaml:"))
}

func TestErrorsLogValue(t *testing.T) {
	var errs *Errors
	assert.Equal(t, int64(0), errs.LogValue().Int64())

	errs = errs.With(New(NewDuplicateDeclaration{Names: []string{"A"}}))
	group := errs.LogValue().Group()
	assert.Len(t, group, 1)
	assert.Equal(t, "0", group[0].Key)
	assert.Equal(t, "(E007) declared more than once: A", group[0].Value.String())
}

func TestUnclassified(t *testing.T) {
	cause := errors.New("boom")
	err := New(Unclassified{From: cause})
	assert.Equal(t, None, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.getStack())
}
