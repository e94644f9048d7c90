package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None ErrCode = iota
	ConstraintViolated
	ConflictingBounds
	FuelExhausted
	Syntax
	UnknownName
	ArityMismatch
	DuplicateDeclaration
	InvalidDeclaration
	DepthExceeded
)

type IleError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) IleError
	getStack() []byte
}

// Position is a 1-based line and column; the zero value means unknown
type Position struct {
	Line, Column int
}

func (p Position) IsKnown() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsKnown() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func FormatWithCode(e IleError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			if lines := strings.Split(stack, "\n"); len(lines) > 6 {
				stack = strings.TrimSpace(lines[6])
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E IleError](err E) IleError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From  error
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Unwrap() error    { return e.From }
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewConstraintViolated is reported when sub <: sup cannot hold
type NewConstraintViolated struct {
	Sub, Sup string
	Position string
	stack    []byte
}

func (e NewConstraintViolated) Error() string {
	return fmt.Sprintf("constraint %s <: %s cannot be satisfied (at %s)", e.Sub, e.Sup, e.Position)
}
func (e NewConstraintViolated) Code() ErrCode    { return ConstraintViolated }
func (e NewConstraintViolated) getStack() []byte { return e.stack }
func (e NewConstraintViolated) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewConflictingBounds is reported when a lower bound of a type variable is not below one of its upper bounds
type NewConflictingBounds struct {
	Variable     string
	Lower, Upper string
	stack        []byte
}

func (e NewConflictingBounds) Error() string {
	return fmt.Sprintf("type variable %s has conflicting bounds: %s is not a subtype of %s", e.Variable, e.Lower, e.Upper)
}
func (e NewConflictingBounds) Code() ErrCode    { return ConflictingBounds }
func (e NewConflictingBounds) getStack() []byte { return e.stack }
func (e NewConflictingBounds) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewFuelExhausted struct {
	Sub, Sup string
	stack    []byte
}

func (e NewFuelExhausted) Error() string {
	return fmt.Sprintf("ran out of fuel while constraining %s <: %s", e.Sub, e.Sup)
}
func (e NewFuelExhausted) Code() ErrCode    { return FuelExhausted }
func (e NewFuelExhausted) getStack() []byte { return e.stack }
func (e NewFuelExhausted) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewSyntax struct {
	Position
	Message string
	Source  string
	stack   []byte
}

func (e NewSyntax) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s in '%s'", e.Position, e.Message, e.Source)
}
func (e NewSyntax) Code() ErrCode    { return Syntax }
func (e NewSyntax) getStack() []byte { return e.stack }
func (e NewSyntax) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnknownName struct {
	Position
	Name  string
	stack []byte
}

func (e NewUnknownName) Error() string {
	return fmt.Sprintf("%s: '%s' does not name a class or type parameter", e.Position, e.Name)
}
func (e NewUnknownName) Code() ErrCode    { return UnknownName }
func (e NewUnknownName) getStack() []byte { return e.stack }
func (e NewUnknownName) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewArityMismatch struct {
	Position
	Name     string
	Expected int
	Found    int
	stack    []byte
}

func (e NewArityMismatch) Error() string {
	return fmt.Sprintf("%s: '%s' expects %d type arguments, but %d were given", e.Position, e.Name, e.Expected, e.Found)
}
func (e NewArityMismatch) Code() ErrCode    { return ArityMismatch }
func (e NewArityMismatch) getStack() []byte { return e.stack }
func (e NewArityMismatch) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewDuplicateDeclaration struct {
	Names []string
	stack []byte
}

func (e NewDuplicateDeclaration) Error() string {
	return fmt.Sprintf("declared more than once: %s", strings.Join(e.Names, ", "))
}
func (e NewDuplicateDeclaration) Code() ErrCode    { return DuplicateDeclaration }
func (e NewDuplicateDeclaration) getStack() []byte { return e.stack }
func (e NewDuplicateDeclaration) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewInvalidDeclaration struct {
	Name   string
	Reason string
	stack  []byte
}

func (e NewInvalidDeclaration) Error() string {
	return fmt.Sprintf("invalid declaration '%s': %s", e.Name, e.Reason)
}
func (e NewInvalidDeclaration) Code() ErrCode    { return InvalidDeclaration }
func (e NewInvalidDeclaration) getStack() []byte { return e.stack }
func (e NewInvalidDeclaration) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewDepthExceeded is reported when sub <: sup nests too deep to be decided
type NewDepthExceeded struct {
	Sub, Sup string
	stack    []byte
}

func (e NewDepthExceeded) Error() string {
	return fmt.Sprintf("%s <: %s nests too deep to be decided", e.Sub, e.Sup)
}
func (e NewDepthExceeded) Code() ErrCode    { return DepthExceeded }
func (e NewDepthExceeded) getStack() []byte { return e.stack }
func (e NewDepthExceeded) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}
