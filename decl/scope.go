package decl

import (
	"github.com/cottand/inhabit/types"
)

// Scope resolves names to classifiers, falling back to its parent
type Scope struct {
	parent      *Scope // can be nil
	classifiers map[string]types.Classifier
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:      parent,
		classifiers: make(map[string]types.Classifier),
	}
}

// BuiltinScope declares the builtin classes
func BuiltinScope() *Scope {
	s := NewScope(nil)
	for _, class := range types.Builtins() {
		s.Declare(class)
	}
	return s
}

// Declare shadows any classifier of the same name in the parent scopes
func (s *Scope) Declare(c types.Classifier) {
	s.classifiers[c.Name()] = c
}

func (s *Scope) Lookup(name string) (types.Classifier, bool) {
	for current := s; current != nil; current = current.parent {
		if c, ok := current.classifiers[name]; ok {
			return c, true
		}
	}
	return nil, false
}
