package inference

import "strconv"

type PositionKind uint8

const (
	// Special marks constraints asserted by the type checker itself rather than
	// coming from a call being resolved
	Special PositionKind = iota
	// TypeBound marks the declared upper bound of a registered type parameter
	TypeBound
	Explicit
)

// Position records where a constraint comes from, for error reporting and logs
type Position struct {
	Kind PositionKind
	// Index is the index of the type parameter for TypeBound, otherwise 0
	Index int
}

func SpecialPosition() Position            { return Position{Kind: Special} }
func ExplicitPosition() Position           { return Position{Kind: Explicit} }
func TypeBoundPosition(index int) Position { return Position{Kind: TypeBound, Index: index} }

func (p Position) String() string {
	switch p.Kind {
	case Special:
		return "special"
	case TypeBound:
		return "type bound #" + strconv.Itoa(p.Index)
	default:
		return "explicit"
	}
}
