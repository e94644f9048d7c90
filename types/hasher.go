package types

import "github.com/benbjohnson/immutable"

var (
	_ immutable.Hasher[Type]                     = TypeHasher{}
	_ immutable.Hasher[*TypeParameterDescriptor] = ParameterHasher{}
)

// TypeHasher hashes types structurally, consistently with Equal
type TypeHasher struct{}

func (TypeHasher) Hash(t Type) uint32 {
	h := t.Hash()
	return uint32(h ^ h>>32)
}

func (TypeHasher) Equal(a, b Type) bool { return Equal(a, b) }

// ParameterHasher hashes type parameters by identity
type ParameterHasher struct{}

func (ParameterHasher) Hash(p *TypeParameterDescriptor) uint32 {
	return uint32(p.id ^ p.id>>32)
}

func (ParameterHasher) Equal(a, b *TypeParameterDescriptor) bool { return a == b }
