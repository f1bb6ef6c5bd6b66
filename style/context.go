package style

import (
	"hash/maphash"
	"slices"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/textlayout/fontdb"
)

// StackID identifies an interned font stack. 0 is the empty stack.
type StackID uint32

// FeaturesID identifies an interned feature set. 0 is the empty set.
type FeaturesID uint32

// VariationsID identifies an interned variation set. 0 is the empty set.
type VariationsID uint32

// Context interns font stacks, feature sets and variation sets.
type Context struct {
	stacks     interner[fontdb.QueryFamily]
	features   interner[shaping.FontFeature]
	variations interner[font.Variation]
}

// NewContext creates an empty interning context.
func NewContext() *Context {
	return &Context{
		stacks:     newInterner[fontdb.QueryFamily](),
		features:   newInterner[shaping.FontFeature](),
		variations: newInterner[font.Variation](),
	}
}

// Stack interns a font stack.
func (c *Context) Stack(families ...fontdb.QueryFamily) StackID {
	return StackID(c.stacks.intern(families))
}

// Features interns a feature set.
func (c *Context) Features(features ...shaping.FontFeature) FeaturesID {
	return FeaturesID(c.features.intern(features))
}

// Variations interns a variation set.
func (c *Context) Variations(variations ...font.Variation) VariationsID {
	return VariationsID(c.variations.intern(variations))
}

// StackFamilies returns the families of an interned stack.
func (c *Context) StackFamilies(id StackID) ([]fontdb.QueryFamily, bool) {
	return c.stacks.get(uint32(id))
}

// FeatureSet returns the features of an interned feature set.
func (c *Context) FeatureSet(id FeaturesID) ([]shaping.FontFeature, bool) {
	return c.features.get(uint32(id))
}

// VariationSet returns the variations of an interned variation set.
func (c *Context) VariationSet(id VariationsID) ([]font.Variation, bool) {
	return c.variations.get(uint32(id))
}

// interner maps sets to dense IDs. Sets are compared element-wise; the hash
// only selects a bucket of candidates.
type interner[T comparable] struct {
	seed    maphash.Seed
	buckets map[uint64][]uint32
	sets    [][]T
}

func newInterner[T comparable]() interner[T] {
	return interner[T]{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]uint32),
		sets:    [][]T{nil},
	}
}

func (in *interner[T]) hash(set []T) uint64 {
	var h maphash.Hash
	h.SetSeed(in.seed)
	for _, x := range set {
		maphash.WriteComparable(&h, x)
	}
	return h.Sum64()
}

func (in *interner[T]) intern(set []T) uint32 {
	if len(set) == 0 {
		return 0
	}
	k := in.hash(set)
	for _, id := range in.buckets[k] {
		if slices.Equal(in.sets[id], set) {
			return id
		}
	}
	id := uint32(len(in.sets))
	in.sets = append(in.sets, slices.Clone(set))
	in.buckets[k] = append(in.buckets[k], id)
	return id
}

func (in *interner[T]) get(id uint32) ([]T, bool) {
	if int(id) >= len(in.sets) {
		return nil, false
	}
	return in.sets[id], true
}
