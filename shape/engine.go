package shape

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/textlayout/fontdb"
)

// SelectedFont is a font chosen for a cluster, with the synthesis needed to
// emulate the requested style.
type SelectedFont struct {
	Font      *fontdb.Font
	Synthesis fontdb.Synthesis
}

// Equal is true if both selections would shape identically.
func (f SelectedFont) Equal(other SelectedFont) bool {
	return f.Font == other.Font && f.Synthesis == other.Synthesis
}

// Selector chooses a font for a character cluster. It is called once per
// cluster, in text order. Returning false leaves the cluster to the engine's
// no-font policy.
type Selector interface {
	SelectFont(cluster *CharCluster) (SelectedFont, bool)
}

// Options are the item-wide shaping parameters.
type Options struct {
	Size       float32
	Script     language.Script
	Language   language.Language
	Direction  di.Direction
	Variations []font.Variation
	Features   []shaping.FontFeature
}

// Glyph is a shaped glyph. X and Y are offsets from the pen position, with
// y growing downwards.
type Glyph struct {
	ID         font.GID
	StyleIndex uint16
	X, Y       float32
	Advance    float32
}

// Cluster is a shaped cluster: a byte range of the text and its glyphs.
type Cluster struct {
	Start, End int
	Glyphs     []Glyph
	Advance    float32
	Whitespace bool
}

// Output is the result of shaping one segment. Clusters are in logical
// (text) order.
type Output struct {
	Clusters []Cluster
	Ascent   float32
	Descent  float32 // positive, below the baseline
	Leading  float32
}

// Advance returns the sum of all cluster advances.
func (o *Output) Advance() float32 {
	var adv float32
	for i := range o.Clusters {
		adv += o.Clusters[i].Advance
	}
	return adv
}

// GlyphCount returns the number of glyphs in the output.
func (o *Output) GlyphCount() int {
	n := 0
	for i := range o.Clusters {
		n += len(o.Clusters[i].Glyphs)
	}
	return n
}

// Engine shapes one item. emit is called once per finished segment, in
// logical order.
type Engine interface {
	Shape(opts Options, sel Selector, tokens []Token, emit func(SelectedFont, *Output))
}
