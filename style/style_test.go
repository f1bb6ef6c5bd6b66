package style

import (
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/stretchr/testify/assert"
)

func TestStackInterning(t *testing.T) {
	c := NewContext()
	a := c.Stack(fontdb.Named("Alpha"), fontdb.Generic(fontdb.SansSerif))
	b := c.Stack(fontdb.Named("Alpha"), fontdb.Generic(fontdb.SansSerif))
	other := c.Stack(fontdb.Named("Alpha"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Equal(t, StackID(0), c.Stack())
	fams, ok := c.StackFamilies(a)
	assert.True(t, ok)
	assert.Equal(t, []fontdb.QueryFamily{fontdb.Named("Alpha"), fontdb.Generic(fontdb.SansSerif)}, fams)
	_, ok = c.StackFamilies(StackID(99))
	assert.False(t, ok)
}

func TestInterningKeepsSeparatorsInNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout")
	defer teardown()
	//
	c := NewContext()
	pair := c.Stack(fontdb.Named("a"), fontdb.Named("b"))
	single := c.Stack(fontdb.Named("a/0|b"))
	assert.NotEqual(t, pair, single)
	generic := c.Stack(fontdb.Generic(fontdb.SansSerif))
	named := c.Stack(fontdb.Named(fontdb.SansSerif.String()))
	assert.NotEqual(t, generic, named, "generic and named families must not share an ID")
	fams, _ := c.StackFamilies(single)
	assert.Equal(t, []fontdb.QueryFamily{fontdb.Named("a/0|b")}, fams)
	// an explicit empty set is the empty stack
	assert.Equal(t, StackID(0), c.Stack([]fontdb.QueryFamily{}...))
}

func TestFeatureAndVariationInterning(t *testing.T) {
	c := NewContext()
	liga := shaping.FontFeature{Tag: opentype.MustNewTag("liga"), Value: 0}
	kern := shaping.FontFeature{Tag: opentype.MustNewTag("kern"), Value: 1}
	f1 := c.Features(liga, kern)
	f2 := c.Features(liga, kern)
	f3 := c.Features(kern, liga)
	assert.Equal(t, f1, f2)
	assert.NotEqual(t, f1, f3, "feature order is significant")
	//
	wght := font.Variation{Tag: opentype.MustNewTag("wght"), Value: 650}
	v1 := c.Variations(wght)
	v2 := c.Variations(wght)
	assert.Equal(t, v1, v2)
	assert.Equal(t, VariationsID(0), c.Variations())
	set, ok := c.VariationSet(v1)
	assert.True(t, ok)
	assert.Equal(t, []font.Variation{wght}, set)
}

func TestResolveSpans(t *testing.T) {
	base := Default()
	big := base
	big.FontSize = 24
	red := base
	red.Brush.R = 0xff
	text := "ab€cd" // '€' is 3 bytes
	table, indices := Resolve(text, base, []Span{
		{Start: 1, End: 5, Style: big},
		{Start: 2, End: 5, Style: red},
		{Start: 6, End: 7, Style: big},
	})
	assert.Equal(t, []Style{base, big, red}, table)
	assert.Equal(t, []uint16{0, 1, 2, 0, 1}, indices)
}

func TestLineHeightFactor(t *testing.T) {
	s := Style{}
	assert.Equal(t, float32(1), s.LineHeightFactor())
	s.LineHeight = 1.5
	assert.Equal(t, float32(1.5), s.LineHeightFactor())
}
