package shape

import (
	"testing"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/stretchr/testify/assert"
)

func tokenize(text string, style uint16) []Token {
	tokens := make([]Token, 0, len(text))
	for i, r := range text {
		tokens = append(tokens, Token{
			Ch:         r,
			Offset:     uint32(i),
			Len:        uint8(utf8.RuneLen(r)),
			Info:       analysis.Info(r),
			StyleIndex: style,
		})
	}
	return tokens
}

type cmap map[rune]font.GID

func (m cmap) NominalGlyph(r rune) (font.GID, bool) {
	g, ok := m[r]
	return g, ok
}

// runeSelector selects the first font whose charmap completely covers a
// cluster.
type runeSelector struct {
	fonts []*fontdb.Font
	calls int
}

func (s *runeSelector) SelectFont(c *CharCluster) (SelectedFont, bool) {
	s.calls++
	for _, f := range s.fonts {
		if c.Map(f.Charmap().NominalGlyph) == Complete {
			return SelectedFont{Font: f}, true
		}
	}
	return SelectedFont{}, false
}

func TestMapStatus(t *testing.T) {
	c := NewCharCluster(tokenize("e\u0301", 0), 0)
	assert.Equal(t, Complete, c.Map(cmap{'e': 1, 0x301: 2}.NominalGlyph))
	assert.Equal(t, []font.GID{1, 2}, c.Glyphs())
	assert.Equal(t, Keep, c.Map(cmap{'e': 1}.NominalGlyph))
	assert.Equal(t, Discard, c.Map(cmap{}.NominalGlyph))
}

func TestMapIgnoresJoiners(t *testing.T) {
	c := NewCharCluster(tokenize("a\u200d", 0), 0)
	assert.Equal(t, Complete, c.Map(cmap{'a': 1}.NominalGlyph))
	assert.Equal(t, []font.GID{1, NOTDEF}, c.Glyphs())
}

func TestClustersFollowGraphemes(t *testing.T) {
	clusters := Clusters(tokenize("e\u0301x", 0))
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	assert.Equal(t, 2, clusters[0].Len())
	assert.Equal(t, 2, clusters[1].Start())
	start, end := clusters[0].Range()
	assert.Equal(t, uint32(0), start)
	assert.Equal(t, uint32(3), end)
	assert.Nil(t, Clusters(nil))
}

func TestClusterInfoEmoji(t *testing.T) {
	c := NewCharCluster(tokenize("\u2764\ufe0f", 0), 0)
	if !c.Info().IsEmoji() {
		t.Errorf("expected heart cluster to be emoji")
	}
}

func TestPartitionByFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.shape")
	defer teardown()
	//
	a := fontdb.NewFont("A", fontdb.NormalAttributes, cmap{'a': 1, ' ': 3})
	b := fontdb.NewFont("B", fontdb.NormalAttributes, cmap{'b': 1})
	sel := &runeSelector{fonts: []*fontdb.Font{a, b}}
	var segs []Segment
	Partition(sel, tokenize("aa bb?a", 0), func(s Segment) {
		segs = append(segs, s)
	})
	assert.Equal(t, 7, sel.calls)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	assert.Equal(t, a, segs[0].Font.Font)
	assert.Equal(t, [2]int{0, 3}, [2]int{segs[0].Start, segs[0].End})
	// '?' has no font and stays with "bb"
	assert.Equal(t, b, segs[1].Font.Font)
	assert.Equal(t, [2]int{3, 6}, [2]int{segs[1].Start, segs[1].End})
	assert.Equal(t, [2]int{6, 7}, [2]int{segs[2].Start, segs[2].End})
}

func TestPartitionLeadingUnmapped(t *testing.T) {
	b := fontdb.NewFont("B", fontdb.NormalAttributes, cmap{'b': 1})
	var segs []Segment
	Partition(&runeSelector{fonts: []*fontdb.Font{b}}, tokenize("?b", 0), func(s Segment) {
		segs = append(segs, s)
	})
	if len(segs) != 1 || segs[0].Font.Font != b || segs[0].Start != 0 || segs[0].End != 2 {
		t.Fatalf("expected one segment with font B, got %+v", segs)
	}
}

func TestPartitionWithoutAnyFont(t *testing.T) {
	var segs []Segment
	Partition(&runeSelector{}, tokenize("xy", 0), func(s Segment) {
		segs = append(segs, s)
	})
	if len(segs) != 1 || segs[0].HasFont {
		t.Fatalf("expected one segment without font, got %+v", segs)
	}
}

func TestConvertOutputLogicalOrder(t *testing.T) {
	tokens := tokenize("xאב", 3)
	out := shaping.Output{
		// visual order of a right-to-left run
		Glyphs: []shaping.Glyph{
			{GlyphID: 12, ClusterIndex: 2, RuneCount: 1, Advance: floatToFixed(5)},
			{GlyphID: 11, ClusterIndex: 1, RuneCount: 1, Advance: floatToFixed(6), YOffset: floatToFixed(2)},
			{GlyphID: 10, ClusterIndex: 0, RuneCount: 1, Advance: floatToFixed(4)},
		},
		LineBounds: shaping.Bounds{Ascent: floatToFixed(10), Descent: floatToFixed(-3), Gap: floatToFixed(1)},
	}
	res := convertOutput(out, tokens)
	assert.Equal(t, float32(10), res.Ascent)
	assert.Equal(t, float32(3), res.Descent)
	assert.Equal(t, float32(1), res.Leading)
	if len(res.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(res.Clusters))
	}
	assert.Equal(t, 0, res.Clusters[0].Start)
	assert.Equal(t, 1, res.Clusters[1].Start)
	assert.Equal(t, 3, res.Clusters[1].End)
	assert.Equal(t, float32(-2), res.Clusters[1].Glyphs[0].Y)
	assert.Equal(t, uint16(3), res.Clusters[2].Glyphs[0].StyleIndex)
	assert.Equal(t, float32(15), res.Advance())
	assert.Equal(t, 3, res.GlyphCount())
}

func TestConvertOutputLigature(t *testing.T) {
	tokens := tokenize("fi", 0)
	out := shaping.Output{
		Glyphs: []shaping.Glyph{
			{GlyphID: 99, ClusterIndex: 0, RuneCount: 2, GlyphCount: 1, Advance: floatToFixed(8)},
		},
	}
	res := convertOutput(out, tokens)
	if len(res.Clusters) != 1 {
		t.Fatalf("expected a single ligature cluster, got %d", len(res.Clusters))
	}
	assert.Equal(t, 0, res.Clusters[0].Start)
	assert.Equal(t, 2, res.Clusters[0].End)
}

func TestEngineNotdefWithoutFontData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.shape")
	defer teardown()
	//
	a := fontdb.NewFont("A", fontdb.NormalAttributes, cmap{'a': 1})
	e := NewHarfbuzzEngine()
	var outs []*Output
	e.Shape(Options{Size: 10}, &runeSelector{fonts: []*fontdb.Font{a}}, tokenize("aa", 0),
		func(f SelectedFont, out *Output) {
			assert.Equal(t, a, f.Font)
			outs = append(outs, out)
		})
	if len(outs) != 1 {
		t.Fatalf("expected one output, got %d", len(outs))
	}
	assert.Equal(t, 2, len(outs[0].Clusters))
	assert.Equal(t, font.GID(NOTDEF), outs[0].Clusters[0].Glyphs[0].ID)
	assert.Equal(t, float32(0), outs[0].Advance())
	assert.Equal(t, float32(8), outs[0].Ascent)
}

func TestEngineShapesRealFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.shape")
	defer teardown()
	//
	data, err := td.Files.ReadFile("common/Roboto-BoldItalic.ttf")
	if err != nil {
		t.Skipf("test font not available: %v", err)
	}
	coll := fontdb.NewCollection()
	fonts, err := coll.AddFontData(data, false)
	if err != nil {
		t.Fatalf("cannot parse test font: %v", err)
	}
	sel := &runeSelector{fonts: fonts}
	tokens := tokenize("Hello World", 0)
	opts := Options{
		Size:      20,
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
		Direction: di.DirectionLTR,
	}
	var out *Output
	NewHarfbuzzEngine().Shape(opts, sel, tokens, func(_ SelectedFont, o *Output) {
		out = o
	})
	if out == nil {
		t.Fatalf("engine produced no output")
	}
	assert.Equal(t, len(tokens), len(out.Clusters))
	assert.True(t, out.Advance() > 0, "advance should be positive")
	assert.True(t, out.Ascent > 0 && out.Descent > 0, "metrics should be positive")
	assert.True(t, out.Clusters[5].Whitespace, "cluster 5 is a space")
	for i := 1; i < len(out.Clusters); i++ {
		assert.Equal(t, out.Clusters[i-1].End, out.Clusters[i].Start)
	}
}

func TestEmptyClusterPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.shape")
	defer teardown()
	//
	assert.Panics(t, func() { NewCharCluster(nil, 0) })
	assert.NotPanics(t, func() { NewCharCluster(tokenize("a", 0), 0) })
}
