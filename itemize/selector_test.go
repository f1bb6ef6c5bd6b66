package itemize

import (
	"testing"
	"unicode/utf8"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
	"github.com/stretchr/testify/assert"
)

func clusterOf(text string, styleIndex uint16) *shape.CharCluster {
	var tokens []shape.Token
	for i, r := range text {
		tokens = append(tokens, shape.Token{
			Ch:         r,
			Offset:     uint32(i),
			Len:        uint8(utf8.RuneLen(r)),
			Info:       analysis.Info(r),
			StyleIndex: styleIndex,
		})
	}
	c := shape.NewCharCluster(tokens, 0)
	return &c
}

func selectedFamily(t *testing.T, fs *FontSelector, c *shape.CharCluster) string {
	t.Helper()
	sel, ok := fs.SelectFont(c)
	if !ok {
		t.Fatalf("no font selected for %v", c.Tokens())
	}
	return sel.Font.Family
}

func TestSelectorPrefersCompleteMapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.itemize")
	defer teardown()
	//
	f := newFixture(t)
	table := []style.Style{f.style("Latin", "Hebrew", "Sans")}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	assert.Equal(t, "Latin", selectedFamily(t, fs, clusterOf("a", 0)))
	assert.Equal(t, "Hebrew", selectedFamily(t, fs, clusterOf("א", 0)))
	assert.Equal(t, "Sans", selectedFamily(t, fs, clusterOf("x", 0)))
}

func TestSelectorLiveness(t *testing.T) {
	f := newFixture(t)
	table := []style.Style{f.style("Latin", "Hebrew")}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	// neither font maps 'x'; the first candidate is the last resort
	assert.Equal(t, "Latin", selectedFamily(t, fs, clusterOf("x", 0)))
	// both fonts map part of the cluster; the later one wins
	assert.Equal(t, "Hebrew", selectedFamily(t, fs, clusterOf("aא", 0)))
}

func TestSelectorWithoutCandidates(t *testing.T) {
	f := newFixture(t)
	table := []style.Style{f.style("Nonexistent")}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	if _, ok := fs.SelectFont(clusterOf("a", 0)); ok {
		t.Fatalf("expected no selection for an empty candidate list")
	}
	fs = NewFontSelector(&Context{}, table, 0, language.Latin, "")
	if _, ok := fs.SelectFont(clusterOf("a", 0)); ok {
		t.Fatalf("expected no selection without a query")
	}
}

func TestSelectorEmojiFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.itemize")
	defer teardown()
	//
	f := newFixture(t)
	table := []style.Style{f.style("Latin")}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	assert.Equal(t, "Emoji", selectedFamily(t, fs, clusterOf("😀", 0)))
	assert.False(t, fs.stackValid)
	// the next cluster narrows back to the plain stack
	assert.Equal(t, "Latin", selectedFamily(t, fs, clusterOf("a", 0)))
	assert.True(t, fs.stackValid)
	families := f.ctx.Query.Candidates()
	assert.Equal(t, 1, len(families))
}

func TestSelectorReusesScope(t *testing.T) {
	f := newFixture(t)
	s0 := f.style("Latin", "Sans")
	s1 := s0
	s1.Underline = true
	s2 := f.style("Hebrew")
	s2.FontWeight = font.WeightBold
	table := []style.Style{s0, s1, s2}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	q := f.ctx.Query
	selectedFamily(t, fs, clusterOf("a", 0))
	scopes := q.ScopeChanges()
	selectedFamily(t, fs, clusterOf("b", 0))
	selectedFamily(t, fs, clusterOf("a", 1)) // same stack and attributes
	assert.Equal(t, scopes, q.ScopeChanges())
	sel, ok := fs.SelectFont(clusterOf("א", 2))
	if !ok {
		t.Fatalf("expected a font for style 2")
	}
	assert.Equal(t, "Hebrew", sel.Font.Family)
	assert.True(t, sel.Synthesis.Embolden, "regular font for bold request needs emboldening")
	assert.Equal(t, scopes+1, q.ScopeChanges())
}

func TestSelectorUnloadableFontIsLastResort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.itemize")
	defer teardown()
	//
	f := newFixture(t)
	// a font without a charmap stands for one which failed to load
	if err := f.coll.Register(fontdb.NewFont("Broken", fontdb.NormalAttributes, nil)); err != nil {
		t.Fatalf("cannot register font: %v", err)
	}
	table := []style.Style{f.style("Broken", "Latin")}
	fs := NewFontSelector(f.ctx, table, 0, language.Latin, "")
	assert.Equal(t, "Latin", selectedFamily(t, fs, clusterOf("a", 0)))
	// nothing maps 'x'; the unloadable font is the first candidate
	assert.Equal(t, "Broken", selectedFamily(t, fs, clusterOf("x", 0)))
	//
	table = []style.Style{f.style("Broken")}
	fs = NewFontSelector(f.ctx, table, 0, language.Latin, "")
	sel, ok := fs.SelectFont(clusterOf("a", 0))
	if !ok {
		t.Fatalf("a non-empty candidate list must select a font")
	}
	assert.Equal(t, "Broken", sel.Font.Family)
}
