package itemize

import (
	"fmt"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
	"github.com/stretchr/testify/suite"
)

// --- Test helpers ----------------------------------------------------------

type cmap map[rune]font.GID

func (m cmap) NominalGlyph(r rune) (font.GID, bool) {
	g, ok := m[r]
	return g, ok
}

// coverAll maps every character.
type coverAll struct{}

func (coverAll) NominalGlyph(r rune) (font.GID, bool) {
	return font.GID(r), true
}

// fakeEngine emits one cluster per token, with an advance of 1 per glyph.
type fakeEngine struct {
	calls int
	opts  []shape.Options
}

func (e *fakeEngine) Shape(opts shape.Options, sel shape.Selector, tokens []shape.Token,
	emit func(shape.SelectedFont, *shape.Output)) {
	//
	e.calls++
	e.opts = append(e.opts, opts)
	shape.Partition(sel, tokens, func(seg shape.Segment) {
		out := &shape.Output{Ascent: opts.Size * 0.8, Descent: opts.Size * 0.2}
		for _, t := range tokens[seg.Start:seg.End] {
			out.Clusters = append(out.Clusters, shape.Cluster{
				Start:   int(t.Offset),
				End:     int(t.End()),
				Advance: 1,
				Glyphs:  []shape.Glyph{{ID: font.GID(t.Ch), StyleIndex: t.StyleIndex, Advance: 1}},
			})
		}
		emit(seg.Font, out)
	})
}

type pushedRun struct {
	item Item
	font shape.SelectedFont
	out  *shape.Output
}

// recorder is a Sink recording events in order.
type recorder struct {
	events []string
	runs   []pushedRun
}

func (r *recorder) PushRun(item Item, font shape.SelectedFont, out *shape.Output) {
	// segments of one item report their own range
	rng := item.TextRange
	if n := len(out.Clusters); n > 0 {
		rng = Range{Start: out.Clusters[0].Start, End: out.Clusters[n-1].End}
	}
	r.events = append(r.events, "run "+rng.String())
	r.runs = append(r.runs, pushedRun{item: item, font: font, out: out})
}

func (r *recorder) PushInlineBox(index int) {
	r.events = append(r.events, fmt.Sprintf("box %d", index))
}

type fixture struct {
	coll   *fontdb.Collection
	styles *style.Context
	engine *fakeEngine
	ctx    *Context
}

func newFixture(t *testing.T) *fixture {
	coll := fontdb.NewCollection()
	for _, f := range []*fontdb.Font{
		fontdb.NewFont("Sans", fontdb.NormalAttributes, coverAll{}),
		fontdb.NewFont("Latin", fontdb.NormalAttributes, cmap{'a': 1, 'b': 2}),
		fontdb.NewFont("Hebrew", fontdb.NormalAttributes, cmap{'א': 1, 'ב': 2}),
		fontdb.NewFont("Emoji", fontdb.NormalAttributes, cmap{'😀': 1}),
	} {
		if err := coll.Register(f); err != nil {
			t.Fatalf("cannot register font: %v", err)
		}
	}
	coll.SetGenericFamily(fontdb.Emoji, "Emoji")
	f := &fixture{coll: coll, styles: style.NewContext(), engine: &fakeEngine{}}
	f.ctx = &Context{Styles: f.styles, Query: coll.NewQuery(), Engine: f.engine}
	return f
}

func (f *fixture) style(families ...string) style.Style {
	st := style.Default()
	qf := make([]fontdb.QueryFamily, len(families))
	for i, name := range families {
		qf[i] = fontdb.Named(name)
	}
	st.FontStack = f.styles.Stack(qf...)
	return st
}

func (f *fixture) input(text string, styles ...style.Style) *Input {
	infos, levels := analysis.Analyze(text, analysis.LeftToRight)
	return &Input{
		Text:       text,
		Styles:     styles,
		CharStyles: make([]uint16, len(infos)),
		Infos:      infos,
		Levels:     levels,
	}
}

func (f *fixture) itemize(in *Input) *recorder {
	rec := &recorder{}
	Itemize(f.ctx, in, rec)
	return rec
}

// --- Itemizer suite --------------------------------------------------------

type ItemizeTestEnviron struct {
	suite.Suite
	fx *fixture
}

func TestItemizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.itemize")
	defer teardown()
	suite.Run(t, new(ItemizeTestEnviron))
}

func (env *ItemizeTestEnviron) SetupTest() {
	env.fx = newFixture(env.T())
	tracing.Select("textlayout.itemize").SetTraceLevel(tracing.LevelDebug)
}

func (env *ItemizeTestEnviron) TestBoxAtEndOfText() {
	in := env.fx.input("Hello", env.fx.style("Sans"))
	in.InlineBoxes = []InlineBox{{Index: 5, Width: 10, Height: 10}}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..5", "box 0"}, rec.events)
}

func (env *ItemizeTestEnviron) TestLevelChangeBreaks() {
	in := env.fx.input("AB", env.fx.style("Sans"))
	in.Levels = []uint8{0, 1}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..1", "run 1..2"}, rec.events)
	env.Equal(uint8(0), rec.runs[0].item.Level)
	env.Equal(uint8(1), rec.runs[1].item.Level)
	env.True(rec.runs[1].item.IsRTL())
}

func (env *ItemizeTestEnviron) TestEmptyTextPlaceholder() {
	rec := env.fx.itemize(env.fx.input("", env.fx.style("Sans")))
	env.Equal([]string{"run 0..0"}, rec.events)
	env.Equal(1, env.fx.engine.calls)
	out := rec.runs[0].out
	env.Equal(1, len(out.Clusters))
	env.Equal(0, out.Clusters[0].Start)
	env.Equal(0, out.Clusters[0].End)
	env.True(out.Ascent > 0)
}

func (env *ItemizeTestEnviron) TestEmptyTextWithBoxes() {
	in := env.fx.input("", env.fx.style("Sans"))
	in.InlineBoxes = []InlineBox{{Index: 0}, {Index: 0}}
	rec := env.fx.itemize(in)
	env.Equal([]string{"box 0", "box 1"}, rec.events)
	env.Equal(0, env.fx.engine.calls)
}

func (env *ItemizeTestEnviron) TestNoStyles() {
	in := env.fx.input("abc")
	in.InlineBoxes = []InlineBox{{Index: 1}}
	rec := env.fx.itemize(in)
	env.Equal([]string{"box 0"}, rec.events)
	env.Equal(0, env.fx.engine.calls)
}

func (env *ItemizeTestEnviron) TestBoxesInterleave() {
	in := env.fx.input("abcd", env.fx.style("Sans"))
	in.InlineBoxes = []InlineBox{{Index: 0}, {Index: 2}, {Index: 2}, {Index: 9}, {Index: 12}}
	rec := env.fx.itemize(in)
	env.Equal([]string{"box 0", "run 0..2", "box 1", "box 2", "run 2..4", "box 3", "box 4"}, rec.events)
}

func (env *ItemizeTestEnviron) TestBoxInsideCharacter() {
	in := env.fx.input("a€b", env.fx.style("Sans"))
	in.InlineBoxes = []InlineBox{{Index: 2}}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..4", "box 0", "run 4..5"}, rec.events)
}

func (env *ItemizeTestEnviron) TestStyleBreaks() {
	s0 := env.fx.style("Sans")
	paint := s0
	paint.Underline = true
	bigger := s0
	bigger.FontSize = 20
	in := env.fx.input("abcdef", s0, paint, bigger)
	in.CharStyles = []uint16{0, 0, 1, 1, 2, 2}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..4", "run 4..6"}, rec.events)
	env.Equal(float32(20), rec.runs[1].item.Size)
	env.Equal(uint16(2), rec.runs[1].item.StyleIndex)
	// paint styles survive in the glyphs
	env.Equal(uint16(1), rec.runs[0].out.Clusters[2].Glyphs[0].StyleIndex)
}

func (env *ItemizeTestEnviron) TestNearlyEqualSizesDoNotBreak() {
	s0 := env.fx.style("Sans")
	s1 := s0
	s1.FontSize += 1e-7
	s1.Brush.R = 0xff
	in := env.fx.input("ab", s0, s1)
	in.CharStyles = []uint16{0, 1}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..2"}, rec.events)
}

func (env *ItemizeTestEnviron) TestSpacingBreaks() {
	s0 := env.fx.style("Sans")
	s1 := s0
	s1.LetterSpacing = 2
	in := env.fx.input("ab", s0, s1)
	in.CharStyles = []uint16{0, 1}
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..1", "run 1..2"}, rec.events)
	env.Equal(float32(2), rec.runs[1].item.LetterSpacing)
}

func (env *ItemizeTestEnviron) TestScriptBreaks() {
	rec := env.fx.itemize(env.fx.input("a, אב", env.fx.style("Sans")))
	// the levels of Analyze split as well; common characters stay with Latin
	env.Equal("run 0..3", rec.events[0])
	env.Equal(language.Latin, rec.runs[0].item.Script)
	last := rec.runs[len(rec.runs)-1].item
	env.Equal(language.Hebrew, last.Script)
}

func (env *ItemizeTestEnviron) TestFirstScriptIsFirstRealScript() {
	in := env.fx.input("1 א", env.fx.style("Sans"))
	in.Levels = nil
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..4"}, rec.events)
	env.Equal(language.Hebrew, rec.runs[0].item.Script)
}

func (env *ItemizeTestEnviron) TestShortArraysAreTolerated() {
	in := env.fx.input("abc", env.fx.style("Sans"))
	in.CharStyles = []uint16{7}
	in.Infos = nil
	in.Levels = nil
	rec := env.fx.itemize(in)
	env.Equal([]string{"run 0..3"}, rec.events)
	env.Equal(language.Latin, rec.runs[0].item.Script)
}

func (env *ItemizeTestEnviron) TestHardBreaksEndItems() {
	rec := env.fx.itemize(env.fx.input("ab\ncd\r\nef", env.fx.style("Sans")))
	env.Equal([]string{"run 0..3", "run 3..7", "run 7..9"}, rec.events)
}

func (env *ItemizeTestEnviron) TestParagraphLevelsAfterHardBreak() {
	rec := env.fx.itemize(env.fx.input("ab\nאב", env.fx.style("Sans")))
	env.Equal([]string{"run 0..3", "run 3..7"}, rec.events)
	env.Equal(uint8(0), rec.runs[0].item.Level)
	env.Equal(uint8(1), rec.runs[1].item.Level)
}

func (env *ItemizeTestEnviron) TestVariationsAndFeaturesReachEngine() {
	st := env.fx.style("Sans")
	st.Variations = env.fx.styles.Variations(font.Variation{Tag: opentype.MustNewTag("wght"), Value: 500})
	st.Features = env.fx.styles.Features(shaping.FontFeature{Tag: opentype.MustNewTag("smcp"), Value: 1})
	env.fx.itemize(env.fx.input("ab", st))
	env.Equal(1, env.fx.engine.calls)
	opts := env.fx.engine.opts[0]
	env.Equal([]font.Variation{{Tag: opentype.MustNewTag("wght"), Value: 500}}, opts.Variations)
	env.Equal(1, len(opts.Features))
	env.Equal(opentype.MustNewTag("smcp"), opts.Features[0].Tag)
}

func (env *ItemizeTestEnviron) TestRightToLeftOptions() {
	in := env.fx.input("אב", env.fx.style("Hebrew"))
	rec := env.fx.itemize(in)
	env.Equal(1, len(rec.runs))
	env.Equal(di.DirectionRTL, env.fx.engine.opts[0].Direction)
	env.Equal("Hebrew", rec.runs[0].font.Font.Family)
}

// --- Properties ------------------------------------------------------------

func mixedInput(f *fixture) *Input {
	s0 := f.style("Latin", "Sans")
	s1 := s0
	s1.FontSize = 12
	s2 := s0
	s2.Underline = true
	text := "ab אב 😀 ab"
	in := f.input(text, s0, s1, s2)
	for i := range in.CharStyles {
		in.CharStyles[i] = uint16(i % 3)
	}
	in.InlineBoxes = []InlineBox{{Index: 0}, {Index: 3}, {Index: 3}, {Index: 7}, {Index: len(text)}, {Index: 99}}
	return in
}

func TestPartitionProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textlayout.itemize")
	defer teardown()
	//
	f := newFixture(t)
	in := mixedInput(f)
	rec := f.itemize(in)
	pos, box := 0, 0
	for _, ev := range rec.events {
		var a, b int
		if n, _ := fmt.Sscanf(ev, "run %d..%d", &a, &b); n == 2 {
			if a != pos {
				t.Fatalf("gap or overlap at %d: %v", pos, rec.events)
			}
			for box < len(in.InlineBoxes) && in.InlineBoxes[box].Index <= a {
				t.Fatalf("box %d at %d not emitted before run %d..%d", box, in.InlineBoxes[box].Index, a, b)
			}
			for _, bx := range in.InlineBoxes {
				if bx.Index > a && bx.Index < b {
					t.Fatalf("run %d..%d crosses box at %d", a, b, bx.Index)
				}
			}
			pos = b
			continue
		}
		if ev != fmt.Sprintf("box %d", box) {
			t.Fatalf("boxes out of order: %v", rec.events)
		}
		if in.InlineBoxes[box].Index < len(in.Text) && in.InlineBoxes[box].Index != pos {
			t.Fatalf("box %d emitted at %d, anchored at %d", box, pos, in.InlineBoxes[box].Index)
		}
		box++
	}
	if pos != len(in.Text) || box != len(in.InlineBoxes) {
		t.Fatalf("text covered up to %d, %d boxes emitted: %v", pos, box, rec.events)
	}
}

func TestItemizeIsDeterministic(t *testing.T) {
	f := newFixture(t)
	first := f.itemize(mixedInput(f))
	for range 3 {
		g := newFixture(t)
		again := g.itemize(mixedInput(g))
		if fmt.Sprint(first.events) != fmt.Sprint(again.events) {
			t.Fatalf("itemization differs:\n%v\n%v", first.events, again.events)
		}
	}
}
