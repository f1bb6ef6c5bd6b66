/*
Package textlayout turns styled text into lines of positioned glyphs.

The pipeline has three stages:

▪︎ Analysis computes scripts, emoji properties and bidi levels per
character (package analysis).

▪︎ Itemization splits the text into runs of uniform shaping attributes and
selects a font per character cluster, falling back through font stacks,
generic families and script fallbacks (packages itemize, fontdb). Runs are
shaped with go-text's HarfBuzz port (package shape).

▪︎ Layout breaks runs into lines, aligns them and composes every line into
glyph runs and inline boxes (package layout).

A [Context] bundles the long-lived parts: the font collection, the interning
tables for font stacks, features and variations, and the shaping engine.

	fonts := fontdb.NewCollection()
	fonts.LoadSystemFonts("")
	fonts.UseDefaultGenerics()
	ctx := textlayout.NewContext(fonts)
	l := ctx.Layout("Hello World", nil, nil, textlayout.Options{})
	l.BreakLines(200)
	line, _ := l.Line(0)
	for item := range line.Items() {
		...
	}

A Context is not safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package textlayout

import (
	"fmt"
	"slices"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/itemize"
	"github.com/npillmayer/textlayout/layout"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
	xlanguage "golang.org/x/text/language"
)

// tracer writes to trace with key 'textlayout'
func tracer() tracing.Trace {
	return tracing.Select("textlayout")
}

// Context holds fonts, style interning tables and a shaping engine.
type Context struct {
	fonts  *fontdb.Collection
	styles *style.Context
	query  *fontdb.Query
	engine shape.Engine
}

// NewContext creates a layout context for a font collection, shaping with
// go-text's HarfBuzz port.
func NewContext(fonts *fontdb.Collection) *Context {
	if fonts == nil {
		fonts = fontdb.NewCollection()
	}
	return &Context{
		fonts:  fonts,
		styles: style.NewContext(),
		query:  fonts.NewQuery(),
		engine: shape.NewHarfbuzzEngine(),
	}
}

// Fonts returns the font collection of the context.
func (ctx *Context) Fonts() *fontdb.Collection {
	return ctx.fonts
}

// Styles returns the interning tables for font stacks, features and
// variations.
func (ctx *Context) Styles() *style.Context {
	return ctx.styles
}

// SetEngine replaces the shaping engine.
func (ctx *Context) SetEngine(engine shape.Engine) {
	ctx.engine = engine
}

// Stack interns a font stack given by family names. Names of generic
// families ("sans-serif", "monospace", "emoji", …) refer to the generic
// family.
func (ctx *Context) Stack(names ...string) style.StackID {
	families := make([]fontdb.QueryFamily, 0, len(names))
	for _, name := range names {
		if g, ok := fontdb.ParseGenericFamily(name); ok {
			families = append(families, fontdb.Generic(g))
		} else {
			families = append(families, fontdb.Named(name))
		}
	}
	return ctx.styles.Stack(families...)
}

// Options control a single call to Layout.
type Options struct {
	BaseDirection analysis.Direction
	DefaultStyle  *style.Style // style of text not covered by a span; nil means style.Default
}

func (o Options) baseStyle() style.Style {
	if o.DefaultStyle == nil {
		return style.Default()
	}
	return *o.DefaultStyle
}

// Layout analyzes, itemizes and shapes text. The returned layout has not
// been broken into lines yet.
//
// Inline boxes are sorted by their byte offsets; boxes at the same offset
// keep their order. Box indices of the layout refer to the sorted order.
func (ctx *Context) Layout(text string, spans []style.Span, boxes []layout.InlineBox, opts Options) *layout.Layout {
	table, indices := style.Resolve(text, opts.baseStyle(), spans)
	infos, levels := analysis.Analyze(text, opts.BaseDirection)
	boxes = slices.Clone(boxes)
	slices.SortStableFunc(boxes, func(a, b layout.InlineBox) int {
		return a.Index - b.Index
	})
	var baseLevel uint8
	if opts.BaseDirection == analysis.RightToLeft {
		baseLevel = 1
	}
	l := layout.New(text, table, boxes, baseLevel)
	in := &itemize.Input{
		Text:        text,
		Styles:      table,
		CharStyles:  indices,
		Infos:       infos,
		Levels:      levels,
		InlineBoxes: boxes,
	}
	ictx := &itemize.Context{Styles: ctx.styles, Query: ctx.query, Engine: ctx.engine}
	itemize.Itemize(ictx, in, l)
	tracer().Debugf("layout of %d bytes: %d styles, %d runs, %d items",
		len(text), len(table), l.RunCount(), l.ItemCount())
	return l
}

// ParseLocale parses a BCP 47 language tag into a locale for styles.
// The empty string yields the empty locale.
func ParseLocale(tag string) (language.Language, error) {
	if tag == "" {
		return "", nil
	}
	t, err := xlanguage.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("textlayout: invalid locale %q: %w", tag, err)
	}
	return language.NewLanguage(t.String()), nil
}
