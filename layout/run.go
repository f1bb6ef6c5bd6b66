package layout

import (
	"slices"

	"github.com/npillmayer/textlayout/itemize"
	"github.com/npillmayer/textlayout/shape"
)

// InlineBox is non-text content anchored at a byte offset of the text.
type InlineBox = itemize.InlineBox

// RunMetrics are the font metrics of a run, scaled to its font size.
type RunMetrics struct {
	Ascent     float32
	Descent    float32
	Leading    float32
	LineHeight float32 // factor from the run's style
}

// Run is a sequence of shaped clusters sharing one font and one item.
type Run struct {
	Font          shape.SelectedFont
	Size          float32
	BidiLevel     uint8
	WordSpacing   float32
	LetterSpacing float32
	StyleIndex    uint16
	TextRange     itemize.Range
	Clusters      []shape.Cluster // logical order
	Metrics       RunMetrics
	Advance       float32

	glyphs []shape.Glyph // visual order
}

// IsRTL is true for runs with an odd bidi level.
func (r *Run) IsRTL() bool {
	return r.BidiLevel&1 != 0
}

// GlyphCount returns the number of glyphs of the run.
func (r *Run) GlyphCount() int {
	return len(r.glyphs)
}

// VisualGlyphs returns the glyphs of the run in visual order. The slice must
// not be modified.
func (r *Run) VisualGlyphs() []shape.Glyph {
	return r.glyphs
}

// VisualClusters returns the run's clusters in visual order.
func (r *Run) VisualClusters() []shape.Cluster {
	if !r.IsRTL() {
		return r.Clusters
	}
	clusters := slices.Clone(r.Clusters)
	slices.Reverse(clusters)
	return clusters
}

// trailingWhitespace is the advance of the whitespace clusters at the
// logical end of the run.
func (r *Run) trailingWhitespace() float32 {
	var ws float32
	for i := len(r.Clusters) - 1; i >= 0 && r.Clusters[i].Whitespace; i-- {
		ws += r.Clusters[i].Advance
	}
	return ws
}

// newRun creates a run from shaping output, applying letter and word
// spacing.
func newRun(item *itemize.Item, font shape.SelectedFont, out *shape.Output, lineHeight float32) Run {
	run := Run{
		Font:          font,
		Size:          item.Size,
		BidiLevel:     item.Level,
		WordSpacing:   item.WordSpacing,
		LetterSpacing: item.LetterSpacing,
		StyleIndex:    item.StyleIndex,
		TextRange:     itemize.Range{Start: item.TextRange.Start, End: item.TextRange.Start},
		Clusters:      make([]shape.Cluster, len(out.Clusters)),
		Metrics: RunMetrics{
			Ascent:     out.Ascent,
			Descent:    out.Descent,
			Leading:    out.Leading,
			LineHeight: lineHeight,
		},
	}
	for i, c := range out.Clusters {
		c.Glyphs = slices.Clone(c.Glyphs)
		extra := item.LetterSpacing
		if c.Whitespace {
			extra += item.WordSpacing
		}
		if extra != 0 && len(c.Glyphs) > 0 {
			c.Glyphs[len(c.Glyphs)-1].Advance += extra
			c.Advance += extra
		}
		run.Clusters[i] = c
		run.Advance += c.Advance
	}
	if n := len(run.Clusters); n > 0 {
		run.TextRange = itemize.Range{Start: run.Clusters[0].Start, End: run.Clusters[n-1].End}
	}
	for _, c := range run.VisualClusters() {
		run.glyphs = append(run.glyphs, c.Glyphs...)
	}
	return run
}
