package layout

import (
	"iter"

	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
)

// PositionedItem is either a GlyphRun or a PositionedInlineBox.
type PositionedItem interface {
	positioned()
}

// PositionedInlineBox is an inline box placed on a line. Its bottom rests
// on the baseline.
type PositionedInlineBox struct {
	X, Y          float32
	Width, Height float32
	ID            uint64
}

func (PositionedInlineBox) positioned() {}

// GlyphRun is a sequence of glyphs of one run sharing one style, placed on
// a line.
type GlyphRun struct {
	run        *Run
	style      *style.Style
	styleIndex uint16
	glyphStart int
	glyphCount int
	offset     float32
	baseline   float32
	advance    float32
}

func (GlyphRun) positioned() {}

// Run returns the run the glyphs belong to.
func (gr GlyphRun) Run() *Run { return gr.run }

// Style returns the style of the glyphs.
func (gr GlyphRun) Style() *style.Style { return gr.style }

// StyleIndex returns the index of the glyphs' style.
func (gr GlyphRun) StyleIndex() uint16 { return gr.styleIndex }

// GlyphStart returns the index of the first glyph within the run's visual
// glyphs.
func (gr GlyphRun) GlyphStart() int { return gr.glyphStart }

// GlyphCount returns the number of glyphs.
func (gr GlyphRun) GlyphCount() int { return gr.glyphCount }

// Offset returns the x coordinate of the first glyph's pen position.
func (gr GlyphRun) Offset() float32 { return gr.offset }

// Baseline returns the y coordinate of the baseline.
func (gr GlyphRun) Baseline() float32 { return gr.baseline }

// Advance returns the total advance of the glyphs.
func (gr GlyphRun) Advance() float32 { return gr.advance }

// Glyphs returns the glyphs in visual order, with positions relative to
// their pen positions.
func (gr GlyphRun) Glyphs() []shape.Glyph {
	return gr.run.glyphs[gr.glyphStart : gr.glyphStart+gr.glyphCount]
}

// PositionedGlyphs returns the glyphs with absolute coordinates.
func (gr GlyphRun) PositionedGlyphs() []shape.Glyph {
	glyphs := make([]shape.Glyph, gr.glyphCount)
	x := gr.offset
	for i, g := range gr.Glyphs() {
		g.X += x
		g.Y += gr.baseline
		x += g.Advance
		glyphs[i] = g
	}
	return glyphs
}

// ItemCursor walks the items of a line, splitting runs at style changes.
type ItemCursor struct {
	line       Line
	itemIndex  int
	glyphStart int
	offset     float32
}

// Cursor returns a cursor positioned at the start of the line.
func (ln Line) Cursor() *ItemCursor {
	return &ItemCursor{line: ln}
}

// Next returns the next positioned item, or false at the end of the line.
func (c *ItemCursor) Next() (PositionedItem, bool) {
	metrics := &c.line.data().metrics
	for {
		item, ok := c.line.Item(c.itemIndex)
		if !ok {
			return nil, false
		}
		if item.Kind == InlineBoxItem {
			b, ok := c.line.layout.InlineBox(item.Index)
			if !ok {
				return nil, false
			}
			pbox := PositionedInlineBox{
				X:      c.offset + metrics.Offset,
				Y:      metrics.Baseline - b.Height,
				Width:  b.Width,
				Height: b.Height,
				ID:     b.ID,
			}
			c.itemIndex++
			c.glyphStart = 0
			c.offset += item.Advance
			return pbox, true
		}
		run, ok := c.line.layout.Run(item.Index)
		if !ok {
			return nil, false
		}
		if c.glyphStart >= len(run.glyphs) {
			c.itemIndex++
			c.glyphStart = 0
			continue
		}
		glyphs := run.glyphs[c.glyphStart:]
		styleIndex := glyphs[0].StyleIndex
		n := 0
		var advance float32
		for n < len(glyphs) && glyphs[n].StyleIndex == styleIndex {
			advance += glyphs[n].Advance
			n++
		}
		styles := c.line.layout.styles
		if int(styleIndex) >= len(styles) {
			tracer().Errorf("glyph refers to unknown style %d", styleIndex)
			return nil, false
		}
		gr := GlyphRun{
			run:        run,
			style:      &styles[styleIndex],
			styleIndex: styleIndex,
			glyphStart: c.glyphStart,
			glyphCount: n,
			offset:     c.offset + metrics.Offset,
			baseline:   metrics.Baseline,
			advance:    advance,
		}
		c.glyphStart += n
		c.offset += advance
		return gr, true
	}
}

// Items returns the positioned items of the line. Every call starts a new
// traversal.
func (ln Line) Items() iter.Seq[PositionedItem] {
	return func(yield func(PositionedItem) bool) {
		c := ln.Cursor()
		for {
			item, ok := c.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}
