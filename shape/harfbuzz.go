package shape

import (
	"slices"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Segment is a maximal sequence of clusters sharing one selected font.
// Start and End are token indices within the item.
type Segment struct {
	Font       SelectedFont
	HasFont    bool
	Start, End int
}

// Partition splits tokens into clusters, asks sel for a font once per
// cluster and calls fn for every maximal run of clusters sharing a font.
// Clusters for which sel returns no font stay with the current segment; a
// leading sequence of such clusters adopts the first font selected after it.
func Partition(sel Selector, tokens []Token, fn func(Segment)) {
	clusters := Clusters(tokens)
	if len(clusters) == 0 {
		return
	}
	seg := Segment{}
	for i := range clusters {
		c := &clusters[i]
		f, ok := sel.SelectFont(c)
		if !ok {
			continue
		}
		if !seg.HasFont {
			seg.Font, seg.HasFont = f, true
			continue
		}
		if !f.Equal(seg.Font) {
			seg.End = c.Start()
			fn(seg)
			seg = Segment{Font: f, HasFont: true, Start: c.Start()}
		}
	}
	seg.End = len(tokens)
	fn(seg)
}

// HarfbuzzEngine shapes with go-text/typesetting's HarfBuzz port.
// It is not safe for concurrent use.
type HarfbuzzEngine struct {
	shaper shaping.HarfbuzzShaper
	runes  []rune
}

// NewHarfbuzzEngine creates a shaping engine.
func NewHarfbuzzEngine() *HarfbuzzEngine {
	return &HarfbuzzEngine{}
}

// Shape implements Engine.
func (e *HarfbuzzEngine) Shape(opts Options, sel Selector, tokens []Token, emit func(SelectedFont, *Output)) {
	if len(tokens) == 0 {
		return
	}
	e.runes = e.runes[:0]
	for _, t := range tokens {
		e.runes = append(e.runes, t.Ch)
	}
	Partition(sel, tokens, func(seg Segment) {
		var out *Output
		if data := seg.Font.Font; seg.HasFont && data != nil && data.Face() != nil {
			out = e.shapeSegment(opts, data.Face(), tokens, seg)
		} else {
			tracer().Infof("no font for text at byte %d, using .notdef", tokens[seg.Start].Offset)
			out = notdefOutput(opts, tokens[seg.Start:seg.End])
		}
		emit(seg.Font, out)
	})
}

func (e *HarfbuzzEngine) shapeSegment(opts Options, data *font.Font, tokens []Token, seg Segment) *Output {
	face := font.NewFace(data)
	if len(opts.Variations) > 0 {
		face.SetVariations(opts.Variations)
	}
	input := shaping.Input{
		Text:         e.runes,
		RunStart:     seg.Start,
		RunEnd:       seg.End,
		Direction:    opts.Direction,
		Face:         face,
		FontFeatures: opts.Features,
		Size:         floatToFixed(opts.Size),
		Script:       opts.Script,
		Language:     opts.Language,
	}
	return convertOutput(e.shaper.Shape(input), tokens)
}

// convertOutput groups go-text glyphs into logical clusters.
func convertOutput(out shaping.Output, tokens []Token) *Output {
	result := &Output{
		Ascent:  fixedToFloat(out.LineBounds.Ascent),
		Descent: -fixedToFloat(out.LineBounds.Descent),
		Leading: fixedToFloat(out.LineBounds.Gap),
	}
	for i := 0; i < len(out.Glyphs); {
		first := out.Glyphs[i]
		start := first.ClusterIndex
		end := start + max(first.RuneCount, 1)
		j := i
		for j < len(out.Glyphs) && out.Glyphs[j].ClusterIndex == start {
			end = max(end, start+out.Glyphs[j].RuneCount)
			j++
		}
		end = min(end, len(tokens))
		must(start >= 0 && start < end, "glyph cluster index out of range")
		c := Cluster{
			Start:      int(tokens[start].Offset),
			End:        int(tokens[end-1].End()),
			Whitespace: tokens[start].Info.Whitespace,
		}
		style := tokens[start].StyleIndex
		for _, g := range out.Glyphs[i:j] {
			adv := fixedToFloat(g.Advance)
			c.Glyphs = append(c.Glyphs, Glyph{
				ID:         g.GlyphID,
				StyleIndex: style,
				X:          fixedToFloat(g.XOffset),
				Y:          -fixedToFloat(g.YOffset),
				Advance:    adv,
			})
			c.Advance += adv
		}
		result.Clusters = append(result.Clusters, c)
		i = j
	}
	// right-to-left output is in visual order
	slices.SortStableFunc(result.Clusters, func(a, b Cluster) int {
		return a.Start - b.Start
	})
	return result
}

// notdefOutput produces one zero-width .notdef glyph per character, with
// line metrics derived from the font size.
func notdefOutput(opts Options, tokens []Token) *Output {
	out := &Output{
		Ascent:  opts.Size * 0.8,
		Descent: opts.Size * 0.2,
	}
	for _, t := range tokens {
		out.Clusters = append(out.Clusters, Cluster{
			Start:      int(t.Offset),
			End:        int(t.End()),
			Whitespace: t.Info.Whitespace,
			Glyphs:     []Glyph{{ID: NOTDEF, StyleIndex: t.StyleIndex}},
		})
	}
	return out
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
