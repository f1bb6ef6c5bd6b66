package itemize

import (
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/shape"
)

// Itemize splits the input into items, shapes every item with ctx.Engine and
// reports runs and inline boxes to sink, in text order.
//
// Empty text without inline boxes is shaped as a single space to obtain line
// metrics; the resulting item and its clusters report empty ranges. Empty
// text with inline boxes, or an empty style table, reports the boxes only.
func Itemize(ctx *Context, in *Input, sink Sink) {
	text := in.Text
	placeholder := false
	if text == "" && len(in.InlineBoxes) == 0 {
		text, placeholder = " ", true
	}
	if text == "" || len(in.Styles) == 0 {
		for i := range in.InlineBoxes {
			sink.PushInlineBox(i)
		}
		return
	}
	iz := &itemizer{
		ctx:         ctx,
		in:          in,
		sink:        sink,
		text:        text,
		placeholder: placeholder,
	}
	iz.run()
}

// itemizer holds the state of one pass over a text.
type itemizer struct {
	ctx         *Context
	in          *Input
	sink        Sink
	text        string
	placeholder bool

	item     Item
	deferred []int // FIFO of box indices waiting for the next break
	nextBox  int   // index of the first box not yet deferred or emitted
	tokens   []shape.Token
}

func (iz *itemizer) run() {
	in := iz.in
	iz.item.startWith(&in.Styles[in.styleIndex(0)], in.styleIndex(0), in.level(0), iz.firstScript())
	charIndex := 0
	var prev rune
	for byteIndex, ch := range iz.text {
		styleIndex := in.styleIndex(charIndex)
		st := &in.Styles[styleIndex]
		level := in.level(charIndex)
		script := in.info(charIndex, ch).Script
		if !analysis.IsRealScript(script) {
			script = iz.item.Script
		}
		brk := false
		if styleIndex != iz.item.StyleIndex && !iz.item.shapesLike(st) {
			brk = true
		}
		if level != iz.item.Level || script != iz.item.Script {
			brk = true
		}
		// a hard break ends its item; CR LF counts as one break
		if charIndex > 0 && analysis.IsHardBreak(prev) && !(prev == '\r' && ch == '\n') {
			brk = true
		}
		// Boxes anchored at this offset, or skipped inside the previous
		// character, end the current item.
		for iz.nextBox < len(in.InlineBoxes) && in.InlineBoxes[iz.nextBox].Index <= byteIndex {
			iz.deferred = append(iz.deferred, iz.nextBox)
			iz.nextBox++
			brk = true
		}
		if brk {
			if !iz.item.TextRange.IsEmpty() {
				iz.flush()
			}
			iz.item.startWith(st, styleIndex, level, script)
			iz.item.TextRange = Range{Start: byteIndex, End: byteIndex}
			iz.item.CharRange = Range{Start: charIndex, End: charIndex}
		}
		iz.drainBoxes()
		iz.item.TextRange.End += utf8.RuneLen(ch)
		iz.item.CharRange.End++
		charIndex++
		prev = ch
	}
	if !iz.item.TextRange.IsEmpty() {
		iz.flush()
	}
	for ; iz.nextBox < len(in.InlineBoxes); iz.nextBox++ {
		iz.sink.PushInlineBox(iz.nextBox)
	}
}

// firstScript is the first real script of the text, or Latin.
func (iz *itemizer) firstScript() language.Script {
	charIndex := 0
	for _, ch := range iz.text {
		if s := iz.in.info(charIndex, ch).Script; analysis.IsRealScript(s) {
			return s
		}
		charIndex++
	}
	return language.Latin
}

func (iz *itemizer) drainBoxes() {
	for _, b := range iz.deferred {
		iz.sink.PushInlineBox(b)
	}
	iz.deferred = iz.deferred[:0]
}

// flush shapes the current item and reports its segments to the sink.
func (iz *itemizer) flush() {
	item := iz.item
	tracer().Debugf("item %v style=%d script=%v level=%d size=%.1f",
		item.TextRange, item.StyleIndex, item.Script, item.Level, item.Size)
	iz.tokens = iz.tokens[:0]
	charIndex := item.CharRange.Start
	for offset, ch := range iz.text[item.TextRange.Start:item.TextRange.End] {
		iz.tokens = append(iz.tokens, shape.Token{
			Ch:         ch,
			Offset:     uint32(item.TextRange.Start + offset),
			Len:        uint8(utf8.RuneLen(ch)),
			Info:       iz.in.info(charIndex, ch),
			StyleIndex: iz.in.styleIndex(charIndex),
		})
		charIndex++
	}
	opts := shape.Options{
		Size:      item.Size,
		Script:    item.Script,
		Language:  item.Locale,
		Direction: di.DirectionLTR,
	}
	if item.IsRTL() {
		opts.Direction = di.DirectionRTL
	}
	if iz.ctx.Styles != nil {
		opts.Variations, _ = iz.ctx.Styles.VariationSet(item.Variations)
		opts.Features, _ = iz.ctx.Styles.FeatureSet(item.Features)
	}
	if iz.placeholder {
		item.TextRange = Range{}
		item.CharRange = Range{}
	}
	sel := NewFontSelector(iz.ctx, iz.in.Styles, iz.tokens[0].StyleIndex, item.Script, item.Locale)
	iz.ctx.Engine.Shape(opts, sel, iz.tokens, func(font shape.SelectedFont, out *shape.Output) {
		if iz.placeholder {
			for i := range out.Clusters {
				out.Clusters[i].Start, out.Clusters[i].End = 0, 0
			}
		}
		iz.sink.PushRun(item, font, out)
	})
}
