package layout

import (
	"math"
	"slices"
	"unicode/utf8"

	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/itemize"
)

// BreakReason tells why a line ended.
type BreakReason uint8

const (
	BreakNone      BreakReason = iota // last line of the text
	BreakRegular                      // line was full
	BreakExplicit                     // hard line break in the text
	BreakEmergency                    // a single item exceeded the line width
)

func (r BreakReason) String() string {
	switch r {
	case BreakRegular:
		return "regular"
	case BreakExplicit:
		return "explicit"
	case BreakEmergency:
		return "emergency"
	}
	return "none"
}

// LineMetrics are the vertical and horizontal metrics of a line.
type LineMetrics struct {
	Ascent             float32
	Descent            float32
	Leading            float32
	LineHeight         float32 // CSS line height: max extent of the line's items
	Baseline           float32 // y of the baseline
	Offset             float32 // x offset from alignment
	Advance            float32 // including trailing whitespace
	TrailingWhitespace float32
	MinCoord           float32 // top of the line
	MaxCoord           float32 // bottom of the line
}

type lineData struct {
	itemRange   itemize.Range // into Layout.lineItems
	textRange   itemize.Range
	breakReason BreakReason
	metrics     LineMetrics
}

// Line is a line of a layout. It is only valid as long as its layout is not
// broken into lines again.
type Line struct {
	layout *Layout
	index  int
}

func (ln Line) data() *lineData {
	return &ln.layout.lines[ln.index]
}

// Index returns the index of the line within its layout.
func (ln Line) Index() int {
	return ln.index
}

// Metrics returns the metrics of the line.
func (ln Line) Metrics() LineMetrics {
	return ln.data().metrics
}

// BreakReason returns why the line ended.
func (ln Line) BreakReason() BreakReason {
	return ln.data().breakReason
}

// TextRange returns the byte range of the text covered by the line.
func (ln Line) TextRange() itemize.Range {
	return ln.data().textRange
}

// Len returns the number of items of the line.
func (ln Line) Len() int {
	return ln.data().itemRange.Len()
}

// Item returns the line's i-th item in visual order.
func (ln Line) Item(i int) (LineItem, bool) {
	r := ln.data().itemRange
	if i < 0 || r.Start+i >= r.End {
		return LineItem{}, false
	}
	return ln.layout.lineItems[r.Start+i], true
}

// Run returns the run referred to by the line's i-th item. It is absent if
// the item is an inline box.
func (ln Line) Run(i int) (*Run, bool) {
	item, ok := ln.Item(i)
	if !ok || item.Kind != TextRunItem {
		return nil, false
	}
	return ln.layout.Run(item.Index)
}

// CommitLine appends a line made of the layout items [start, end), in
// logical order. Items are reordered visually by their bidi levels and the
// line is placed below the previous one. CommitLine returns false for an
// invalid item range.
func (l *Layout) CommitLine(start, end int, reason BreakReason) bool {
	if start < 0 || end > len(l.items) || start > end {
		return false
	}
	first := len(l.lineItems)
	logical := l.items[start:end]
	l.lineItems = append(l.lineItems, logical...)
	reorder(l.lineItems[first:])
	data := lineData{
		itemRange:   itemize.Range{Start: first, End: len(l.lineItems)},
		textRange:   l.textRange(logical),
		breakReason: reason,
	}
	var top float32
	if n := len(l.lines); n > 0 {
		top = l.lines[n-1].metrics.MaxCoord
	}
	data.metrics = l.measure(logical, top)
	l.lines = append(l.lines, data)
	tracer().Debugf("line %d: items %d..%d text %v advance=%.2f baseline=%.2f",
		len(l.lines)-1, start, end, data.textRange, data.metrics.Advance, data.metrics.Baseline)
	return true
}

func (l *Layout) textRange(items []LineItem) itemize.Range {
	r := itemize.Range{Start: -1}
	for _, it := range items {
		var s, e int
		if it.Kind == TextRunItem {
			tr := l.runs[it.Index].TextRange
			s, e = tr.Start, tr.End
		} else {
			s = min(l.boxes[it.Index].Index, len(l.text))
			e = s
		}
		if r.Start < 0 {
			r.Start = s
		}
		r.End = max(r.End, e)
	}
	if r.Start < 0 {
		return itemize.Range{}
	}
	return r
}

// measure computes CSS style line metrics: every run is centered within its
// line height, boxes sit on the baseline.
func (l *Layout) measure(items []LineItem, top float32) LineMetrics {
	var m LineMetrics
	var above, below float32
	lastRun := -1
	for i, it := range items {
		m.Advance += it.Advance
		if it.Kind == InlineBoxItem {
			above = max(above, l.boxes[it.Index].Height)
			continue
		}
		lastRun = i
		rm := &l.runs[it.Index].Metrics
		m.Ascent = max(m.Ascent, rm.Ascent)
		m.Descent = max(m.Descent, rm.Descent)
		m.Leading = max(m.Leading, rm.Leading)
		height := (rm.Ascent + rm.Descent + rm.Leading) * rm.LineHeight
		halfLeading := (height - (rm.Ascent + rm.Descent)) / 2
		above = max(above, rm.Ascent+halfLeading)
		below = max(below, rm.Descent+halfLeading)
	}
	if lastRun >= 0 && lastRun == len(items)-1 {
		m.TrailingWhitespace = l.runs[items[lastRun].Index].trailingWhitespace()
	}
	m.LineHeight = above + below
	m.MinCoord = top
	m.Baseline = top + above
	m.MaxCoord = top + m.LineHeight
	return m
}

// reorder rearranges items from logical to visual order: from the highest
// level down to the lowest odd level, every maximal sequence of items at
// that level or above is reversed.
func reorder(items []LineItem) {
	if len(items) < 2 {
		return
	}
	highest, lowest := items[0].BidiLevel, items[0].BidiLevel
	for _, it := range items[1:] {
		highest = max(highest, it.BidiLevel)
		lowest = min(lowest, it.BidiLevel)
	}
	lowestOdd := lowest | 1
	for level := highest; level >= lowestOdd; level-- {
		for i := 0; i < len(items); {
			if items[i].BidiLevel < level {
				i++
				continue
			}
			j := i
			for j < len(items) && items[j].BidiLevel >= level {
				j++
			}
			slices.Reverse(items[i:j])
			i = j
		}
	}
}

// BreakLines breaks the layout into lines no wider than maxAdvance, at item
// boundaries. Trailing whitespace does not count towards the width. A run
// ending with a hard line break ends its line. A maxAdvance <= 0 breaks at
// hard line breaks only. Existing lines are discarded.
func (l *Layout) BreakLines(maxAdvance float32) {
	l.lines = l.lines[:0]
	l.lineItems = l.lineItems[:0]
	if len(l.items) == 0 {
		return
	}
	if maxAdvance <= 0 {
		maxAdvance = float32(math.Inf(1))
	}
	start := 0
	var width float32
	last := len(l.items) - 1
	for i, it := range l.items {
		ws := float32(0)
		if it.Kind == TextRunItem {
			ws = l.runs[it.Index].trailingWhitespace()
		}
		if i > start && width+it.Advance-ws > maxAdvance {
			l.CommitLine(start, i, BreakRegular)
			start, width = i, 0
		}
		width += it.Advance
		if i < last && l.endsWithHardBreak(it) {
			l.CommitLine(start, i+1, BreakExplicit)
			start, width = i+1, 0
			continue
		}
		if i == start && it.Advance-ws > maxAdvance {
			reason := BreakEmergency
			if i == last {
				reason = BreakNone
			}
			l.CommitLine(start, i+1, reason)
			start, width = i+1, 0
		}
	}
	if start < len(l.items) {
		l.CommitLine(start, len(l.items), BreakNone)
	}
}

// endsWithHardBreak is true for a run whose text ends with a hard line break.
func (l *Layout) endsWithHardBreak(it LineItem) bool {
	if it.Kind != TextRunItem {
		return false
	}
	tr := l.runs[it.Index].TextRange
	if tr.IsEmpty() || tr.End > len(l.text) {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(l.text[tr.Start:tr.End])
	return analysis.IsHardBreak(r)
}

// Alignment positions lines within the layout width.
type Alignment uint8

const (
	AlignStart Alignment = iota // left in left-to-right paragraphs
	AlignEnd
	AlignCenter
)

// Align sets the offset of every line for the given container width.
// Trailing whitespace is ignored. Lines wider than width are not shifted.
func (l *Layout) Align(width float32, alignment Alignment) {
	for i := range l.lines {
		m := &l.lines[i].metrics
		free := max(0, width-(m.Advance-m.TrailingWhitespace))
		switch alignment {
		case AlignStart:
			m.Offset = 0
			if l.IsRTL() {
				m.Offset = free
			}
		case AlignEnd:
			m.Offset = free
			if l.IsRTL() {
				m.Offset = 0
			}
		case AlignCenter:
			m.Offset = free / 2
		}
	}
}
