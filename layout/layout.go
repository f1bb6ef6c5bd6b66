package layout

import (
	"github.com/npillmayer/textlayout/itemize"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
)

// ItemKind tells whether a line item refers to a run or an inline box.
type ItemKind uint8

const (
	TextRunItem ItemKind = iota
	InlineBoxItem
)

func (k ItemKind) String() string {
	if k == InlineBoxItem {
		return "box"
	}
	return "run"
}

// LineItem refers to a run or an inline box of a layout, together with its
// advance.
type LineItem struct {
	Kind      ItemKind
	Index     int // index into the layout's runs or inline boxes
	Advance   float32
	BidiLevel uint8
}

// Layout holds the runs and inline boxes of a text and the lines they have
// been broken into.
type Layout struct {
	text      string
	styles    []style.Style
	boxes     []InlineBox
	baseLevel uint8
	runs      []Run
	items     []LineItem // logical order, one per run or box
	lineItems []LineItem // visual order, sliced by lines
	lines     []lineData
}

var _ itemize.Sink = (*Layout)(nil)

// New creates an empty layout for text. baseLevel is the paragraph's bidi
// level (0 for left-to-right paragraphs, 1 for right-to-left ones).
func New(text string, styles []style.Style, boxes []InlineBox, baseLevel uint8) *Layout {
	return &Layout{
		text:      text,
		styles:    styles,
		boxes:     boxes,
		baseLevel: baseLevel,
	}
}

// Text returns the text of the layout.
func (l *Layout) Text() string {
	return l.text
}

// Styles returns the style table of the layout.
func (l *Layout) Styles() []style.Style {
	return l.styles
}

// IsRTL is true for layouts of right-to-left paragraphs.
func (l *Layout) IsRTL() bool {
	return l.baseLevel&1 != 0
}

// PushRun implements itemize.Sink.
func (l *Layout) PushRun(item itemize.Item, font shape.SelectedFont, out *shape.Output) {
	var lh float32 = 1
	if int(item.StyleIndex) < len(l.styles) {
		lh = l.styles[item.StyleIndex].LineHeightFactor()
	}
	l.runs = append(l.runs, newRun(&item, font, out, lh))
	run := &l.runs[len(l.runs)-1]
	l.items = append(l.items, LineItem{
		Kind:      TextRunItem,
		Index:     len(l.runs) - 1,
		Advance:   run.Advance,
		BidiLevel: run.BidiLevel,
	})
}

// PushInlineBox implements itemize.Sink. A box takes the bidi level of the
// item before it.
func (l *Layout) PushInlineBox(index int) {
	if index < 0 || index >= len(l.boxes) {
		tracer().Errorf("inline box #%d does not exist", index)
		return
	}
	level := l.baseLevel
	if n := len(l.items); n > 0 {
		level = l.items[n-1].BidiLevel
	}
	l.items = append(l.items, LineItem{
		Kind:      InlineBoxItem,
		Index:     index,
		Advance:   l.boxes[index].Width,
		BidiLevel: level,
	})
}

// RunCount returns the number of runs.
func (l *Layout) RunCount() int {
	return len(l.runs)
}

// Run returns the run at index i.
func (l *Layout) Run(i int) (*Run, bool) {
	if i < 0 || i >= len(l.runs) {
		return nil, false
	}
	return &l.runs[i], true
}

// InlineBox returns the inline box at index i.
func (l *Layout) InlineBox(i int) (InlineBox, bool) {
	if i < 0 || i >= len(l.boxes) {
		return InlineBox{}, false
	}
	return l.boxes[i], true
}

// ItemCount returns the number of items in logical order.
func (l *Layout) ItemCount() int {
	return len(l.items)
}

// Item returns the item at logical position i.
func (l *Layout) Item(i int) (LineItem, bool) {
	if i < 0 || i >= len(l.items) {
		return LineItem{}, false
	}
	return l.items[i], true
}

// LineCount returns the number of lines.
func (l *Layout) LineCount() int {
	return len(l.lines)
}

// Line returns the line at index i.
func (l *Layout) Line(i int) (Line, bool) {
	if i < 0 || i >= len(l.lines) {
		return Line{}, false
	}
	return Line{layout: l, index: i}, true
}

// Width returns the advance of the widest line, without trailing whitespace.
func (l *Layout) Width() float32 {
	var w float32
	for i := range l.lines {
		m := &l.lines[i].metrics
		w = max(w, m.Advance-m.TrailingWhitespace)
	}
	return w
}

// Height returns the bottom coordinate of the last line.
func (l *Layout) Height() float32 {
	if len(l.lines) == 0 {
		return 0
	}
	return l.lines[len(l.lines)-1].metrics.MaxCoord
}
