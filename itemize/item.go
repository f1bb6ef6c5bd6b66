package itemize

import (
	"fmt"
	"math"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
)

// Range is a half-open range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty is true for ranges of length 0.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// InlineBox is non-text content anchored at byte offset Index of a text.
type InlineBox struct {
	Index  int
	Width  float32
	Height float32
	ID     uint64
}

// Item is a span of text with uniform shaping attributes.
// TextRange is in bytes, CharRange in characters.
type Item struct {
	StyleIndex    uint16 // style of the item's first character
	Size          float32
	Script        language.Script
	Level         uint8
	Locale        language.Language
	Variations    style.VariationsID
	Features      style.FeaturesID
	WordSpacing   float32
	LetterSpacing float32
	TextRange     Range
	CharRange     Range
}

// IsRTL is true for items with an odd bidi level.
func (it *Item) IsRTL() bool {
	return it.Level&1 != 0
}

// startWith sets the shaping attributes of the item from a style.
func (it *Item) startWith(st *style.Style, styleIndex uint16, level uint8, script language.Script) {
	it.StyleIndex = styleIndex
	it.Size = st.FontSize
	it.Level = level
	it.Script = script
	it.Locale = st.Locale
	it.Variations = st.Variations
	it.Features = st.Features
	it.WordSpacing = st.WordSpacing
	it.LetterSpacing = st.LetterSpacing
}

// shapesLike is true if text in style st could continue the item.
func (it *Item) shapesLike(st *style.Style) bool {
	return nearlyEqual(st.FontSize, it.Size) &&
		st.Locale == it.Locale &&
		st.Variations == it.Variations &&
		st.Features == it.Features &&
		nearlyEqual(st.LetterSpacing, it.LetterSpacing) &&
		nearlyEqual(st.WordSpacing, it.WordSpacing)
}

// nearlyEqual compares float values with a tolerance relative to their
// magnitude.
func nearlyEqual(a, b float32) bool {
	if a == b {
		return true
	}
	diff := math.Abs(float64(a) - float64(b))
	scale := max(1, math.Abs(float64(a)), math.Abs(float64(b)))
	return diff <= 1e-5*scale
}

// Sink receives the output of itemization in text order.
type Sink interface {
	// PushRun receives one shaped segment of item.
	PushRun(item Item, font shape.SelectedFont, out *shape.Output)
	// PushInlineBox receives the index of an inline box of the input.
	PushInlineBox(index int)
}

// Context holds the long-lived collaborators of itemization. It is reused
// across calls to Itemize, but must not be shared between goroutines.
type Context struct {
	Styles *style.Context // resolves font stacks, features and variations
	Query  *fontdb.Query
	Engine shape.Engine
}

// Input is the text to itemize together with its per-character data.
//
// CharStyles, Infos and Levels have one entry per character (not per byte)
// of Text. Missing trailing entries default to style 0, script Common and
// level 0. InlineBoxes must be sorted by Index.
type Input struct {
	Text        string
	Styles      []style.Style
	CharStyles  []uint16
	Infos       []analysis.CharInfo
	Levels      []uint8
	InlineBoxes []InlineBox
}

func (in *Input) styleIndex(charIndex int) uint16 {
	if charIndex >= len(in.CharStyles) {
		return 0
	}
	if inx := in.CharStyles[charIndex]; int(inx) < len(in.Styles) {
		return inx
	}
	return 0
}

func (in *Input) info(charIndex int, ch rune) analysis.CharInfo {
	if charIndex < len(in.Infos) {
		return in.Infos[charIndex]
	}
	return analysis.CharInfo{Script: language.Common, Whitespace: ch == ' '}
}

func (in *Input) level(charIndex int) uint8 {
	if charIndex < len(in.Levels) {
		return in.Levels[charIndex]
	}
	return 0
}
