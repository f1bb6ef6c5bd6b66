/*
Package style holds resolved text styles and the interning tables for font
stacks, feature sets and variation sets.

Styles refer to font stacks, features and variations by small ids. Equal
sets intern to equal ids, so comparing two styles for shaping compatibility
never has to compare slices.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package style

import (
	"image/color"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
)

// Style is a resolved style for a range of text.
type Style struct {
	FontSize   float32
	FontStack  StackID
	FontWidth  font.Stretch
	FontWeight font.Weight
	FontStyle  font.Style
	Locale     language.Language // empty if unspecified
	Variations VariationsID
	Features   FeaturesID

	WordSpacing   float32
	LetterSpacing float32
	LineHeight    float32 // factor of the font's line metrics, 0 means 1

	// Paint attributes; they never influence shaping.
	Brush         color.RGBA
	Underline     bool
	Strikethrough bool
}

// DefaultFontSize is used for styles without a font size.
const DefaultFontSize = 16

// Default returns a style with default settings.
func Default() Style {
	return Style{
		FontSize:   DefaultFontSize,
		FontWidth:  font.StretchNormal,
		FontWeight: font.WeightNormal,
		FontStyle:  font.StyleNormal,
		LineHeight: 1,
		Brush:      color.RGBA{A: 0xff},
	}
}

// LineHeightFactor returns the line height factor, treating 0 as 1.
func (s *Style) LineHeightFactor() float32 {
	if s.LineHeight <= 0 {
		return 1
	}
	return s.LineHeight
}

// Span applies a style to the byte range [Start, End) of a text.
type Span struct {
	Start, End int
	Style      Style
}

// Resolve turns a list of spans into a style table and a per-character style
// index. Characters not covered by any span use base. Later spans win over
// earlier ones. Equal styles share one table entry; base is always entry 0.
func Resolve(text string, base Style, spans []Span) (table []Style, indices []uint16) {
	table = []Style{base}
	lookup := func(s Style) uint16 {
		for i := range table {
			if table[i] == s {
				return uint16(i)
			}
		}
		table = append(table, s)
		return uint16(len(table) - 1)
	}
	for byteIndex := range text {
		inx := uint16(0)
		for i := len(spans) - 1; i >= 0; i-- {
			if byteIndex >= spans[i].Start && byteIndex < spans[i].End {
				inx = lookup(spans[i].Style)
				break
			}
		}
		indices = append(indices, inx)
	}
	return table, indices
}
