/*
Package analysis computes per-character properties needed for itemization:
script, emoji and whitespace classification, and bidi embedding levels.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package analysis

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/bidi"
)

// tracer traces with key 'textlayout.analysis'
func tracer() tracing.Trace {
	return tracing.Select("textlayout.analysis")
}

// CharInfo holds the itemization-relevant properties of one character.
type CharInfo struct {
	Script     language.Script
	Emoji      bool
	Whitespace bool
}

// IsEmoji is true for characters to be rendered with an emoji font.
func (ci CharInfo) IsEmoji() bool {
	return ci.Emoji
}

// IsRealScript is false for the pseudo-scripts Common, Inherited and Unknown,
// which never start a new item on their own.
func IsRealScript(s language.Script) bool {
	return s != language.Common && s != language.Inherited && s != language.Unknown
}

// Info classifies a single character.
func Info(r rune) CharInfo {
	return CharInfo{
		Script:     language.LookupScript(r),
		Emoji:      isEmoji(r),
		Whitespace: unicode.IsSpace(r),
	}
}

// Direction is a paragraph base direction.
type Direction uint8

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Analyze returns a CharInfo and a bidi level for every character of text.
func Analyze(text string, base Direction) ([]CharInfo, []uint8) {
	infos := make([]CharInfo, 0, len(text))
	for _, r := range text {
		infos = append(infos, Info(r))
	}
	return infos, Levels(text, len(infos), base)
}

// Levels computes bidi embedding levels for n characters of text.
// The result distinguishes left-to-right and right-to-left runs relative to
// the paragraph level; deeper embeddings are not reported. Every paragraph
// (text up to and including a paragraph separator) is resolved on its own.
func Levels(text string, n int, base Direction) []uint8 {
	levels := make([]uint8, n)
	var para uint8
	if base == RightToLeft {
		para = 1
	}
	for i := range levels {
		levels[i] = para
	}
	defaultDir := bidi.LeftToRight
	if base == RightToLeft {
		defaultDir = bidi.RightToLeft
	}
	var p bidi.Paragraph
	runeOffset := 0
	for rest := text; rest != ""; {
		consumed, err := p.SetString(rest, bidi.DefaultDirection(defaultDir))
		if err != nil {
			tracer().Errorf("bidi analysis failed: %v", err)
			return levels
		}
		if consumed <= 0 {
			consumed = len(rest)
		}
		paragraph := rest[:consumed]
		count := utf8.RuneCountInString(paragraph)
		content := count // characters of the paragraph without its separator
		if last, _ := utf8.DecodeLastRuneInString(paragraph); isParagraphSeparator(last) {
			content--
		}
		if content > 0 {
			ordering, err := p.Order()
			if err != nil {
				tracer().Errorf("bidi ordering failed: %v", err)
				return levels
			}
			// run positions are paragraph-relative rune indices, end inclusive
			for i := 0; i < ordering.NumRuns(); i++ {
				run := ordering.Run(i)
				start, end := run.Pos()
				level := uint8(0)
				if run.Direction() == bidi.RightToLeft {
					level = 1
				} else if para == 1 {
					level = 2
				}
				for j := start; j <= end && j < content; j++ {
					if k := runeOffset + j; k < n {
						levels[k] = level
					}
				}
			}
		}
		runeOffset += count
		rest = rest[consumed:]
	}
	return levels
}

// IsHardBreak is true for characters forcing a line break after them
// (line break classes BK, CR, LF and NL).
func IsHardBreak(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\r', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

func isParagraphSeparator(r rune) bool {
	props, _ := bidi.LookupRune(r)
	return props.Class() == bidi.B
}
