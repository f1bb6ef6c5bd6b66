package fontdb

import (
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
)

// Attributes are the font-matching attributes of a query or a font.
type Attributes struct {
	Width  font.Stretch
	Weight font.Weight
	Style  font.Style
}

// NormalAttributes are upright, regular weight, normal width.
var NormalAttributes = Attributes{
	Width:  font.StretchNormal,
	Weight: font.WeightNormal,
	Style:  font.StyleNormal,
}

// AttributesFromAspect converts a go-text aspect, filling in defaults for
// unset fields.
func AttributesFromAspect(as font.Aspect) Attributes {
	return Attributes{Width: as.Stretch, Weight: as.Weight, Style: as.Style}.normalized()
}

// Aspect converts the attributes to a go-text aspect.
func (a Attributes) Aspect() font.Aspect {
	return font.Aspect{Style: a.Style, Weight: a.Weight, Stretch: a.Width}
}

func (a Attributes) normalized() Attributes {
	if a.Width == 0 {
		a.Width = font.StretchNormal
	}
	if a.Weight == 0 {
		a.Weight = font.WeightNormal
	}
	if a.Style == 0 {
		a.Style = font.StyleNormal
	}
	return a
}

// distance is the nearest-match ordering used when picking a font from a
// family: style mismatches dominate weight differences, which dominate
// width differences.
func (a Attributes) distance(b Attributes) float64 {
	a, b = a.normalized(), b.normalized()
	d := 0.0
	if a.Style != b.Style {
		d += 10000
	}
	d += math.Abs(float64(a.Weight - b.Weight))
	d += math.Abs(float64(a.Width-b.Width)) * 100
	return d
}

// Synthesis describes artificial style emulation to apply to a font.
type Synthesis struct {
	Embolden bool    // faux bold
	Skew     float32 // faux italic, skew angle in degrees
}

// IsNone is true if no synthesis is needed.
func (s Synthesis) IsNone() bool {
	return !s.Embolden && s.Skew == 0
}

const semibold font.Weight = 600

// SkewAngle is the skew applied for a synthesized italic.
const SkewAngle = 14

// synthesize computes the synthesis parameters to apply when font attributes
// fontAttrs are used for a request with attributes requested.
func synthesize(requested, fontAttrs Attributes) Synthesis {
	requested, fontAttrs = requested.normalized(), fontAttrs.normalized()
	var s Synthesis
	if requested.Weight >= semibold && fontAttrs.Weight < semibold {
		s.Embolden = true
	}
	if requested.Style != font.StyleNormal && fontAttrs.Style == font.StyleNormal {
		s.Skew = SkewAngle
	}
	return s
}

// GenericFamily is a CSS-style generic font family.
type GenericFamily uint8

const (
	NoGeneric GenericFamily = iota
	SansSerif
	Serif
	Monospace
	Emoji
	SystemUI
)

var genericNames = map[GenericFamily]string{
	SansSerif: "sans-serif",
	Serif:     "serif",
	Monospace: "monospace",
	Emoji:     "emoji",
	SystemUI:  "system-ui",
}

func (g GenericFamily) String() string {
	if s, ok := genericNames[g]; ok {
		return s
	}
	return "none"
}

// ParseGenericFamily maps a CSS generic family name to a GenericFamily.
func ParseGenericFamily(name string) (GenericFamily, bool) {
	for g, s := range genericNames {
		if s == name {
			return g, true
		}
	}
	return NoGeneric, false
}

// QueryFamily is one entry of a query's family list: either a named family
// or a generic family.
type QueryFamily struct {
	Name    string
	Generic GenericFamily
}

// Named creates a query family for a family name.
func Named(name string) QueryFamily {
	return QueryFamily{Name: name}
}

// Generic creates a query family for a generic family.
func Generic(g GenericFamily) QueryFamily {
	return QueryFamily{Generic: g}
}

func (f QueryFamily) String() string {
	if f.Generic != NoGeneric {
		return f.Generic.String()
	}
	return f.Name
}

// FallbackKey selects fallback families by script and optional language.
type FallbackKey struct {
	Script   language.Script
	Language language.Language
}

// NewFallbackKey creates a fallback key. An empty language selects
// script-only fallbacks.
func NewFallbackKey(script language.Script, lang language.Language) FallbackKey {
	return FallbackKey{Script: script, Language: lang}
}

func (k FallbackKey) scriptOnly() FallbackKey {
	return FallbackKey{Script: k.Script}
}
