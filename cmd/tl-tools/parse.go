package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/textlayout"
	"github.com/npillmayer/textlayout/analysis"
	"github.com/npillmayer/textlayout/layout"
	"github.com/thatisuday/commando"
)

// ---Parsing flags and arguments ---------------------------------------

func flagString(flag commando.FlagValue, name string) (string, error) {
	s, err := flag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid --%s flag: %w", name, err)
	}
	s = strings.TrimSpace(s)
	if s == "-" {
		s = ""
	}
	return s, nil
}

func parseInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := flagString(cpFlag, "codepoints")
	if err != nil {
		return "", err
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseLanguage(flag commando.FlagValue) (language.Language, error) {
	s, err := flagString(flag, "lang")
	if err != nil {
		return "", err
	}
	return textlayout.ParseLocale(s)
}

func parseDirection(s string) (analysis.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr", "left-to-right":
		return analysis.LeftToRight, nil
	case "rtl", "right-to-left":
		return analysis.RightToLeft, nil
	default:
		return analysis.LeftToRight, fmt.Errorf("unsupported direction %q (expected ltr|rtl)", s)
	}
}

func parseAlignment(s string) (layout.Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start", "left":
		return layout.AlignStart, nil
	case "end", "right":
		return layout.AlignEnd, nil
	case "center", "centre":
		return layout.AlignCenter, nil
	default:
		return layout.AlignStart, fmt.Errorf("unsupported alignment %q (expected start|end|center)", s)
	}
}

// We try to follow Harfbuzz's `hb-shape` features parameter syntax.
//
// Disable ligatures:      --features="-liga"
// or                      --features="liga=0"
//
// Feature ranges are not supported ("liga[3:5]"); use style spans instead.
func parseFeatureList(spec string) ([]shaping.FontFeature, error) {
	if spec == "" {
		return nil, nil
	}
	parts := splitCSVSpace(spec)
	out := make([]shaping.FontFeature, 0, len(parts))
	for _, p := range parts {
		f, err := parseFeatureItem(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseFeatureItem(item string) (shaping.FontFeature, error) {
	if item = strings.TrimSpace(item); item == "" {
		return shaping.FontFeature{}, errors.New("empty feature entry in --features")
	}
	value := uint32(1)
	if rest, minus := strings.CutPrefix(item, "-"); minus {
		item, value = rest, 0
	} else {
		item, _ = strings.CutPrefix(item, "+")
	}
	tagPart, v, hasEqual := strings.Cut(item, "=")
	if hasEqual {
		if v == "" {
			return shaping.FontFeature{}, fmt.Errorf("empty feature value in %q", item)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return shaping.FontFeature{}, fmt.Errorf("invalid feature value in %q: %w", item, err)
		}
		value = uint32(n)
	}
	tag, err := parseTag(tagPart)
	if err != nil {
		return shaping.FontFeature{}, err
	}
	return shaping.FontFeature{Tag: tag, Value: value}, nil
}

// parseVariations parses axis settings like "wght=650,wdth=80".
func parseVariations(spec string) ([]font.Variation, error) {
	if spec == "" {
		return nil, nil
	}
	parts := splitCSVSpace(spec)
	out := make([]font.Variation, 0, len(parts))
	for _, p := range parts {
		tagPart, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("variation %q has no value", p)
		}
		tag, err := parseTag(tagPart)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid variation value in %q: %w", p, err)
		}
		out = append(out, font.Variation{Tag: tag, Value: float32(f)})
	}
	return out, nil
}

func parseTag(s string) (opentype.Tag, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return 0, fmt.Errorf("tag %q is not 4 characters", s)
	}
	return opentype.MustNewTag(s), nil
}

// parseBoxes parses inline boxes given as "offset:widthxheight", e.g.
// "5:10x12". Boxes get their position in the list as id.
func parseBoxes(spec string) ([]layout.InlineBox, error) {
	if spec == "" {
		return nil, nil
	}
	parts := splitCSVSpace(spec)
	boxes := make([]layout.InlineBox, 0, len(parts))
	for i, p := range parts {
		off, size, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("inline box %q: expected offset:widthxheight", p)
		}
		w, h, ok := strings.Cut(strings.ToLower(size), "x")
		if !ok {
			return nil, fmt.Errorf("inline box %q: expected widthxheight", p)
		}
		index, err := strconv.Atoi(off)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("inline box %q: invalid offset", p)
		}
		width, err1 := strconv.ParseFloat(w, 32)
		height, err2 := strconv.ParseFloat(h, 32)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("inline box %q: invalid size", p)
		}
		boxes = append(boxes, layout.InlineBox{
			Index:  index,
			Width:  float32(width),
			Height: float32(height),
			ID:     uint64(i),
		})
	}
	return boxes, nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
