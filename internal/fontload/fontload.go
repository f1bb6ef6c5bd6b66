package fontload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// ErrEmptyFontData is returned for zero-length font binaries.
var ErrEmptyFontData = errors.New("fontload: empty font data")

// ScalableFont is a parsed font face together with the binary it came from.
type ScalableFont struct {
	Fontname string
	Filepath string
	Index    int // index within a collection, 0 for single fonts
	Binary   []byte
	Face     *font.Face
}

// LoadOpenTypeFonts loads all fonts (TTF, OTF or the members of a TTC) from a file.
func LoadOpenTypeFonts(fontfile string) ([]*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	fonts, err := ParseOpenTypeFonts(bytez, isCollection(fontfile))
	if err != nil {
		return nil, fmt.Errorf("cannot parse font file %s: %w", fontfile, err)
	}
	for _, f := range fonts {
		f.Filepath = fontfile
	}
	return fonts, nil
}

// LoadOpenTypeFont loads the font at index inx of a font file.
func LoadOpenTypeFont(fontfile string, inx int) (*ScalableFont, error) {
	fonts, err := LoadOpenTypeFonts(fontfile)
	if err != nil {
		return nil, err
	}
	if inx < 0 || inx >= len(fonts) {
		return nil, fmt.Errorf("font index %d out of range for %s (%d fonts)", inx, fontfile, len(fonts))
	}
	return fonts[inx], nil
}

// ParseOpenTypeFonts parses font binaries from memory. If collection is set,
// fbytes is parsed as a TrueType collection.
func ParseOpenTypeFonts(fbytes []byte, collection bool) ([]*ScalableFont, error) {
	if len(fbytes) == 0 {
		return nil, ErrEmptyFontData
	}
	if collection {
		faces, err := font.ParseTTC(bytes.NewReader(fbytes))
		if err != nil {
			return nil, err
		}
		fonts := make([]*ScalableFont, len(faces))
		for i, face := range faces {
			fonts[i] = &ScalableFont{Binary: fbytes, Face: face, Index: i}
			fonts[i].Fontname = fullName(fbytes, i, face)
		}
		return fonts, nil
	}
	face, err := font.ParseTTF(bytes.NewReader(fbytes))
	if err != nil {
		return nil, err
	}
	f := &ScalableFont{Binary: fbytes, Face: face}
	f.Fontname = fullName(fbytes, 0, face)
	return []*ScalableFont{f}, nil
}

// fullName reads the full font name from the 'name' table. Members of
// collections and fonts sfnt cannot read fall back to the family name.
func fullName(fbytes []byte, inx int, face *font.Face) string {
	if inx == 0 {
		if f, err := sfnt.Parse(fbytes); err == nil {
			if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
				return name
			}
		}
	}
	return face.Describe().Family
}

func isCollection(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".ttc" || ext == ".otc"
}
