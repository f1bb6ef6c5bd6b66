package fontdb

import (
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/textlayout/internal/fontload"
)

// Charmap maps characters to nominal glyph ids. *font.Font satisfies it.
type Charmap interface {
	NominalGlyph(r rune) (font.GID, bool)
}

// Font is one font of a collection.
//
// Data is nil for fonts which have not been parsed yet (system fonts are
// loaded on first use) and for fonts registered with a bare Charmap.
type Font struct {
	ID         uint64 // blob identity, unique within a collection
	Index      int    // index within a font collection file
	Family     string
	Attributes Attributes
	Data       *font.Font

	charmap Charmap
	load    func() (*font.Font, error)
	failed  bool
}

// NewFont creates a font entry from a bare charmap. Fonts created this way
// can take part in font selection, but cannot be shaped by a shaping engine
// which requires font data.
func NewFont(family string, attrs Attributes, cmap Charmap) *Font {
	return &Font{Family: family, Attributes: attrs.normalized(), charmap: cmap}
}

// Charmap returns the font's character map, parsing the font if necessary.
// Fonts which cannot be loaded have a nil charmap.
func (f *Font) Charmap() Charmap {
	if f.charmap != nil {
		return f.charmap
	}
	if f.Data == nil && f.load != nil && !f.failed {
		data, err := f.load()
		if err != nil {
			tracer().Errorf("cannot load font %s: %v", f.Family, err)
			f.failed = true
			return nil
		}
		f.Data = data
	}
	if f.Data != nil {
		f.charmap = f.Data
	}
	return f.charmap
}

// Face returns the parsed font data, loading it if necessary.
func (f *Font) Face() *font.Font {
	f.Charmap()
	return f.Data
}

// Collection is a set of fonts grouped by family, plus generic family and
// fallback tables.
type Collection struct {
	families  map[string][]*Font // keyed by lower-case family name
	order     []string           // family names in registration order
	generics  map[GenericFamily][]string
	fallbacks map[FallbackKey][]string
	nextID    uint64
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		families:  make(map[string][]*Font),
		generics:  make(map[GenericFamily][]string),
		fallbacks: make(map[FallbackKey][]string),
		nextID:    1,
	}
}

func familyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a font to the collection and assigns it an ID.
func (c *Collection) Register(f *Font) error {
	if f == nil || familyKey(f.Family) == "" {
		return ErrNoFamily
	}
	f.ID = c.nextID
	c.nextID++
	key := familyKey(f.Family)
	if _, ok := c.families[key]; !ok {
		c.order = append(c.order, f.Family)
	}
	c.families[key] = append(c.families[key], f)
	tracer().Debugf("registered font #%d family=%q attrs=%v", f.ID, f.Family, f.Attributes)
	return nil
}

// AddFace registers a parsed go-text face. The family name and attributes are
// taken from the face's description unless family is non-empty.
func (c *Collection) AddFace(face *font.Face, family string) (*Font, error) {
	desc := face.Describe()
	if family == "" {
		family = desc.Family
	}
	f := &Font{
		Family:     family,
		Attributes: AttributesFromAspect(desc.Aspect),
		Data:       face.Font,
	}
	if err := c.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddFontData parses font binaries (a single font or a collection) and
// registers every contained font.
func (c *Collection) AddFontData(data []byte, collection bool) ([]*Font, error) {
	sfonts, err := fontload.ParseOpenTypeFonts(data, collection)
	if err != nil {
		return nil, err
	}
	return c.addScalable(sfonts)
}

// LoadFile loads and registers all fonts of a font file.
func (c *Collection) LoadFile(path string) ([]*Font, error) {
	sfonts, err := fontload.LoadOpenTypeFonts(path)
	if err != nil {
		return nil, err
	}
	return c.addScalable(sfonts)
}

func (c *Collection) addScalable(sfonts []*fontload.ScalableFont) ([]*Font, error) {
	if len(sfonts) == 0 {
		return nil, ErrNoFonts
	}
	fonts := make([]*Font, 0, len(sfonts))
	for _, sf := range sfonts {
		f, err := c.AddFace(sf.Face, "")
		if err != nil {
			return fonts, err
		}
		f.Index = sf.Index
		fonts = append(fonts, f)
	}
	return fonts, nil
}

// SetGenericFamily sets the family names a generic family resolves to.
func (c *Collection) SetGenericFamily(g GenericFamily, names ...string) {
	c.generics[g] = append([]string(nil), names...)
}

// AppendFallbacks appends fallback family names for a fallback key.
func (c *Collection) AppendFallbacks(key FallbackKey, names ...string) {
	c.fallbacks[key] = append(c.fallbacks[key], names...)
}

// Families returns the family names of the collection in registration order.
func (c *Collection) Families() []string {
	return append([]string(nil), c.order...)
}

// Family returns the fonts of a family.
func (c *Collection) Family(name string) ([]*Font, bool) {
	fonts, ok := c.families[familyKey(name)]
	return fonts, ok
}

// NewQuery creates a query against the collection.
func (c *Collection) NewQuery() *Query {
	return &Query{coll: c, attrs: NormalAttributes}
}

// bestMatch returns the font of a family nearest to attrs.
func (c *Collection) bestMatch(family string, attrs Attributes) (*Font, bool) {
	fonts := c.families[familyKey(family)]
	var best *Font
	bestDist := 0.0
	for _, f := range fonts {
		if d := attrs.distance(f.Attributes); best == nil || d < bestDist {
			best, bestDist = f, d
		}
	}
	return best, best != nil
}

// resolve expands a query family to concrete family names.
func (c *Collection) resolve(qf QueryFamily) []string {
	if qf.Generic != NoGeneric {
		return c.generics[qf.Generic]
	}
	return []string{qf.Name}
}
