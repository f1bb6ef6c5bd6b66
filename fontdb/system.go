package fontdb

import (
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/npillmayer/textlayout/internal/fontload"
)

// LoadSystemFonts registers the fonts installed on the system. Fonts are
// scanned with fontscan (using cacheDir for the scan index) and parsed
// lazily when a query first needs their character map.
func (c *Collection) LoadSystemFonts(cacheDir string) (int, error) {
	footprints, err := fontscan.SystemFonts(nil, cacheDir)
	if err != nil {
		return 0, fmt.Errorf("fontdb: scanning system fonts: %w", err)
	}
	n := 0
	for _, fp := range footprints {
		if fp.Family == "" {
			continue
		}
		path, inx := fp.Location.File, int(fp.Location.Index)
		f := &Font{
			Family:     fp.Family,
			Index:      inx,
			Attributes: AttributesFromAspect(fp.Aspect),
			load: func() (*font.Font, error) {
				sf, err := fontload.LoadOpenTypeFont(path, inx)
				if err != nil {
					return nil, err
				}
				return sf.Face.Font, nil
			},
		}
		if err := c.Register(f); err == nil {
			n++
		}
	}
	if n == 0 {
		return 0, ErrNoFonts
	}
	tracer().Infof("registered %d system fonts", n)
	return n, nil
}

// UseDefaultGenerics maps generic families to common system family names,
// keeping only families present in the collection.
func (c *Collection) UseDefaultGenerics() {
	defaults := map[GenericFamily][]string{
		SansSerif: {"Noto Sans", "DejaVu Sans", "Helvetica", "Arial", "Roboto"},
		Serif:     {"Noto Serif", "DejaVu Serif", "Times New Roman", "Times"},
		Monospace: {"Noto Sans Mono", "DejaVu Sans Mono", "Menlo", "Courier New"},
		Emoji:     {"Noto Color Emoji", "Apple Color Emoji", "Segoe UI Emoji"},
		SystemUI:  {"Noto Sans", "San Francisco", "Segoe UI", "DejaVu Sans"},
	}
	for g, names := range defaults {
		var present []string
		for _, name := range names {
			if _, ok := c.Family(name); ok {
				present = append(present, name)
			}
		}
		if len(present) > 0 {
			c.SetGenericFamily(g, present...)
		}
	}
}
