package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/textlayout"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/layout"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("tl-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for testing text itemization, font fallback and line layout.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	withLayoutFlags(commando.
		Register("itemize").
		SetDescription("Itemize and shape text, printing runs with their fonts and glyphs.").
		SetShortDescription("itemize text").
		AddArgument("text...", "text to lay out (variadic argument parts joined by comma by commando)", "")).
		SetAction(runItemizeCommand)

	withLayoutFlags(commando.
		Register("lines").
		SetDescription("Break text into lines, align them and print positioned items.").
		SetShortDescription("break lines").
		AddArgument("text...", "text to lay out (variadic argument parts joined by comma by commando)", "")).
		AddFlag("width,w", "maximum line advance (0 means unbounded)", commando.String, "0").
		AddFlag("align,a", "alignment: start|end|center", commando.String, "start").
		SetAction(runLinesCommand)

	commando.
		Register("fonts").
		SetDescription("List font families of font files or of the system font collection.").
		SetShortDescription("list fonts").
		AddArgument("families...", "optional list of families to show in detail", "").
		AddFlag("fonts,F", "font files (comma separated); system fonts if empty", commando.String, "-").
		AddFlag("cache", "directory for the system font index", commando.String, "-").
		SetAction(runFontsCommand)

	commando.Parse(nil)
}

func withLayoutFlags(c *commando.Command) *commando.Command {
	return c.
		AddFlag("verbose,V", "print glyphs", commando.Bool, nil).
		AddFlag("fonts,F", "font files (comma separated); system fonts if empty", commando.String, "-").
		AddFlag("cache", "directory for the system font index", commando.String, "-").
		AddFlag("stack,k", "font stack (e.g. Roboto,sans-serif)", commando.String, "sans-serif").
		AddFlag("size,z", "font size", commando.String, "16").
		AddFlag("weight", "font weight (100..900)", commando.Int, 400).
		AddFlag("italic,i", "request italic fonts", commando.Bool, nil).
		AddFlag("lang,l", "locale (BCP 47, e.g. en, ar, he)", commando.String, "-").
		AddFlag("direction,d", "paragraph direction: ltr|rtl", commando.String, "ltr").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+smcp,-calt)", commando.String, "-").
		AddFlag("variations,v", "variation settings (e.g. wght=650,wdth=80)", commando.String, "-").
		AddFlag("boxes,b", "inline boxes as offset:widthxheight (e.g. 5:10x12)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-")
}

func runItemizeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l := mustLayout(args, flags)
	fmt.Printf("Text: %q (%d bytes)\n", l.Text(), len(l.Text()))
	fmt.Printf("Styles: %d, runs: %d, items: %d\n", len(l.Styles()), l.RunCount(), l.ItemCount())
	for i := range l.ItemCount() {
		item, _ := l.Item(i)
		switch item.Kind {
		case layout.TextRunItem:
			run, _ := l.Run(item.Index)
			fmt.Printf("%3d  %s\n", i, formatRun(run))
			if verbose(flags) {
				fmt.Printf("     %s\n", formatGlyphs(run.VisualGlyphs()))
			}
		case layout.InlineBoxItem:
			box, _ := l.InlineBox(item.Index)
			fmt.Printf("%3d  box #%d at %d: %gx%g level=%d\n", i, box.ID, box.Index,
				box.Width, box.Height, item.BidiLevel)
		}
	}
}

func runLinesCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	l := mustLayout(args, flags)
	width := mustFlagFloat(flags["width"], "width")
	align, err := parseAlignment(mustFlagString(flags["align"], "align"))
	if err != nil {
		fatalf("%v", err)
	}
	l.BreakLines(width)
	if width == 0 {
		width = l.Width()
	}
	l.Align(width, align)
	fmt.Printf("Lines: %d, width=%.2f height=%.2f\n", l.LineCount(), l.Width(), l.Height())
	for i := range l.LineCount() {
		line, _ := l.Line(i)
		m := line.Metrics()
		fmt.Printf("line %d  %s  %q  break=%s\n", i, line.TextRange(),
			l.Text()[line.TextRange().Start:line.TextRange().End], line.BreakReason())
		fmt.Printf("   baseline=%.2f offset=%.2f advance=%.2f ascent=%.2f descent=%.2f trailing=%.2f\n",
			m.Baseline, m.Offset, m.Advance, m.Ascent, m.Descent, m.TrailingWhitespace)
		for item := range line.Items() {
			switch it := item.(type) {
			case layout.GlyphRun:
				fmt.Printf("   run  x=%.2f y=%.2f advance=%.2f glyphs=%d font=%s\n",
					it.Offset(), it.Baseline(), it.Advance(), it.GlyphCount(), fontName(it.Run()))
				if verbose(flags) {
					fmt.Printf("        %s\n", formatGlyphs(it.PositionedGlyphs()))
				}
			case layout.PositionedInlineBox:
				fmt.Printf("   box  #%d x=%.2f y=%.2f %gx%g\n", it.ID, it.X, it.Y, it.Width, it.Height)
			}
		}
	}
}

func runFontsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fonts := mustLoadFonts(flags)
	families := fonts.Families()
	sort.Strings(families)
	requested := splitCSV(args["families"].Value)
	if len(requested) == 0 {
		fmt.Printf("Families (%d):\n", len(families))
		for _, fam := range families {
			members, _ := fonts.Family(fam)
			fmt.Printf("  %s (%d)\n", fam, len(members))
		}
		return
	}
	for _, fam := range requested {
		members, ok := fonts.Family(fam)
		if !ok {
			fmt.Printf("%s: missing\n", fam)
			continue
		}
		fmt.Printf("%s:\n", fam)
		for _, f := range members {
			fmt.Printf("  #%d index=%d %s\n", f.ID, f.Index, formatAttributes(f.Attributes))
		}
	}
}

// ---Building the layout -----------------------------------------------

func mustLoadFonts(flags map[string]commando.FlagValue) *fontdb.Collection {
	fonts := fontdb.NewCollection()
	files := splitCSVSpace(mustFlagString(flags["fonts"], "fonts"))
	if len(files) == 0 {
		cache := mustFlagString(flags["cache"], "cache")
		if cache == "" {
			cache = os.TempDir()
		}
		if _, err := fonts.LoadSystemFonts(cache); err != nil {
			fatalf("%v", err)
		}
		fonts.UseDefaultGenerics()
		return fonts
	}
	var first string
	for _, path := range files {
		loaded, err := fonts.LoadFile(path)
		if err != nil {
			fatalf("cannot load font %s: %v", path, err)
		}
		if first == "" && len(loaded) > 0 {
			first = loaded[0].Family
		}
	}
	// the first file serves every generic family
	for _, g := range []fontdb.GenericFamily{fontdb.SansSerif, fontdb.Serif, fontdb.Monospace, fontdb.SystemUI} {
		fonts.SetGenericFamily(g, first)
	}
	return fonts
}

func mustLayout(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) *layout.Layout {
	text, err := parseInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	ctx := textlayout.NewContext(mustLoadFonts(flags))
	base, err := baseStyle(ctx, flags)
	if err != nil {
		fatalf("%v", err)
	}
	dir, err := parseDirection(mustFlagString(flags["direction"], "direction"))
	if err != nil {
		fatalf("%v", err)
	}
	boxes, err := parseBoxes(mustFlagString(flags["boxes"], "boxes"))
	if err != nil {
		fatalf("%v", err)
	}
	for _, b := range boxes {
		if b.Index > len(text) {
			fatalf("inline box #%d at %d is beyond the end of the text", b.ID, b.Index)
		}
	}
	return ctx.Layout(text, nil, boxes, textlayout.Options{
		BaseDirection: dir,
		DefaultStyle:  &base,
	})
}

func baseStyle(ctx *textlayout.Context, flags map[string]commando.FlagValue) (style.Style, error) {
	s := style.Default()
	s.FontSize = mustFlagFloat(flags["size"], "size")
	if s.FontSize <= 0 {
		return s, fmt.Errorf("font size must be positive")
	}
	s.FontWeight = font.Weight(mustFlagInt(flags["weight"], "weight"))
	if mustFlagBool(flags["italic"], "italic") {
		s.FontStyle = font.StyleItalic
	}
	s.FontStack = ctx.Stack(splitCSV(mustFlagString(flags["stack"], "stack"))...)
	lang, err := parseLanguage(flags["lang"])
	if err != nil {
		return s, err
	}
	s.Locale = lang
	features, err := parseFeatureList(mustFlagString(flags["features"], "features"))
	if err != nil {
		return s, err
	}
	s.Features = ctx.Styles().Features(features...)
	variations, err := parseVariations(mustFlagString(flags["variations"], "variations"))
	if err != nil {
		return s, err
	}
	s.Variations = ctx.Styles().Variations(variations...)
	return s, nil
}

// splitCSV splits at commas only, as family names may contain spaces.
func splitCSV(spec string) []string {
	var out []string
	for _, p := range strings.Split(spec, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ---Formatting the output ---------------------------------------------

func formatRun(run *layout.Run) string {
	synth := ""
	if run.Font.Synthesis.Embolden {
		synth += " +bold"
	}
	if run.Font.Synthesis.Skew != 0 {
		synth += fmt.Sprintf(" +skew(%g)", run.Font.Synthesis.Skew)
	}
	return fmt.Sprintf("run %s style=%d level=%d size=%g advance=%.2f clusters=%d glyphs=%d font=%s%s",
		run.TextRange, run.StyleIndex, run.BidiLevel, run.Size, run.Advance,
		len(run.Clusters), run.GlyphCount(), fontName(run), synth)
}

func fontName(run *layout.Run) string {
	if run == nil || run.Font.Font == nil {
		return "<none>"
	}
	return strconv.Quote(run.Font.Font.Family)
}

func formatAttributes(a fontdb.Attributes) string {
	slant := "normal"
	if a.Style == font.StyleItalic {
		slant = "italic"
	}
	return fmt.Sprintf("weight=%g width=%g style=%s", a.Weight, a.Width, slant)
}

// formatGlyphs prints glyphs as gid+advance, with @x,y for non-zero offsets.
func formatGlyphs(glyphs []shape.Glyph) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(&b, "%d+%.2f", g.ID, g.Advance)
		if g.X != 0 || g.Y != 0 {
			fmt.Fprintf(&b, "@%.2f,%.2f", g.X, g.Y)
		}
	}
	return "[" + b.String() + "]"
}

// ---Flag helpers ------------------------------------------------------

func verbose(flags map[string]commando.FlagValue) bool {
	v, err := flags["verbose"].GetBool()
	return err == nil && v
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flagString(flag, name)
	if err != nil {
		fatalf("%v", err)
	}
	return s
}

func mustFlagFloat(flag commando.FlagValue, name string) float32 {
	s := mustFlagString(flag, name)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return float32(f)
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "tl-tools: "+format+"\n", args...)
	os.Exit(1)
}
