package itemize

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/textlayout/fontdb"
	"github.com/npillmayer/textlayout/shape"
	"github.com/npillmayer/textlayout/style"
)

// FontSelector selects fonts for the clusters of one item. It narrows the
// font query only when a cluster's style differs from the previous one, or
// for emoji clusters.
type FontSelector struct {
	query      *fontdb.Query
	styles     *style.Context
	table      []style.Style
	stack      style.StackID
	stackValid bool // false after an emoji cluster widened the family list
	styleIndex uint16
	attrs      fontdb.Attributes
}

var _ shape.Selector = (*FontSelector)(nil)

// NewFontSelector creates a selector for an item starting with style
// styleIndex of table. It sets up the shared query of ctx for the style's
// font stack and attributes, and for fallbacks of script and locale.
func NewFontSelector(ctx *Context, table []style.Style, styleIndex uint16, script language.Script,
	locale language.Language) *FontSelector {
	//
	fs := &FontSelector{
		query:  ctx.Query,
		styles: ctx.Styles,
		table:  table,
	}
	if int(styleIndex) >= len(table) {
		styleIndex = 0
	}
	st := &table[styleIndex]
	fs.styleIndex = styleIndex
	fs.stack, fs.stackValid = st.FontStack, true
	fs.attrs = attributesOf(st)
	if fs.query != nil {
		fs.query.SetFamilies(fs.families(st.FontStack)...)
		fs.query.SetFallbacks(fontdb.NewFallbackKey(script, locale))
		fs.query.SetAttributes(fs.attrs)
	}
	return fs
}

// SelectFont implements shape.Selector.
//
// Candidates are tried in query order. A font mapping every character of the
// cluster is selected at once; otherwise the last font mapping some
// characters wins, and failing that the first candidate. A font which cannot
// be loaded counts as mapping nothing. Only an empty candidate list leaves the
// cluster without a font.
func (fs *FontSelector) SelectFont(cluster *shape.CharCluster) (shape.SelectedFont, bool) {
	if fs.query == nil {
		return shape.SelectedFont{}, false
	}
	styleIndex := cluster.StyleIndex()
	if int(styleIndex) >= len(fs.table) {
		styleIndex = 0
	}
	emoji := cluster.Info().IsEmoji()
	if styleIndex != fs.styleIndex || emoji || !fs.stackValid {
		fs.narrow(styleIndex, emoji)
	}
	var selected shape.SelectedFont
	found := false
	fs.query.MatchesWith(func(qf *fontdb.QueryFont) fontdb.QueryStatus {
		status := shape.Discard
		if cmap := qf.Font.Charmap(); cmap != nil {
			status = cluster.Map(cmap.NominalGlyph)
		}
		switch status {
		case shape.Complete:
			selected, found = selectedFrom(qf), true
			return fontdb.QueryStop
		case shape.Keep:
			selected, found = selectedFrom(qf), true
		case shape.Discard:
			if !found {
				selected, found = selectedFrom(qf), true
			}
		}
		return fontdb.QueryContinue
	})
	if !found {
		start, _ := cluster.Range()
		tracer().Debugf("no font candidates for cluster at byte %d", start)
	}
	return selected, found
}

func (fs *FontSelector) narrow(styleIndex uint16, emoji bool) {
	fs.styleIndex = styleIndex
	st := &fs.table[styleIndex]
	if emoji {
		families := append(fs.families(st.FontStack), fontdb.Generic(fontdb.Emoji))
		fs.query.SetFamilies(families...)
		fs.stackValid = false
	} else if !fs.stackValid || fs.stack != st.FontStack {
		fs.query.SetFamilies(fs.families(st.FontStack)...)
		fs.stack, fs.stackValid = st.FontStack, true
	}
	if attrs := attributesOf(st); attrs != fs.attrs {
		fs.query.SetAttributes(attrs)
		fs.attrs = attrs
	}
}

func (fs *FontSelector) families(id style.StackID) []fontdb.QueryFamily {
	if fs.styles == nil {
		return nil
	}
	families, _ := fs.styles.StackFamilies(id)
	return append([]fontdb.QueryFamily(nil), families...)
}

func attributesOf(st *style.Style) fontdb.Attributes {
	return fontdb.Attributes{
		Width:  st.FontWidth,
		Weight: st.FontWeight,
		Style:  st.FontStyle,
	}
}

func selectedFrom(qf *fontdb.QueryFont) shape.SelectedFont {
	return shape.SelectedFont{Font: qf.Font, Synthesis: qf.Synthesis}
}
