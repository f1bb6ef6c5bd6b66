package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "stack", "fallback":
		pterm.Info.Println("Font stacks and fallback")
		pterm.Println(`
	A font stack is a comma separated list of family names, e.g.
	    stack Noto Serif, serif
	Generic names (sans-serif, serif, monospace, emoji, system-ui) refer to
	the fonts registered for the generic family.
	For every character cluster, families are tried in order:
	+-------------------+
	| font stack        |
	+-------------------+
	| emoji (for emoji) |
	+-------------------+
	| script fallbacks  |
	+-------------------+
	The first font mapping every character of the cluster wins.
	`)
	case "lines", "width", "align":
		pterm.Info.Println("Line breaking")
		pterm.Println(`
	Lines are broken at item boundaries, with items wider than the line
	getting a line of their own (an emergency break).
	    width 200       maximum line advance, 0 for a single line
	    align center    start | end | center
	'lines' prints the lines of the most recent layout.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	text <string>      lay out text and print its runs
	runs               print runs of the current layout
	lines              print lines of the current layout
	font [path]        load a font file, or system fonts without a path
	fonts [family]     list families, or the fonts of a family
	stack <names>      set the font stack
	size <n>           set the font size
	weight <n>         set the font weight
	dir ltr|rtl        set the paragraph direction
	width <n>          set the line width
	align <a>          set the alignment
	help [topic]       topics: stack, lines
	quit
	`)
	}
}
