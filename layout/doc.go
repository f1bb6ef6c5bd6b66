/*
Package layout stores shaped runs and inline boxes, breaks them into lines
and composes lines into positioned glyph runs.

A [Layout] is built in two phases. During construction it serves as the
[itemize.Sink] of an itemization pass, collecting runs and inline boxes.
Afterwards a line breaker ([Layout.BreakLines], or any caller of
[Layout.CommitLine]) groups items into lines. Reading a layout never
modifies it: [Line.Items] walks a line lazily and yields [GlyphRun]s and
[PositionedInlineBox]es.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the layout package namespace.
func tracer() tracing.Trace {
	return tracing.Select("textlayout.layout")
}
