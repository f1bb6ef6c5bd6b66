/*
Package shape is the boundary between itemization and glyph shaping.

The itemizer hands an [Engine] one item at a time: an ordered stream of
[Token]s (characters tagged with style index and character info), shaping
[Options] and a [Selector]. The engine groups tokens into character clusters,
asks the selector for a font once per cluster, shapes maximal sequences of
clusters sharing one font, and reports every finished segment through a
callback.

[HarfbuzzEngine] is the default engine, built on go-text/typesetting.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package shape

import (
	"github.com/npillmayer/schuko/tracing"
)

// NOTDEF is the glyph id of the ".notdef" glyph.
const NOTDEF = 0

// tracer returns a trace sink for the shape package namespace.
func tracer() tracing.Trace {
	return tracing.Select("textlayout.shape")
}

// must panics when condition is false.
func must(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
