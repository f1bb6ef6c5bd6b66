/*
Package itemize splits styled text into shaping items and selects fonts for
them.

[Itemize] walks a text together with its per-character style indices,
character infos and bidi levels. It cuts the text into items of uniform
shaping attributes (size, locale, feature and variation sets, spacing, bidi
level and script), interleaved with inline boxes at their byte offsets.
Every item is handed to a [shape.Engine] together with a fresh
[FontSelector]; every segment the engine shapes ends up as one run in a
[Sink].

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package itemize

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the itemize package namespace.
func tracer() tracing.Trace {
	return tracing.Select("textlayout.itemize")
}
