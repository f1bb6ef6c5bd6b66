/*
Package fontdb is a small font database answering family/attribute/fallback
queries with an ordered list of candidate fonts.

A [Collection] groups fonts by family name and knows about generic families
(sans-serif, emoji, ...) and about fallback families per script and language.
Clients narrow a [Query] by family list, [Attributes] and [FallbackKey] and
then iterate the candidates with [Query.MatchesWith]. Candidates are computed
lazily and re-used as long as the query scope does not change.

Font matching is intentionally simple: per family the font nearest to the
requested style, weight and width is taken. When the chosen font's intrinsic
style differs from the request, the candidate carries [Synthesis] parameters.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontdb

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'textlayout.fontdb'
func tracer() tracing.Trace {
	return tracing.Select("textlayout.fontdb")
}

var (
	// ErrNoFonts is returned when a font source did not contain any usable font.
	ErrNoFonts = errors.New("fontdb: no fonts found")
	// ErrNoFamily is returned when a font without family name is registered.
	ErrNoFamily = errors.New("fontdb: font has no family name")
)
