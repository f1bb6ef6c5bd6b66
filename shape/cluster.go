package shape

import (
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/segmenter"
	"github.com/npillmayer/textlayout/analysis"
)

// Token is one input character of a shaping item.
type Token struct {
	Ch         rune
	Offset     uint32 // byte offset of Ch in the full text
	Len        uint8  // UTF-8 length of Ch
	Info       analysis.CharInfo
	StyleIndex uint16
}

// End returns the byte offset just behind the token.
func (t Token) End() uint32 {
	return t.Offset + uint32(t.Len)
}

// Status is the result of mapping a cluster's characters to glyphs.
type Status uint8

const (
	// Discard: no character of the cluster could be mapped.
	Discard Status = iota
	// Keep: some, but not all characters could be mapped.
	Keep
	// Complete: every character could be mapped.
	Complete
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Keep:
		return "keep"
	}
	return "discard"
}

// CharCluster is a minimal unit of text for font selection: a grapheme
// cluster of one or more tokens.
type CharCluster struct {
	tokens []Token
	start  int // index of the first token within the item
	glyphs []font.GID
}

// NewCharCluster creates a cluster from tokens. start is the index of the
// first token within its shaping item.
func NewCharCluster(tokens []Token, start int) CharCluster {
	must(len(tokens) > 0, "character cluster must not be empty")
	return CharCluster{tokens: tokens, start: start}
}

// Tokens returns the tokens of the cluster.
func (c *CharCluster) Tokens() []Token {
	return c.tokens
}

// Start returns the item-relative index of the cluster's first token.
func (c *CharCluster) Start() int {
	return c.start
}

// Len returns the number of tokens in the cluster.
func (c *CharCluster) Len() int {
	return len(c.tokens)
}

// StyleIndex is the style index of the cluster's first token.
func (c *CharCluster) StyleIndex() uint16 {
	return c.tokens[0].StyleIndex
}

// Info returns the character info of the cluster. The cluster counts as
// emoji if any of its characters is an emoji.
func (c *CharCluster) Info() analysis.CharInfo {
	info := c.tokens[0].Info
	for _, t := range c.tokens[1:] {
		info.Emoji = info.Emoji || t.Info.Emoji
	}
	return info
}

// Range returns the byte range of the cluster in the full text.
func (c *CharCluster) Range() (start, end uint32) {
	return c.tokens[0].Offset, c.tokens[len(c.tokens)-1].End()
}

// Glyphs returns the nominal glyphs found by the most recent call to Map.
func (c *CharCluster) Glyphs() []font.GID {
	return c.glyphs
}

// Map maps every character of the cluster with fn. Default-ignorable
// characters (joiners, variation selectors) do not count towards
// completeness; a cluster consisting only of those is complete.
func (c *CharCluster) Map(fn func(rune) (font.GID, bool)) Status {
	c.glyphs = c.glyphs[:0]
	mapped, relevant := 0, 0
	for _, t := range c.tokens {
		gid, ok := fn(t.Ch)
		if !ok {
			gid = NOTDEF
		}
		c.glyphs = append(c.glyphs, gid)
		if isIgnorable(t.Ch) {
			continue
		}
		relevant++
		if ok {
			mapped++
		}
	}
	switch {
	case mapped == relevant:
		return Complete
	case mapped > 0:
		return Keep
	}
	return Discard
}

func isIgnorable(r rune) bool {
	switch {
	case r == 0x200C || r == 0x200D: // ZWNJ, ZWJ
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	}
	return false
}

// Clusters splits a token stream into grapheme clusters.
func Clusters(tokens []Token) []CharCluster {
	if len(tokens) == 0 {
		return nil
	}
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = t.Ch
	}
	var seg segmenter.Segmenter
	seg.Init(runes)
	iter := seg.GraphemeIterator()
	clusters := make([]CharCluster, 0, len(tokens))
	for iter.Next() {
		g := iter.Grapheme()
		end := g.Offset + len(g.Text)
		clusters = append(clusters, NewCharCluster(tokens[g.Offset:end], g.Offset))
	}
	return clusters
}
