package fontdb

import "slices"

// QueryStatus tells a query whether to continue with the next candidate.
type QueryStatus uint8

const (
	QueryContinue QueryStatus = iota
	QueryStop
)

// QueryFont is a candidate font produced by a query, together with the
// synthesis needed to emulate the requested attributes.
type QueryFont struct {
	Font      *Font
	Synthesis Synthesis
}

// Family returns the family name of the candidate.
func (qf *QueryFont) Family() string {
	return qf.Font.Family
}

// Query narrows a collection by family list, attributes and fallback key.
//
// The candidate list is computed on first use and kept until one of the
// setters changes the scope.
type Query struct {
	coll       *Collection
	families   []QueryFamily
	attrs      Attributes
	fallbacks  FallbackKey
	candidates []QueryFont
	valid      bool
	scopes     int // number of candidate list computations
}

// SetFamilies sets the ordered family list.
func (q *Query) SetFamilies(families ...QueryFamily) {
	if q.valid && slices.Equal(q.families, families) {
		return
	}
	q.families = append(q.families[:0], families...)
	q.valid = false
}

// SetAttributes sets the requested font attributes.
func (q *Query) SetAttributes(attrs Attributes) {
	attrs = attrs.normalized()
	if q.valid && q.attrs == attrs {
		return
	}
	q.attrs = attrs
	q.valid = false
}

// SetFallbacks sets the fallback key used after the family list is exhausted.
func (q *Query) SetFallbacks(key FallbackKey) {
	if q.valid && q.fallbacks == key {
		return
	}
	q.fallbacks = key
	q.valid = false
}

// Attributes returns the currently requested attributes.
func (q *Query) Attributes() Attributes {
	return q.attrs
}

// ScopeChanges returns how often the candidate list had to be computed.
func (q *Query) ScopeChanges() int {
	return q.scopes
}

// MatchesWith calls fn for every candidate font in priority order until fn
// returns QueryStop.
func (q *Query) MatchesWith(fn func(*QueryFont) QueryStatus) {
	if !q.valid {
		q.computeCandidates()
	}
	for i := range q.candidates {
		if fn(&q.candidates[i]) == QueryStop {
			return
		}
	}
}

// Candidates returns a copy of the current candidate list.
func (q *Query) Candidates() []QueryFont {
	if !q.valid {
		q.computeCandidates()
	}
	return slices.Clone(q.candidates)
}

func (q *Query) computeCandidates() {
	q.candidates = q.candidates[:0]
	seen := make(map[uint64]bool)
	add := func(family string) {
		f, ok := q.coll.bestMatch(family, q.attrs)
		if !ok || seen[f.ID] {
			return
		}
		seen[f.ID] = true
		q.candidates = append(q.candidates, QueryFont{
			Font:      f,
			Synthesis: synthesize(q.attrs, f.Attributes),
		})
	}
	for _, qf := range q.families {
		for _, name := range q.coll.resolve(qf) {
			add(name)
		}
	}
	for _, name := range q.coll.fallbacks[q.fallbacks] {
		add(name)
	}
	if q.fallbacks.Language != "" {
		for _, name := range q.coll.fallbacks[q.fallbacks.scriptOnly()] {
			add(name)
		}
	}
	q.valid = true
	q.scopes++
	tracer().Debugf("query scope %d: families=%v fallback=%v -> %d candidates",
		q.scopes, q.families, q.fallbacks, len(q.candidates))
}
