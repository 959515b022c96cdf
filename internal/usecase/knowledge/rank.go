package knowledge

import (
	"sort"
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "at": {}, "do": {}, "does": {}, "for": {}, "how": {},
	"i": {}, "in": {}, "is": {}, "it": {}, "me": {}, "my": {}, "of": {}, "on": {}, "or": {},
	"the": {}, "to": {}, "what": {}, "which": {}, "who": {}, "with": {},
}

func terms(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// Rank orders chunks by the number of distinct query terms they contain and keeps the
// first k. Ties keep their input order.
func Rank(query string, chunks []Chunk, k int) []Chunk {
	q := terms(query)

	type scored struct {
		chunk Chunk
		score int
	}
	ranked := make([]scored, len(chunks))
	for i, c := range chunks {
		score := 0
		ct := terms(c.Text)
		for term := range q {
			if _, ok := ct[term]; ok {
				score++
			}
		}
		ranked[i] = scored{chunk: c, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}
	out := make([]Chunk, k)
	for i := range out {
		out[i] = ranked[i].chunk
	}
	return out
}
