// Copyright © 2026 The apexls authors

package completion

import (
	"sort"
	"strings"
)

// Ranker orders candidates by edit distance to the typed prefix.
type Ranker struct {
	// Distance compares the lower-cased prefix and candidate name. Nil
	// means Levenshtein.
	Distance func(prefix, name string) int
}

// Rank orders cands with the default Ranker.
func Rank(cands []Candidate, prefix string, limit int) []Candidate {
	return Ranker{}.Rank(cands, prefix, limit)
}

type scored struct {
	dist int
	name string
	cand Candidate
}

// less orders by distance, then name length, then name.
func (a scored) less(b scored) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	if len(a.name) != len(b.name) {
		return len(a.name) < len(b.name)
	}
	return a.name < b.name
}

// Rank returns at most limit candidates (all when limit <= 0). With an
// empty prefix the first limit candidates are returned in input order.
// Otherwise candidates are ordered by (distance, len(name), name) and equal
// keys keep their input order. The buffer never grows beyond limit: a
// candidate that does not beat the current worst entry is dropped.
func (r Ranker) Rank(cands []Candidate, prefix string, limit int) []Candidate {
	if prefix == "" {
		if limit > 0 && len(cands) > limit {
			cands = cands[:limit]
		}
		return append([]Candidate(nil), cands...)
	}
	dist := r.Distance
	if dist == nil {
		dist = Levenshtein
	}
	lp := strings.ToLower(prefix)
	capacity := len(cands)
	if limit > 0 && limit < capacity {
		capacity = limit
	}
	buf := make([]scored, 0, capacity)
	for _, c := range cands {
		name := c.Name()
		s := scored{dist: dist(lp, strings.ToLower(name)), name: name, cand: c}
		if limit > 0 && len(buf) == limit && !s.less(buf[len(buf)-1]) {
			continue
		}
		i := sort.Search(len(buf), func(i int) bool { return s.less(buf[i]) })
		if limit > 0 && len(buf) == limit {
			copy(buf[i+1:], buf[i:len(buf)-1])
			buf[i] = s
			continue
		}
		buf = append(buf, scored{})
		copy(buf[i+1:], buf[i:])
		buf[i] = s
	}
	out := make([]Candidate, len(buf))
	for i, s := range buf {
		out[i] = s.cand
	}
	return out
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
