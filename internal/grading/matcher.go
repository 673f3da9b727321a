package grading

// sequenceMatcher compares two rune sequences using the Ratcliff/Obershelp
// matching-blocks algorithm. The implementation follows Python's
// difflib.SequenceMatcher (including the automatic-junk rule for popular
// elements in long second sequences) because graded answers were historically
// scored with that exact metric and the acceptance thresholds are calibrated
// against its ratios.
type sequenceMatcher struct {
	a, b     []rune
	b2j      map[rune][]int
	bPopular map[rune]bool
}

type match struct {
	a, b, size int
}

func newSequenceMatcher(a, b string) *sequenceMatcher {
	m := &sequenceMatcher{a: []rune(a), b: []rune(b)}
	m.chainB()
	return m
}

// chainB indexes every element of b by position. Elements accounting for
// more than 1% of a sequence of 200+ elements are marked popular and
// excluded from matching, which keeps the alignment quadratic only in the
// interesting parts of the input.
func (m *sequenceMatcher) chainB() {
	m.b2j = make(map[rune][]int)
	for i, r := range m.b {
		m.b2j[r] = append(m.b2j[r], i)
	}

	m.bPopular = make(map[rune]bool)
	n := len(m.b)
	if n >= 200 {
		threshold := n/100 + 1
		for r, indices := range m.b2j {
			if len(indices) > threshold {
				m.bPopular[r] = true
			}
		}
		for r := range m.bPopular {
			delete(m.b2j, r)
		}
	}
}

// findLongestMatch returns the longest matching block within
// a[alo:ahi] and b[blo:bhi], preferring the earliest block on ties.
func (m *sequenceMatcher) findLongestMatch(alo, ahi, blo, bhi int) match {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// The core loop cannot see popular elements (they are dropped from the
	// index), so extend the best block through any equal adjacent elements.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi &&
		m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return match{besti, bestj, bestsize}
}

// matchingBlocks returns all maximal matching blocks in order.
func (m *sequenceMatcher) matchingBlocks() []match {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}

	var matched []match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		mb := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if mb.size == 0 {
			continue
		}
		matched = append(matched, mb)
		if s.alo < mb.a && s.blo < mb.b {
			queue = append(queue, span{s.alo, mb.a, s.blo, mb.b})
		}
		if mb.a+mb.size < s.ahi && mb.b+mb.size < s.bhi {
			queue = append(queue, span{mb.a + mb.size, s.ahi, mb.b + mb.size, s.bhi})
		}
	}
	return matched
}

// ratio returns a similarity measure in [0, 1]:
// twice the number of matched elements over the total length.
func (m *sequenceMatcher) ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}
	matches := 0
	for _, mb := range m.matchingBlocks() {
		matches += mb.size
	}
	return 2.0 * float64(matches) / float64(total)
}

// SimilarityRatio computes the matching-subsequence similarity of two
// strings as a value in [0, 1].
func SimilarityRatio(a, b string) float64 {
	return newSequenceMatcher(a, b).ratio()
}
