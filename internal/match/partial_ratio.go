package match

import "sort"

// matchingBlock describes a run of size runes matching at a[a:] and b[b:].
type matchingBlock struct {
	a    int
	b    int
	size int
}

// longestMatch finds the longest matching block within a[alo:ahi] and
// b[blo:bhi]. Ties resolve to the earliest block in a, then in b, which keeps
// the whole similarity computation deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) matchingBlock {
	besti, bestj, bestsize := alo, blo, 0

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return matchingBlock{a: besti, b: bestj, size: bestsize}
}

// matchingBlocks returns all matching blocks of a and b, ordered by position.
func matchingBlocks(a, b []rune) []matchingBlock {
	type span struct {
		alo, ahi, blo, bhi int
	}

	queue := []span{{0, len(a), 0, len(b)}}
	var blocks []matchingBlock

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if s.alo < m.a && s.blo < m.b {
			queue = append(queue, span{s.alo, m.a, s.blo, m.b})
		}
		if m.a+m.size < s.ahi && m.b+m.size < s.bhi {
			queue = append(queue, span{m.a + m.size, s.ahi, m.b + m.size, s.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].a != blocks[j].a {
			return blocks[i].a < blocks[j].a
		}
		return blocks[i].b < blocks[j].b
	})

	return blocks
}

// ratio returns the fraction of matched runes between a and b: 2*M/T, where M
// is the total size of all matching blocks and T the combined length.
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}

	matched := 0
	for _, bl := range matchingBlocks(a, b) {
		matched += bl.size
	}

	return 2 * float64(matched) / float64(total)
}

// Ratio returns the similarity of two strings in [0,1].
func Ratio(s1, s2 string) float64 {
	return ratio([]rune(s1), []rune(s2))
}

// PartialRatio returns the best alignment score between the shorter string
// and any equal-length window of the longer one, in [0,1]. Candidate windows
// are anchored at the matching blocks of the pair, so a short query that
// appears anywhere inside a long document scores close to 1 regardless of
// the surrounding text.
func PartialRatio(s1, s2 string) float64 {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for _, bl := range matchingBlocks(shorter, longer) {
		start := bl.b - bl.a
		if start < 0 {
			start = 0
		}
		if start+len(shorter) > len(longer) {
			start = len(longer) - len(shorter)
		}

		window := longer[start : start+len(shorter)]
		if r := ratio(shorter, window); r > best {
			best = r
		}
		if best >= 1 {
			break
		}
	}

	return best
}
