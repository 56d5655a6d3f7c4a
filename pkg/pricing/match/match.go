// Package match disambiguates noisy scraped search results against a
// target game title.
package match

import "strings"

// Threshold is the minimum similarity percentage for an accepted match.
// Below it we risk matching a base title to an expanded re-release
// ("Dragon Ball Z" vs "Dragon Ball Z Kakarot").
const Threshold = 80.0

// Normalize lowercases a title, strips the leading "the"/"a" stopword and
// removes everything but letters and digits.
func Normalize(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, stop := range []string{"the ", "a "} {
		if strings.HasPrefix(t, stop) {
			t = t[len(stop):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity returns a symmetric character-overlap percentage between two
// strings: twice the number of shared characters (longest common substring,
// applied recursively to the remainders) over the combined length.
func Similarity(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	return float64(commonChars(a, b)) * 200 / float64(len(a)+len(b))
}

// commonChars counts matching characters the way PHP's similar_text does:
// longest common substring first, then recurse into the left and right
// remainders.
func commonChars(a, b string) int {
	posA, posB, max := 0, 0, 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				max, posA, posB = k, i, j
			}
		}
	}
	if max == 0 {
		return 0
	}

	sum := max
	if posA > 0 && posB > 0 {
		sum += commonChars(a[:posA], b[:posB])
	}
	if posA+max < len(a) && posB+max < len(b) {
		sum += commonChars(a[posA+max:], b[posB+max:])
	}
	return sum
}

// variants returns the normalized forms a title is matched under: the full
// title, and the part before a colon when present. Storefront listings
// carry subtitles ("The Witcher 3: Wild Hunt") that the collection entry
// usually omits.
func variants(title string) []string {
	out := []string{Normalize(title)}
	if idx := strings.Index(title, ":"); idx > 0 {
		if head := Normalize(title[:idx]); head != "" && head != out[0] {
			out = append(out, head)
		}
	}
	return out
}

// BestIndex scores every candidate title against the target and returns the
// index of the best acceptable match, or -1 when nothing reaches the
// threshold. Exact normalized equality short-circuits. Containment of one
// normalized title in the other acts as a tie-break between candidates but
// does not waive the threshold.
func BestIndex(candidates []string, target string) int {
	targetVars := variants(target)

	best := -1
	bestScore := 0.0
	bestContained := false

	for i, candidate := range candidates {
		candVars := variants(candidate)

		score := 0.0
		contained := false
		for _, tv := range targetVars {
			if tv == "" {
				continue
			}
			for _, cv := range candVars {
				if cv == "" {
					continue
				}
				if cv == tv {
					return i
				}
				if strings.Contains(cv, tv) || strings.Contains(tv, cv) {
					contained = true
				}
				if s := Similarity(tv, cv); s > score {
					score = s
				}
			}
		}

		if score > bestScore || (score == bestScore && contained && !bestContained) {
			best, bestScore, bestContained = i, score, contained
		}
	}

	if bestScore >= Threshold {
		return best
	}
	return -1
}
