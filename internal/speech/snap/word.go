package snap

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Scoring knobs for the word snapper. The blend weights sum to 1; the
// autocomplete bonus can push a score slightly above it.
const (
	prefixKeyLen = 2    // candidate bucket key length
	maxLenDelta  = 3    // skip candidates this much longer/shorter
	acceptScore  = 0.78 // blended score cutoff

	weightEdit     = 0.45
	weightJaro     = 0.15
	weightPrefix   = 0.20
	weightPhonetic = 0.15
	weightPrior    = 0.05

	autocompleteBonus = 0.08
)

// SnapWord snaps one lowercase decoded word to its best lexicon candidate
// and reports whether it was accepted. Unknown words are dropped, not kept:
// a rejected word returns ("", false).
func (l *Lexicon) SnapWord(w string) (string, bool) {
	lw := strings.ToLower(w)
	if lw == "" {
		return "", false
	}

	bucket := l.bucket(lw)
	if len(bucket) == 0 {
		return "", false
	}

	metaIn := phonetic(lw)

	best := ""
	bestScore := -1.0
	for _, cand := range bucket {
		if delta := len(cand) - len(lw); delta > maxLenDelta || delta < -maxLenDelta {
			continue
		}
		if cand[0] != lw[0] {
			continue
		}

		score := weightEdit*editSimilarity(lw, cand) +
			weightJaro*matchr.JaroWinkler(lw, cand, false) +
			weightPrefix*prefixCoverage(lw, cand) +
			weightPrior*l.priorWeight(cand)
		if metaIn != "" && metaIn == phonetic(cand) {
			score += weightPhonetic
		}
		if strings.HasPrefix(cand, lw) && editSimilarity(lw, cand) > 0.6 {
			score += autocompleteBonus
		}

		if score > bestScore {
			bestScore = score
			best = cand
		}
	}

	if best == "" || bestScore < acceptScore {
		return "", false
	}
	return l.Canonical(best), true
}

// SnapLine snaps every word of a decoded line. Dropped words leave no
// placeholder. Returns the corrected line plus accept/drop counts.
func (l *Lexicon) SnapLine(text string) (string, int, int) {
	if text == "" {
		return "", 0, 0
	}

	var (
		out              []string
		snapped, dropped int
	)
	for _, w := range strings.Fields(text) {
		fix, ok := l.SnapWord(w)
		if !ok {
			dropped++
			continue
		}
		snapped++
		out = append(out, fix)
	}
	return strings.Join(out, " "), snapped, dropped
}

func phonetic(s string) string {
	primary, _ := matchr.DoubleMetaphone(s)
	return primary
}

// editSimilarity is 1 - normalised Levenshtein distance, in [0,1].
func editSimilarity(a, b string) float64 {
	dist := matchr.Levenshtein(a, b)
	m := len(a)
	if len(b) > m {
		m = len(b)
	}
	if m < 1 {
		m = 1
	}
	return 1 - float64(dist)/float64(m)
}

// prefixCoverage is the shared-prefix length over the shorter word's length.
func prefixCoverage(a, b string) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return float64(i) / float64(n)
}
