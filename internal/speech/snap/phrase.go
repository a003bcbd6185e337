package snap

import "strings"

// phraseAcceptScore is the token-set Dice overlap (scaled to 0..100) a known
// phrase must reach to replace the whole line.
const phraseAcceptScore = 92

// SnapPhrase compares the line's token set against every known phrase and,
// when the best Dice overlap reaches the threshold, replaces the entire line
// with that phrase in canonical casing. Reports whether a replacement
// happened.
func (l *Lexicon) SnapPhrase(text string) (string, bool) {
	if text == "" || len(l.phrases) == 0 {
		return text, false
	}

	lineSet := tokenSet(strings.ToLower(text))

	best := ""
	bestScore := -1.0
	for _, ph := range l.phrases {
		phSet := tokenSet(ph)

		inter := 0
		for w := range lineSet {
			if phSet[w] {
				inter++
			}
		}
		if inter == 0 {
			continue
		}

		score := 100 * 2 * float64(inter) / float64(len(lineSet)+len(phSet))
		if score > bestScore {
			bestScore = score
			best = ph
		}
	}

	if best == "" || bestScore < phraseAcceptScore {
		return text, false
	}

	words := strings.Fields(best)
	for i, w := range words {
		words[i] = l.Canonical(w)
	}
	return strings.Join(words, " "), true
}

// FixLine runs word snapping then phrase snapping, the full correction pass.
// Returns the fixed line plus the word accept/drop counts and whether a
// phrase replacement fired.
func (l *Lexicon) FixLine(text string) (fixed string, snapped, dropped int, phrase bool) {
	fixed, snapped, dropped = l.SnapLine(text)
	fixed, phrase = l.SnapPhrase(fixed)
	return fixed, snapped, dropped, phrase
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
