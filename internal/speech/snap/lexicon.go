// Package snap corrects greedy CTC transcripts against a product lexicon.
// Correction runs in two passes: each decoded word is snapped to its closest
// lexicon word by a blended fuzzy score (or dropped when nothing is close
// enough), then the whole line is compared against known product phrases and
// replaced outright on a strong token overlap.
package snap

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Artifact file names expected under the speech artifact directory.
const (
	canonFile    = "canon_words.json"
	phrasesFile  = "phrases.txt"
	hotwordsFile = "hotwords.json"
	catalogFile  = "catalog.csv"
)

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)

// Lexicon is the immutable correction vocabulary: the known words with their
// canonical casing, the known product phrases, frequency priors and a prefix
// index for fast candidate lookup. Safe for concurrent use after Load.
type Lexicon struct {
	canon    map[string]string   // lower -> canonical casing
	phrases  []string            // lowercased product titles
	priors   map[string]int      // word -> frequency weight
	byPrefix map[string][]string // first prefixKeyLen chars -> bucket
}

// Load reads the lexicon artifacts from dir. canon_words.json, phrases.txt
// and hotwords.json are required; catalog.csv priors are optional.
func Load(dir string) (*Lexicon, error) {
	canonRaw, err := os.ReadFile(filepath.Join(dir, canonFile))
	if err != nil {
		return nil, fmt.Errorf("snap lexicon: %w", err)
	}
	canon := map[string]string{}
	if err := json.Unmarshal(canonRaw, &canon); err != nil {
		return nil, fmt.Errorf("snap lexicon: %s: %w", canonFile, err)
	}

	phrases, err := readPhraseLines(filepath.Join(dir, phrasesFile))
	if err != nil {
		return nil, err
	}

	hotRaw, err := os.ReadFile(filepath.Join(dir, hotwordsFile))
	if err != nil {
		return nil, fmt.Errorf("snap lexicon: %w", err)
	}
	var hotwords []string
	if err := json.Unmarshal(hotRaw, &hotwords); err != nil {
		return nil, fmt.Errorf("snap lexicon: %s: %w", hotwordsFile, err)
	}

	lex := New(canon, phrases, hotwords)

	if raw, err := os.ReadFile(filepath.Join(dir, catalogFile)); err == nil {
		lex.loadCatalogPriors(string(raw))
	}
	return lex, nil
}

// New builds a lexicon from in-memory parts; used by Load and by tests.
func New(canon map[string]string, phrases, hotwords []string) *Lexicon {
	lowered := map[string]string{}
	for k, v := range canon {
		lowered[strings.ToLower(k)] = v
	}

	lex := &Lexicon{
		canon:    lowered,
		phrases:  make([]string, 0, len(phrases)),
		priors:   map[string]int{},
		byPrefix: map[string][]string{},
	}
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lex.phrases = append(lex.phrases, p)
		}
	}

	// The word lexicon is the union of hotword words, phrase words and
	// canon keys, in first-seen order.
	seen := map[string]bool{}
	var words []string
	add := func(w string) {
		if len(w) >= 1 && len(w) <= 40 && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, s := range hotwords {
		for _, w := range splitWords(s) {
			add(w)
		}
	}
	for _, s := range lex.phrases {
		for _, w := range splitWords(s) {
			add(w)
		}
	}
	for k := range lex.canon {
		add(k)
	}

	for _, w := range words {
		key := w
		if len(key) > prefixKeyLen {
			key = key[:prefixKeyLen]
		}
		lex.byPrefix[key] = append(lex.byPrefix[key], w)
	}
	// Short candidates first within a bucket so length-delta pruning exits
	// early; alphabetical within a length for determinism.
	for _, bucket := range lex.byPrefix {
		sort.Slice(bucket, func(i, j int) bool {
			if len(bucket[i]) != len(bucket[j]) {
				return len(bucket[i]) < len(bucket[j])
			}
			return bucket[i] < bucket[j]
		})
	}
	return lex
}

func readPhraseLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snap lexicon: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, strings.ToLower(line))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("snap lexicon: %s: %w", path, err)
	}
	return out, nil
}

// loadCatalogPriors ingests "brand,product title[,frequency]" lines. Brands
// get a fixed boost plus the optional frequency; every product-title word
// gets a small boost. Malformed lines are skipped.
func (l *Lexicon) loadCatalogPriors(csv string) {
	for _, line := range strings.Split(csv, "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		brand := strings.ToLower(strings.TrimSpace(parts[0]))
		product := strings.ToLower(strings.TrimSpace(parts[1]))

		if brand != "" {
			l.priors[brand] += 5
		}
		for _, w := range splitWords(product) {
			l.priors[w]++
		}
		if len(parts) >= 3 && brand != "" {
			var freq int
			if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%d", &freq); err == nil && freq > 0 {
				l.priors[brand] += freq
			}
		}
	}
}

// Canonical returns the canonical casing for a lowercase word, or the word
// itself when it has no canon entry.
func (l *Lexicon) Canonical(w string) string {
	if c, ok := l.canon[w]; ok {
		return c
	}
	if c, ok := l.canon[strings.ToLower(w)]; ok {
		return c
	}
	return w
}

// bucket returns the candidate slice for a lowercase input word.
func (l *Lexicon) bucket(w string) []string {
	key := w
	if len(key) > prefixKeyLen {
		key = key[:prefixKeyLen]
	}
	return l.byPrefix[key]
}

// priorWeight maps a word's catalog frequency to a small 0..0.2 score
// component with diminishing returns.
func (l *Lexicon) priorWeight(w string) float64 {
	f := l.priors[w]
	if f == 0 {
		return 0
	}
	return math.Min(0.2, math.Log1p(float64(f))/10)
}

func splitWords(s string) []string {
	var out []string
	for _, w := range nonAlnumRE.Split(strings.ToLower(s), -1) {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
