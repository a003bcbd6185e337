// Package rules is the deterministic fallback classifier used whenever a
// model head is not usable. The intent cascade is an ordered data table of
// (name, patterns, intent) rules rather than a branch ladder, so priority is
// visible in one place and each rule can be tested in isolation.
//
// A Router is immutable after [New] and safe for concurrent use. All inputs
// are expected to be pre-normalized with [encode.Normalize]; the router does
// not normalize again.
package rules

import (
	"regexp"
	"strings"

	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

// rule pairs a keyword/pattern set with the intent it routes to.
type rule struct {
	name     string
	patterns []*regexp.Regexp
	intent   lexicon.Intent
}

// pats compiles a list of case-insensitive patterns. Plain keywords and small
// regexes are both accepted; the sets mix English and Romanian cues.
func pats(xs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(xs))
	for i, x := range xs {
		out[i] = regexp.MustCompile("(?i)" + x)
	}
	return out
}

// intentCascade is the fixed-priority rule table. Order is the routing
// priority: the first rule with any matching pattern wins.
var intentCascade = []rule{
	{
		name: "admin",
		patterns: pats("admin", "administrator", "human", "agent", "operator",
			"asistenta", "suport", "vorbesc cu un om", "contact.*admin"),
		intent: lexicon.IntentAdmin,
	},
	{
		name:     "logout",
		patterns: pats("log out", "logout", "sign out", "delogare", "deconecteaz", "iesire cont", "ies din cont"),
		intent:   lexicon.IntentLogout,
	},
	{
		name:     "login",
		patterns: pats("log in", "login", "sign in", "autentificare", "conecteaz", "conectare", "ma loghez"),
		intent:   lexicon.IntentLogin,
	},
	{
		name:     "register",
		patterns: pats("register", "sign up", "create account", "inregistrare", "creeaza cont", "cont nou"),
		intent:   lexicon.IntentRegister,
	},
	{
		name:     "voice",
		patterns: pats("voice", "microfon", "cautare vocala", "comanda vocala", "dictat"),
		intent:   lexicon.IntentVoice,
	},
	{
		name:     "order",
		patterns: pats("order status", "order", "comanda", "livrare", "retur", "anuleaza", "tracking", "unde.*pachet"),
		intent:   lexicon.IntentOrder,
	},
}

var (
	brandVerbs    = pats("brand", "marca", "filter", "filtreaz", "doar", "numai", "arata", "show")
	categoryVerbs = pats("find", "search", "show", "caut", "gaseste", "vreau", "ajuta")
)

// Router routes normalized text to an intent or a category code using
// keyword rules and category synonym scoring.
type Router struct {
	cats     []lexicon.Category
	synonyms [][]string // per category, lowercased trimmed synonyms
	brandRes []*regexp.Regexp
	wordRes  map[string]*regexp.Regexp // single-word synonym -> boundary regex
}

// New builds a Router over the catalog. cats must be in catalog order —
// synonym score ties break in favour of the first-defined category.
func New(cats []lexicon.Category) *Router {
	r := &Router{
		cats:    cats,
		wordRes: make(map[string]*regexp.Regexp),
	}

	r.synonyms = make([][]string, len(cats))
	for i, c := range cats {
		syns := make([]string, 0, len(c.Synonyms))
		for _, s := range c.Synonyms {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			syns = append(syns, s)
			if !strings.Contains(s, " ") {
				if _, ok := r.wordRes[s]; !ok {
					r.wordRes[s] = boundaryRE(s)
				}
			}
		}
		r.synonyms[i] = syns
	}

	for _, b := range lexicon.Brands() {
		r.brandRes = append(r.brandRes, boundaryRE(b))
	}
	return r
}

func boundaryRE(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

// RouteIntent walks the cascade over normalized text:
//
//  1. the fixed-priority keyword rules (admin first),
//  2. REQUEST_BRAND when a brand token appears next to a brand verb cue,
//  3. CATEGORY when a best-scoring category exists and either a category verb
//     cue is present or the category has a direct synonym hit,
//  4. REQUEST_BRAND on a bare brand mention,
//  5. CATEGORY as the default.
func (r *Router) RouteIntent(text string) lexicon.Intent {
	for _, rl := range intentCascade {
		if anyMatch(rl.patterns, text) {
			return rl.intent
		}
	}

	hasBrand := r.containsBrand(text)
	if hasBrand && anyMatch(brandVerbs, text) {
		return lexicon.IntentRequestBrand
	}

	if idx, score := r.bestCategory(text); score > 0 {
		if anyMatch(categoryVerbs, text) || r.hitCount(text, idx) > 0 {
			return lexicon.IntentCategory
		}
	}

	if hasBrand {
		return lexicon.IntentRequestBrand
	}
	return lexicon.IntentCategory
}

// RouteCategory returns the best-scoring category code for normalized text.
// When no synonym matches at all, a handful of hard-coded keyword guesses
// cover the most common product families before falling back to the first
// catalog entry.
func (r *Router) RouteCategory(text string) string {
	if idx, score := r.bestCategory(text); score > 0 {
		return r.cats[idx].Code
	}

	switch {
	case containsAny(text, "headphon", "earbud", "casti", "boxe"):
		return r.guessByLabel("AUDIO")
	case containsAny(text, "camera", "dslr", "mirrorless"):
		return r.guessByLabel("CAMERA")
	case containsAny(text, "phone", "smartphone", "telefon"):
		return r.guessByLabel("SMARTPHONE")
	}
	return r.cats[0].Code
}

// bestCategory scores every category: +3 per multi-word synonym phrase
// literally contained in text, +1 per single-word synonym matched on a word
// boundary. Only a strictly higher score replaces the current leader, so
// equal scores resolve to the category defined first in the catalog.
func (r *Router) bestCategory(text string) (idx, score int) {
	best, bestIdx := 0, -1
	for i := range r.cats {
		s := r.score(text, i)
		if s > best {
			best, bestIdx = s, i
		}
	}
	return bestIdx, best
}

func (r *Router) score(text string, idx int) int {
	s := 0
	for _, syn := range r.synonyms[idx] {
		if strings.Contains(syn, " ") {
			if strings.Contains(text, syn) {
				s += 3
			}
		} else if r.wordRes[syn].MatchString(text) {
			s++
		}
	}
	return s
}

// hitCount counts direct synonym hits (phrase or word) for one category.
func (r *Router) hitCount(text string, idx int) int {
	n := 0
	for _, syn := range r.synonyms[idx] {
		if strings.Contains(syn, " ") {
			if strings.Contains(text, syn) {
				n++
			}
		} else if r.wordRes[syn].MatchString(text) {
			n++
		}
	}
	return n
}

func (r *Router) containsBrand(text string) bool {
	for _, re := range r.brandRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// guessByLabel finds the first category whose label (then code) contains
// part, falling back to the first catalog entry.
func (r *Router) guessByLabel(part string) string {
	up := strings.ToUpper(part)
	for _, c := range r.cats {
		if strings.Contains(strings.ToUpper(c.Label), up) {
			return c.Code
		}
	}
	for _, c := range r.cats {
		if strings.Contains(strings.ToUpper(c.Code), up) {
			return c.Code
		}
	}
	return r.cats[0].Code
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
