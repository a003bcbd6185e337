package encode

import (
	"context"
	"crypto/md5"
	"math"
	"math/big"
	"regexp"

	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

// wordRE extracts word tokens after Normalize; everything outside [a-z0-9]
// is a separator.
var wordRE = regexp.MustCompile(`[a-z0-9]+`)

// Hashed is the hashed n-gram feature encoder. It mirrors the offline
// trainer's feature extraction exactly: word tokens minus stop words,
// optional adjacent-word bigrams, optional character n-grams over a padded
// "^text$" window, optional brand tokens, each hashed into one of Dim buckets
// with a weighted count, followed by an elementwise log1p or sqrt transform.
//
// Bucket assignment uses MD5 — a stable digest, not Go's per-process map
// hash — so a token maps to the same bucket in every run of every process.
// Hashed is stateless per call and safe for concurrent use.
type Hashed struct {
	dim        int
	useBigrams bool
	useChar    bool
	charMin    int
	charMax    int
	charWeight float32
	brandWt    float32
	transform  string
}

var _ Encoder = (*Hashed)(nil)

// NewHashed builds a hashed encoder from trainer metadata.
func NewHashed(meta lexicon.EncoderMeta) *Hashed {
	return &Hashed{
		dim:        meta.InputDim,
		useBigrams: meta.UseBigrams,
		useChar:    meta.UseCharNgrams,
		charMin:    meta.CharNMin,
		charMax:    meta.CharNMax,
		charWeight: float32(meta.CharWeight),
		brandWt:    float32(meta.BrandWeight),
		transform:  meta.Transform,
	}
}

func (h *Hashed) Kind() Kind { return KindHashed }
func (h *Hashed) Dim() int   { return h.dim }

// Encode produces the feature vector for text. The ctx parameter is unused —
// hashing is pure CPU work — but kept to satisfy [Encoder].
func (h *Hashed) Encode(_ context.Context, raw string) ([]float32, error) {
	text := Normalize(raw)
	words := wordRE.FindAllString(text, -1)

	vec := make([]float32, h.dim)

	for _, w := range words {
		if lexicon.IsStopWord(w) {
			continue
		}
		vec[h.bucket(w)]++
	}

	if h.useBigrams && len(words) >= 2 {
		for i := 0; i < len(words)-1; i++ {
			vec[h.bucket(words[i]+"__"+words[i+1])]++
		}
	}

	if h.useChar {
		padded := "^" + text + "$"
		for n := h.charMin; n <= h.charMax; n++ {
			if len(padded) < n {
				break
			}
			for i := 0; i+n <= len(padded); i++ {
				vec[h.bucket("ch:"+padded[i:i+n])] += h.charWeight
			}
		}
	}

	if h.brandWt > 0 {
		for _, w := range words {
			if lexicon.IsBrand(w) {
				vec[h.bucket("br:"+w)] += h.brandWt
			}
		}
	}

	switch h.transform {
	case "log1p":
		for i, v := range vec {
			vec[i] = float32(math.Log1p(float64(v)))
		}
	case "sqrt":
		for i, v := range vec {
			vec[i] = float32(math.Sqrt(float64(v)))
		}
	}

	return vec, nil
}

// bucket maps a token to its hash bucket: the full MD5 digest interpreted as
// an unsigned big-endian integer, modulo Dim. Matches the trainer's bucket
// function bit for bit.
func (h *Hashed) bucket(token string) int {
	sum := md5.Sum([]byte(token))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(int64(h.dim))).Int64())
}
