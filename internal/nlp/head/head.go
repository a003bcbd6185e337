// Package head wraps a trained classifier head: a model that maps an encoded
// feature vector to a probability distribution over a label space.
//
// The critical invariant is the usable gate. At construction a head is paired
// with the representation it was trained on ("hashed" or "transformer") and
// with the concrete encoder instance the service built. The head is usable
// only when the two agree; the flag is computed once and never re-derived, so
// routing decisions stay consistent for the whole process lifetime. An
// unusable head is never invoked — the orchestrator falls back to the rule
// router instead.
package head

import (
	"fmt"
	"math"

	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
)

// Predictor runs one forward pass of the underlying model. Implementations
// must be safe for concurrent use; per-call buffers are the implementation's
// responsibility.
type Predictor interface {
	// Predict maps a feature vector to raw logits, one per label.
	Predict(vec []float32) ([]float32, error)

	// Close releases model resources.
	Close() error
}

// Head is a loaded classifier head plus its usability verdict.
type Head struct {
	name   string
	rep    string
	pred   Predictor
	usable bool
}

// New pairs a predictor with its declared training representation and the
// encoder that will feed it, computing the usable flag once.
//
// rep must be "hashed" or "transformer". The flag is true only when rep
// equals the encoder's concrete kind; an [encode.KindUnavailable] encoder can
// never satisfy either representation.
func New(name, rep string, pred Predictor, enc encode.Encoder) *Head {
	return &Head{
		name:   name,
		rep:    rep,
		pred:   pred,
		usable: encode.Kind(rep) == enc.Kind(),
	}
}

// Name returns the head's label-space name ("intent" or "category").
func (h *Head) Name() string { return h.name }

// Usable reports whether this head may be invoked for inference. The value is
// fixed at construction time.
func (h *Head) Usable() bool { return h.usable }

// Top1 runs the head on an encoded vector and returns the index of the most
// probable label together with its softmax probability.
//
// Callers must check [Head.Usable] first; invoking an unusable head is a
// programming error and returns an error rather than a prediction.
func (h *Head) Top1(vec []float32) (int, float32, error) {
	if !h.usable {
		return 0, 0, fmt.Errorf("head %s: invoked while unusable (trained on %s)", h.name, h.rep)
	}
	logits, err := h.pred.Predict(vec)
	if err != nil {
		return 0, 0, fmt.Errorf("head %s: predict: %w", h.name, err)
	}
	if len(logits) == 0 {
		return 0, 0, fmt.Errorf("head %s: empty logits", h.name)
	}

	probs := softmax(logits)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, probs[best], nil
}

// Close releases the underlying model.
func (h *Head) Close() error {
	if h.pred == nil {
		return nil
	}
	return h.pred.Close()
}

// softmax converts logits to probabilities with the usual max-subtraction for
// numerical stability.
func softmax(logits []float32) []float32 {
	maxv := logits[0]
	for _, v := range logits[1:] {
		if v > maxv {
			maxv = v
		}
	}
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxv))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}
