package head_test

import (
	"errors"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
	"github.com/andrei-vlg/shopmind/internal/nlp/head"
	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

type stubPredictor struct {
	logits []float32
	err    error
	calls  int
}

func (p *stubPredictor) Predict([]float32) ([]float32, error) {
	p.calls++
	return p.logits, p.err
}
func (p *stubPredictor) Close() error { return nil }

func hashedEncoder() encode.Encoder {
	return encode.NewHashed(lexicon.EncoderMeta{Representation: "hashed", InputDim: 64})
}

func TestUsableGate(t *testing.T) {
	t.Parallel()
	enc := hashedEncoder()

	tests := []struct {
		rep  string
		want bool
	}{
		{"hashed", true},
		{"transformer", false},
		{"", false},
	}
	for _, tt := range tests {
		h := head.New("intent", tt.rep, &stubPredictor{}, enc)
		if got := h.Usable(); got != tt.want {
			t.Errorf("rep %q with hashed encoder: Usable() = %v, want %v", tt.rep, got, tt.want)
		}
	}
}

func TestUsableGate_UnavailableEncoderNeverUsable(t *testing.T) {
	t.Parallel()
	enc := encode.NewUnavailable(errors.New("backend missing"))
	for _, rep := range []string{"hashed", "transformer"} {
		h := head.New("category", rep, &stubPredictor{}, enc)
		if h.Usable() {
			t.Errorf("rep %q with unavailable encoder: Usable() = true, want false", rep)
		}
	}
}

func TestTop1_ArgmaxAndProbability(t *testing.T) {
	t.Parallel()
	pred := &stubPredictor{logits: []float32{1, 4, 2, 4.5}}
	h := head.New("intent", "hashed", pred, hashedEncoder())

	idx, prob, err := h.Top1(make([]float32, 64))
	if err != nil {
		t.Fatalf("Top1: %v", err)
	}
	if idx != 3 {
		t.Errorf("idx = %d, want 3", idx)
	}
	if prob <= 0 || prob >= 1 {
		t.Errorf("prob = %v, want a proper probability", prob)
	}
}

func TestTop1_UnusableHeadErrorsWithoutPredicting(t *testing.T) {
	t.Parallel()
	pred := &stubPredictor{logits: []float32{1}}
	h := head.New("intent", "transformer", pred, hashedEncoder())

	if _, _, err := h.Top1(make([]float32, 64)); err == nil {
		t.Fatal("Top1 on unusable head: want error, got nil")
	}
	if pred.calls != 0 {
		t.Errorf("predictor called %d times, want 0", pred.calls)
	}
}

func TestTop1_PredictErrorPropagates(t *testing.T) {
	t.Parallel()
	h := head.New("intent", "hashed", &stubPredictor{err: errors.New("boom")}, hashedEncoder())
	if _, _, err := h.Top1(make([]float32, 64)); err == nil {
		t.Fatal("want predict error, got nil")
	}
}

func TestTop1_EmptyLogits(t *testing.T) {
	t.Parallel()
	h := head.New("intent", "hashed", &stubPredictor{logits: nil}, hashedEncoder())
	if _, _, err := h.Top1(make([]float32, 64)); err == nil {
		t.Fatal("want error for empty logits, got nil")
	}
}
