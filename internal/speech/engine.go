// Package speech turns WAV audio into corrected transcripts: strict format
// gate, acoustic model inference, greedy CTC decoding and lexicon snapping.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/andrei-vlg/shopmind/internal/observe"
	"github.com/andrei-vlg/shopmind/internal/onnx"
	"github.com/andrei-vlg/shopmind/internal/speech/snap"
	"github.com/andrei-vlg/shopmind/pkg/audio"
)

// ErrBadAudio wraps every input validation failure so callers can map them
// to a client error instead of a server fault.
var ErrBadAudio = errors.New("speech: bad audio input")

// AcousticModel produces per-frame token logits for a mono 16 kHz sample
// buffer. Implementations must be safe for concurrent use.
type AcousticModel interface {
	// Infer returns a [frames][vocab] logit matrix for the samples.
	Infer(ctx context.Context, samples []float32) ([][]float32, error)
	Close() error
}

// Transcription is the result of one transcribe call. Greedy is the raw CTC
// decode, Fixed the lexicon-corrected line.
type Transcription struct {
	Greedy  string `json:"greedy"`
	Fixed   string `json:"fixed"`
	IOMs    int64  `json:"io_ms"`
	ModelMs int64  `json:"model_ms"`
}

// Service is the speech correction engine. Immutable after construction and
// safe for concurrent use.
type Service struct {
	model   AcousticModel
	tokens  *TokenTable
	lexicon *snap.Lexicon
	metrics *observe.Metrics
}

// NewService wires an acoustic model, its token table and the correction
// lexicon. metrics may be nil, in which case the process default is used.
func NewService(model AcousticModel, tokens *TokenTable, lexicon *snap.Lexicon, metrics *observe.Metrics) *Service {
	if metrics == nil {
		metrics = observe.Default()
	}
	return &Service{model: model, tokens: tokens, lexicon: lexicon, metrics: metrics}
}

// Transcribe decodes wavBytes, runs inference and returns both the greedy
// and the corrected transcript with coarse timing. The WAV gate rejects
// anything that is not 16 kHz mono PCM16LE before the model runs.
func (s *Service) Transcribe(ctx context.Context, wavBytes []byte) (*Transcription, error) {
	start := time.Now()
	defer observe.RecordDuration(ctx, s.metrics.TranscribeDuration, start)

	samples, err := audio.DecodePCM16Mono16k(wavBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadAudio, err)
	}
	ioDone := time.Now()

	logits, err := s.model.Infer(ctx, samples)
	if err != nil {
		return nil, fmt.Errorf("speech: inference: %w", err)
	}

	greedy := decodeGreedy(logits, s.tokens)
	fixed, snapped, dropped, phrase := s.lexicon.FixLine(greedy)

	s.metrics.WordsSnapped.Add(ctx, int64(snapped))
	s.metrics.WordsDropped.Add(ctx, int64(dropped))
	if phrase {
		s.metrics.PhraseSnaps.Add(ctx, 1)
	}
	if dropped > 0 {
		slog.Debug("dropped out-of-lexicon words", "count", dropped, "greedy", greedy)
	}

	modelDone := time.Now()
	return &Transcription{
		Greedy:  greedy,
		Fixed:   fixed,
		IOMs:    ioDone.Sub(start).Milliseconds(),
		ModelMs: modelDone.Sub(ioDone).Milliseconds(),
	}, nil
}

// Close releases the acoustic model.
func (s *Service) Close() error {
	return s.model.Close()
}

// onnxModel is the production [AcousticModel] over an ONNX Runtime session.
type onnxModel struct {
	session *ort.DynamicAdvancedSession
	vocab   int
}

var _ AcousticModel = (*onnxModel)(nil)

// LoadONNXModel opens the acoustic model at modelPath. vocabSize is the token
// table size, used to fold the flat output tensor back into frames.
func LoadONNXModel(modelPath string, vocabSize int) (AcousticModel, error) {
	sess, err := onnx.OpenSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	return &onnxModel{session: sess, vocab: vocabSize}, nil
}

// Infer runs a (1, T) waveform through the model. The output is (1, L, V) or
// (L, V) logits; batch one either way, reshaped into L rows of V.
func (m *onnxModel) Infer(ctx context.Context, samples []float32) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(samples))), samples)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := m.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	logitsT, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}

	data := logitsT.GetData()
	if m.vocab <= 0 || len(data)%m.vocab != 0 {
		return nil, fmt.Errorf("logit count %d not divisible by vocab size %d", len(data), m.vocab)
	}

	frames := len(data) / m.vocab
	out := make([][]float32, frames)
	for i := range out {
		row := make([]float32, m.vocab)
		copy(row, data[i*m.vocab:(i+1)*m.vocab])
		out[i] = row
	}
	return out, nil
}

func (m *onnxModel) Close() error {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	return nil
}
