package head

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/andrei-vlg/shopmind/internal/nlp/encode"
	"github.com/andrei-vlg/shopmind/internal/onnx"
)

// onnxPredictor implements [Predictor] over an ONNX Runtime session. The
// session is shared across calls; input and output tensors are created per
// call and destroyed on every exit path so concurrent requests never share
// buffers.
type onnxPredictor struct {
	session *ort.DynamicAdvancedSession
	dim     int
}

var _ Predictor = (*onnxPredictor)(nil)

// LoadONNX opens the head model at modelPath and wraps it as a [Head] gated
// on rep matching enc. A load failure is returned to the caller — missing or
// corrupt model artifacts are fatal at startup.
func LoadONNX(name, modelPath, rep string, enc encode.Encoder) (*Head, error) {
	sess, err := onnx.OpenSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("head %s: %w", name, err)
	}
	return New(name, rep, &onnxPredictor{session: sess, dim: enc.Dim()}, enc), nil
}

// Predict runs a (1, D) float32 batch through the session and returns the
// flattened logits row.
func (p *onnxPredictor) Predict(vec []float32) ([]float32, error) {
	input, err := ort.NewTensor(ort.NewShape(1, int64(len(vec))), vec)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := p.session.Run([]ort.Value{input}, outputs); err != nil {
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

	// Output is (1, C) or (C); either way the data is a single row.
	data := logitsT.GetData()
	out := make([]float32, len(data))
	copy(out, data)
	return out, nil
}

// Close destroys the session.
func (p *onnxPredictor) Close() error {
	if p.session != nil {
		p.session.Destroy()
		p.session = nil
	}
	return nil
}
