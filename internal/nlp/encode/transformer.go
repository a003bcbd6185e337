package encode

import (
	"context"
	"fmt"

	"github.com/andrei-vlg/shopmind/internal/nlp/encode/embed"
	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

// Transformer delegates encoding to an external embedding model and fits the
// result to the dimension the head was trained on (truncating or
// zero-padding). It is safe for concurrent use.
type Transformer struct {
	client *embed.Client
	dim    int
}

var _ Encoder = (*Transformer)(nil)

// NewTransformer wraps an embedding client as an Encoder with the declared
// output dimension.
func NewTransformer(client *embed.Client, dim int) (*Transformer, error) {
	if client == nil {
		return nil, fmt.Errorf("encode: transformer requires an embedding client")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("encode: transformer dimension %d is invalid", dim)
	}
	return &Transformer{client: client, dim: dim}, nil
}

func (t *Transformer) Kind() Kind { return KindTransformer }
func (t *Transformer) Dim() int   { return t.dim }

// Encode embeds text and resizes the vector to Dim.
func (t *Transformer) Encode(ctx context.Context, text string) ([]float32, error) {
	v, err := t.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(v) == t.dim {
		return v, nil
	}
	out := make([]float32, t.dim)
	copy(out, v)
	return out, nil
}

// Build constructs the encoder declared by meta.
//
// For the "transformer" representation a missing or broken embedding backend
// yields an [Unavailable] encoder rather than an error: the mismatch is
// non-fatal, the paired head is simply never usable and requests fall back to
// the rule router. A hashed representation never fails to build.
func Build(meta lexicon.EncoderMeta, client *embed.Client) Encoder {
	if meta.Representation == string(KindTransformer) {
		enc, err := NewTransformer(client, meta.InputDim)
		if err != nil {
			return NewUnavailable(fmt.Errorf("transformer encoder unavailable: %w", err))
		}
		return enc
	}
	return NewHashed(meta)
}
