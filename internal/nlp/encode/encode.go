// Package encode turns normalized user text into the fixed-length numeric
// vectors the model heads consume.
//
// Two working representations exist — hashed n-gram features and transformer
// embeddings — plus an explicit Unavailable kind for the case where the
// embedding backend could not be constructed. The kind is a tagged value the
// head package inspects exactly once at startup: a head is only usable when
// the encoder kind matches the representation the head was trained on, and a
// hashed vector is never fed to a transformer head (or vice versa) to paper
// over a missing backend.
package encode

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies the concrete feature representation of an Encoder.
type Kind string

const (
	KindHashed      Kind = "hashed"
	KindTransformer Kind = "transformer"

	// KindUnavailable marks an encoder whose backend failed to initialise.
	// Encode always fails and no head can ever be usable with it.
	KindUnavailable Kind = "unavailable"
)

// Encoder converts text into a fixed-length feature vector.
//
// Encoding must be deterministic: for a fixed configuration the same text
// yields the same vector on every call and across process restarts.
// Implementations must be safe for concurrent use.
type Encoder interface {
	// Encode returns a vector of length Dim for the given raw text.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Kind reports the representation this encoder produces.
	Kind() Kind

	// Dim returns the fixed output dimension.
	Dim() int
}

// Normalize lowercases text, folds diacritics to their ASCII base letters and
// collapses runs of whitespace. It is applied before tokenisation everywhere
// (encoders and rule router) so both paths see identical input.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// NFD decomposition followed by stripping combining marks folds the
	// Romanian diacritics (ă â î ș ț) the catalog and keyword sets contain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Join(strings.Fields(s), " ")
}

// Unavailable is the tagged stand-in for an encoder whose backend could not
// be constructed. It remembers why, so the startup log can say what happened.
type Unavailable struct {
	reason error
}

var _ Encoder = (*Unavailable)(nil)

// NewUnavailable wraps the construction error of a failed encoder backend.
func NewUnavailable(reason error) *Unavailable {
	return &Unavailable{reason: reason}
}

// Encode always fails; the head gate guarantees it is never reached in
// request handling.
func (u *Unavailable) Encode(context.Context, string) ([]float32, error) {
	return nil, u.reason
}

func (u *Unavailable) Kind() Kind { return KindUnavailable }
func (u *Unavailable) Dim() int   { return 0 }

// Reason returns the construction error that made the encoder unavailable.
func (u *Unavailable) Reason() error { return u.reason }
