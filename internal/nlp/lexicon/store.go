// Package lexicon loads the immutable label spaces and category catalog the
// classifier operates over: the ordered intent id list, the category id list,
// the full category definitions with their synonyms, and the encoder metadata
// each model head was trained with.
//
// Everything in this package is loaded exactly once at startup and is
// read-only afterwards, so a [Store] may be shared freely between goroutines
// without locking.
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside the NLP artifact directory. These names are
// produced by the offline trainer and are not configurable.
const (
	fileIntentIDs    = "id2intent.json"
	fileCategoryIDs  = "id2category.json"
	fileCategories   = "categories.json"
	fileIntentMeta   = "intent_meta.json"
	fileCategoryMeta = "category_meta.json"
)

// Category is a single entry of the product category catalog.
type Category struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Link     string   `json:"link,omitempty"`
	Synonyms []string `json:"synonyms"`
}

// EncoderMeta describes the feature representation a model head was trained
// on. It is stored next to the head by the trainer and must be interpreted
// identically at inference time — the usable gate in the head package compares
// Representation against the concrete encoder kind.
type EncoderMeta struct {
	Representation string  `json:"representation"`
	InputDim       int     `json:"input_dim"`
	UseBigrams     bool    `json:"use_bigrams"`
	UseCharNgrams  bool    `json:"use_char_ngrams"`
	CharNMin       int     `json:"char_nmin"`
	CharNMax       int     `json:"char_nmax"`
	CharWeight     float64 `json:"char_weight"`
	BrandWeight    float64 `json:"brand_weight"`
	Transform      string  `json:"transform"`

	// Transformer is the embedding model id used when Representation is
	// "transformer" (e.g. "paraphrase-multilingual-minilm").
	Transformer string `json:"transformer,omitempty"`
}

// applyDefaults fills zero-valued fields with the trainer's defaults so that
// older metadata files keep working.
func (m *EncoderMeta) applyDefaults() {
	if m.Representation == "" {
		m.Representation = "hashed"
	}
	if m.InputDim == 0 {
		m.InputDim = 8192
	}
	if m.CharNMin == 0 {
		m.CharNMin = 3
	}
	if m.CharNMax == 0 {
		m.CharNMax = 6
	}
	if m.CharWeight == 0 {
		m.CharWeight = 0.9
	}
	if m.Transform == "" {
		m.Transform = "log1p"
	}
}

// Store holds the frozen label spaces and category catalog.
type Store struct {
	// IntentIDs is the ordered intent label space: head output index i maps to
	// intent code IntentIDs[i].
	IntentIDs []Intent

	// CategoryIDs is the ordered category label space: head output index i
	// maps to category code CategoryIDs[i].
	CategoryIDs []string

	// Categories is the catalog in definition order. The order is significant:
	// the rule router iterates it when scoring synonyms, making the
	// first-defined category win score ties deterministically.
	Categories []Category

	IntentMeta   EncoderMeta
	CategoryMeta EncoderMeta

	byCode map[string]int
}

// Load reads all label artifacts from dir. Any missing or malformed file is
// an error — callers treat that as fatal, the classifier must not start with
// a partial label space.
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := readJSONFile(filepath.Join(dir, fileIntentIDs), &s.IntentIDs); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if err := readJSONFile(filepath.Join(dir, fileCategoryIDs), &s.CategoryIDs); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if err := readJSONFile(filepath.Join(dir, fileCategories), &s.Categories); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if err := readJSONFile(filepath.Join(dir, fileIntentMeta), &s.IntentMeta); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if err := readJSONFile(filepath.Join(dir, fileCategoryMeta), &s.CategoryMeta); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	s.IntentMeta.applyDefaults()
	s.CategoryMeta.applyDefaults()

	if len(s.IntentIDs) == 0 {
		return nil, fmt.Errorf("lexicon: %s is empty", fileIntentIDs)
	}
	if len(s.Categories) == 0 {
		return nil, fmt.Errorf("lexicon: %s is empty", fileCategories)
	}

	s.byCode = make(map[string]int, len(s.Categories))
	for i, c := range s.Categories {
		if c.Code == "" {
			return nil, fmt.Errorf("lexicon: categories[%d] has no code", i)
		}
		if _, dup := s.byCode[c.Code]; dup {
			return nil, fmt.Errorf("lexicon: duplicate category code %q", c.Code)
		}
		s.byCode[c.Code] = i
	}
	return s, nil
}

// Category looks up a catalog entry by code. When the code is unknown a
// minimal placeholder entry is returned with ok=false, so a head output that
// drifted from the catalog still yields a well-formed response.
func (s *Store) Category(code string) (Category, bool) {
	if i, ok := s.byCode[code]; ok {
		return s.Categories[i], true
	}
	return Category{Code: code, Label: code}, false
}

// FirstCategoryCode returns the first catalog code. It is the deterministic
// last-resort answer for category routing and the low-confidence default when
// the category head fails at predict time.
func (s *Store) FirstCategoryCode() string {
	return s.Categories[0].Code
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
