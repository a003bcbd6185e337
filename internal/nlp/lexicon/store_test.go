package lexicon_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

func writeArtifacts(t *testing.T, categories []lexicon.Category) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]any{
		"id2intent.json":     []int{0, 1, 2, 3, 4, 5, 6, 7},
		"id2category.json":   []string{"LAPTOP", "AUDIO"},
		"categories.json":    categories,
		"intent_meta.json":   map[string]any{},
		"category_meta.json": map[string]any{"representation": "transformer", "input_dim": 384},
	}
	for name, v := range files {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func defaultCatalog() []lexicon.Category {
	return []lexicon.Category{
		{Code: "LAPTOP", Label: "Laptops", Synonyms: []string{"laptop"}},
		{Code: "AUDIO", Label: "Audio", Synonyms: []string{"headphones"}},
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := writeArtifacts(t, defaultCatalog())

	s, err := lexicon.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(s.IntentIDs) != 8 {
		t.Errorf("IntentIDs = %d entries, want 8", len(s.IntentIDs))
	}
	if s.IntentIDs[3] != lexicon.IntentAdmin {
		t.Errorf("IntentIDs[3] = %v, want ADMIN", s.IntentIDs[3])
	}
	if got := s.FirstCategoryCode(); got != "LAPTOP" {
		t.Errorf("FirstCategoryCode = %q, want LAPTOP", got)
	}

	cat, ok := s.Category("AUDIO")
	if !ok || cat.Label != "Audio" {
		t.Errorf("Category(AUDIO) = %+v ok=%v", cat, ok)
	}
	// Unknown codes produce a usable placeholder.
	cat, ok = s.Category("GHOST")
	if ok {
		t.Error("Category(GHOST) ok = true, want false")
	}
	if cat.Code != "GHOST" || cat.Label != "GHOST" {
		t.Errorf("placeholder = %+v, want code/label GHOST", cat)
	}
}

func TestLoad_AppliesEncoderDefaults(t *testing.T) {
	t.Parallel()
	s, err := lexicon.Load(writeArtifacts(t, defaultCatalog()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Empty intent metadata fills with the trainer defaults.
	m := s.IntentMeta
	if m.Representation != "hashed" || m.InputDim != 8192 || m.Transform != "log1p" {
		t.Errorf("intent defaults = %+v", m)
	}
	if m.CharNMin != 3 || m.CharNMax != 6 || m.CharWeight != 0.9 {
		t.Errorf("char n-gram defaults = %+v", m)
	}

	// Explicit category metadata is preserved.
	if s.CategoryMeta.Representation != "transformer" || s.CategoryMeta.InputDim != 384 {
		t.Errorf("category meta = %+v", s.CategoryMeta)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()
	dir := writeArtifacts(t, defaultCatalog())
	os.Remove(filepath.Join(dir, "categories.json"))

	if _, err := lexicon.Load(dir); err == nil {
		t.Fatal("want error for missing artifact, got nil")
	}
}

func TestLoad_DuplicateCategoryCodeFails(t *testing.T) {
	t.Parallel()
	dir := writeArtifacts(t, []lexicon.Category{
		{Code: "LAPTOP", Label: "Laptops"},
		{Code: "LAPTOP", Label: "Laptops again"},
	})
	if _, err := lexicon.Load(dir); err == nil {
		t.Fatal("want error for duplicate category code, got nil")
	}
}

func TestIntentString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   lexicon.Intent
		want string
	}{
		{lexicon.IntentCategory, "CATEGORY"},
		{lexicon.IntentAdmin, "ADMIN"},
		{lexicon.IntentRequestBrand, "REQUEST_BRAND"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Intent(%d).String() = %q, want %q", int(tt.in), got, tt.want)
		}
	}
	if lexicon.Intent(42).IsValid() {
		t.Error("Intent(42).IsValid() = true, want false")
	}
}
