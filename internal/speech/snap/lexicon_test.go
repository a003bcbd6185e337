package snap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/speech/snap"
)

func writeArtifacts(t *testing.T, withCatalog bool) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"canon_words.json": `{"iphone": "iPhone", "galaxy": "Galaxy", "samsung": "Samsung"}`,
		"phrases.txt":      "Samsung Galaxy S24\n\niPhone 15 Pro\n",
		"hotwords.json":    `["samsung", "galaxy", "iphone"]`,
	}
	if withCatalog {
		files["catalog.csv"] = "Samsung,Galaxy S24,50\nApple,iPhone 15 Pro\nmalformed line\n"
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	t.Parallel()
	lex, err := snap.Load(writeArtifacts(t, true))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Phrases are lowercased on load and re-cased through the canon map.
	got, replaced := lex.SnapPhrase("samsung galaxy s24")
	if !replaced {
		t.Fatal("SnapPhrase: want exact phrase replacement")
	}
	if got != "Samsung Galaxy s24" {
		t.Errorf("SnapPhrase = %q, want %q", got, "Samsung Galaxy s24")
	}

	if c := lex.Canonical("iphone"); c != "iPhone" {
		t.Errorf("Canonical(iphone) = %q, want iPhone", c)
	}
	if c := lex.Canonical("nocanon"); c != "nocanon" {
		t.Errorf("Canonical(nocanon) = %q, want passthrough", c)
	}
}

func TestLoad_CatalogIsOptional(t *testing.T) {
	t.Parallel()
	if _, err := snap.Load(writeArtifacts(t, false)); err != nil {
		t.Fatalf("load without catalog.csv: %v", err)
	}
}

func TestLoad_MissingRequiredFileFails(t *testing.T) {
	t.Parallel()
	dir := writeArtifacts(t, false)
	os.Remove(filepath.Join(dir, "hotwords.json"))

	if _, err := snap.Load(dir); err == nil {
		t.Fatal("want error for missing hotwords.json, got nil")
	}
}
