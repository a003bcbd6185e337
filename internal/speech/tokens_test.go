package speech_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/speech"
)

func TestLoadTokenTable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stt_vocab.json")
	vocab := `{"id2token": {"0": "<blank>", "1": "|", "2": "a", "5": "b"}, "blank_id": 0}`
	if err := os.WriteFile(path, []byte(vocab), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := speech.LoadTokenTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := tbl.Size(); got != 6 {
		t.Errorf("Size() = %d, want 6 (max id + 1)", got)
	}
	if got := tbl.Blank(); got != 0 {
		t.Errorf("Blank() = %d, want 0", got)
	}
	// The blank id maps to the empty string even when the file names it.
	if got := tbl.Token(0); got != "" {
		t.Errorf("Token(0) = %q, want empty", got)
	}
	if got := tbl.Token(2); got != "a" {
		t.Errorf("Token(2) = %q, want a", got)
	}
	// Unmapped and out-of-range ids resolve to empty.
	if got := tbl.Token(3); got != "" {
		t.Errorf("Token(3) = %q, want empty", got)
	}
	if got := tbl.Token(99); got != "" {
		t.Errorf("Token(99) = %q, want empty", got)
	}
}

func TestLoadTokenTable_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := speech.LoadTokenTable(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("want error for missing file")
	}

	empty := filepath.Join(dir, "empty.json")
	os.WriteFile(empty, []byte(`{"id2token": {}, "blank_id": 0}`), 0o644)
	if _, err := speech.LoadTokenTable(empty); err == nil {
		t.Error("want error for empty id2token")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"id2token": {"x": "a"}, "blank_id": 0}`), 0o644)
	if _, err := speech.LoadTokenTable(bad); err == nil {
		t.Error("want error for non-numeric id")
	}
}
