package snap_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/andrei-vlg/shopmind/internal/speech/snap"
)

// phraseOf builds a phrase of n distinct tokens w0..w(n-1).
func phraseOf(n int) string {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(ws, " ")
}

func TestSnapPhrase_AcceptsAtThreshold(t *testing.T) {
	t.Parallel()
	// 23 shared tokens out of 25 on each side: Dice = 100*2*23/50 = 92.
	phrase := phraseOf(25)
	lex := snap.New(nil, []string{phrase}, nil)

	line := strings.Join(append(strings.Fields(phraseOf(23)), "x1", "x2"), " ")
	got, replaced := lex.SnapPhrase(line)
	if !replaced {
		t.Fatal("SnapPhrase: want replacement at overlap 92")
	}
	if got != phrase {
		t.Errorf("SnapPhrase = %q, want full phrase", got)
	}
}

func TestSnapPhrase_RejectsBelowThreshold(t *testing.T) {
	t.Parallel()
	// 45 shared tokens out of 49 on each side: Dice = 91.8, just below the
	// cutoff.
	phrase := phraseOf(49)
	lex := snap.New(nil, []string{phrase}, nil)

	line := strings.Join(append(strings.Fields(phraseOf(45)), "x1", "x2", "x3", "x4"), " ")
	got, replaced := lex.SnapPhrase(line)
	if replaced {
		t.Fatal("SnapPhrase: replaced below threshold")
	}
	if got != line {
		t.Errorf("SnapPhrase = %q, want unchanged line", got)
	}
}

func TestSnapPhrase_DisjointLineUnchanged(t *testing.T) {
	t.Parallel()
	lex := snap.New(nil, []string{"iphone 15 pro"}, nil)
	got, replaced := lex.SnapPhrase("totally different words")
	if replaced || got != "totally different words" {
		t.Errorf("SnapPhrase = %q (replaced=%v), want unchanged", got, replaced)
	}
}

func TestSnapPhrase_AppliesCanonicalCasing(t *testing.T) {
	t.Parallel()
	canon := map[string]string{"iphone": "iPhone", "pro": "Pro"}
	lex := snap.New(canon, []string{"iphone 15 pro"}, nil)

	got, replaced := lex.SnapPhrase("iphone 15 pro")
	if !replaced {
		t.Fatal("SnapPhrase: exact match must replace")
	}
	if got != "iPhone 15 Pro" {
		t.Errorf("SnapPhrase = %q, want %q", got, "iPhone 15 Pro")
	}
}

func TestFixLine_WordThenPhrase(t *testing.T) {
	t.Parallel()
	canon := map[string]string{"iphone": "iPhone", "pro": "Pro"}
	lex := snap.New(canon, []string{"iphone 15 pro"}, []string{"iphone", "pro", "15"})

	// "iphon" snaps to iPhone, "qqq" drops, then the phrase pass completes
	// the title.
	fixed, snapped, dropped, phrase := lex.FixLine("iphon 15 pro qqq")
	if fixed != "iPhone 15 Pro" {
		t.Errorf("FixLine = %q, want %q", fixed, "iPhone 15 Pro")
	}
	if snapped != 3 || dropped != 1 {
		t.Errorf("snapped/dropped = %d/%d, want 3/1", snapped, dropped)
	}
	if !phrase {
		t.Error("phrase = false, want true")
	}
}
