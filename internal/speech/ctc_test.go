package speech

import "testing"

// rows builds one-hot logit rows for the given id sequence.
func rows(vocab int, ids ...int) [][]float32 {
	out := make([][]float32, len(ids))
	for i, id := range ids {
		row := make([]float32, vocab)
		row[id] = 1
		out[i] = row
	}
	return out
}

func TestDecodeGreedy(t *testing.T) {
	t.Parallel()
	// blank=0, '|'=1, 'a'=2, 'b'=5
	tokens := NewTokenTable([]string{"", "|", "a", "", "", "b"}, 0)

	tests := []struct {
		name string
		ids  []int
		want string
	}{
		{"collapse repeats and blanks", []int{2, 2, 0, 5, 5, 1, 2}, "ab a"},
		{"blank splits a repeat", []int{2, 0, 2}, "aa"},
		{"run without blank collapses", []int{2, 2, 2}, "a"},
		{"separator runs collapse to one space", []int{2, 1, 0, 1, 5}, "a b"},
		{"leading and trailing separators trim", []int{1, 2, 1}, "a"},
		{"all blanks", []int{0, 0, 0}, ""},
	}
	for _, tt := range tests {
		if got := decodeGreedy(rows(6, tt.ids...), tokens); got != tt.want {
			t.Errorf("%s: decodeGreedy(%v) = %q, want %q", tt.name, tt.ids, got, tt.want)
		}
	}
}

func TestArgmaxPicksFirstOnTie(t *testing.T) {
	t.Parallel()
	if got := argmax([]float32{3, 3, 1}); got != 0 {
		t.Errorf("argmax = %d, want 0 (first max wins)", got)
	}
}
