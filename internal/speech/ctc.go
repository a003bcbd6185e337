package speech

import "strings"

// decodeGreedy turns per-frame logits into text: argmax every frame, collapse
// runs of the same id, skip blanks, then map ids through the token table.
// The '|' word separator becomes a space and runs of whitespace collapse.
func decodeGreedy(logits [][]float32, tokens *TokenTable) string {
	var sb strings.Builder
	prev := -1
	for _, frame := range logits {
		id := argmax(frame)
		if id == tokens.Blank() || id == prev {
			prev = id
			continue
		}
		sb.WriteString(tokens.Token(id))
		prev = id
	}

	text := strings.ReplaceAll(sb.String(), "|", " ")
	return strings.Join(strings.Fields(text), " ")
}

func argmax(row []float32) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return best
}
