package speech

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// TokenTable maps acoustic model output ids to their character tokens. The
// blank id resolves to the empty string and '|' marks word boundaries.
type TokenTable struct {
	tokens []string
	blank  int
}

type vocabFile struct {
	ID2Token map[string]string `json:"id2token"`
	BlankID  int               `json:"blank_id"`
}

// LoadTokenTable reads the vocab JSON written by the model export.
func LoadTokenTable(path string) (*TokenTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("token table: %w", err)
	}

	var vf vocabFile
	if err := json.Unmarshal(raw, &vf); err != nil {
		return nil, fmt.Errorf("token table %s: %w", path, err)
	}
	if len(vf.ID2Token) == 0 {
		return nil, fmt.Errorf("token table %s: empty id2token map", path)
	}

	maxID := 0
	for k := range vf.ID2Token {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("token table %s: non-numeric id %q", path, k)
		}
		if id > maxID {
			maxID = id
		}
	}

	t := &TokenTable{
		tokens: make([]string, maxID+1),
		blank:  vf.BlankID,
	}
	for k, v := range vf.ID2Token {
		id, _ := strconv.Atoi(k)
		if id >= 0 {
			t.tokens[id] = v
		}
	}
	if t.blank >= 0 && t.blank < len(t.tokens) {
		t.tokens[t.blank] = ""
	}
	return t, nil
}

// NewTokenTable builds a table directly from a token slice; used by tests.
func NewTokenTable(tokens []string, blank int) *TokenTable {
	cp := make([]string, len(tokens))
	copy(cp, tokens)
	if blank >= 0 && blank < len(cp) {
		cp[blank] = ""
	}
	return &TokenTable{tokens: cp, blank: blank}
}

// Blank returns the CTC blank id.
func (t *TokenTable) Blank() int { return t.blank }

// Size returns the vocabulary size, the expected width of the logit rows.
func (t *TokenTable) Size() int { return len(t.tokens) }

// Token returns the token for id, or "" when id is out of range or unmapped.
func (t *TokenTable) Token(id int) string {
	if id < 0 || id >= len(t.tokens) {
		return ""
	}
	return t.tokens[id]
}
