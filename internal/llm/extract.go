package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractFirstArray returns the first top-level JSON array literal embedded
// in text. Models frequently wrap structured replies in prose or markdown
// fences, so the reply is scanned for a balanced bracket pair, honoring
// string literals and escapes.
func ExtractFirstArray(text string) (string, error) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", fmt.Errorf("no array literal found in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced array literal in reply")
}

// UnmarshalFirstArray extracts the first top-level array literal from text
// and decodes it into v. The error distinguishes "no array present" from
// "array present but not valid JSON"; callers treat both as soft failures.
func UnmarshalFirstArray(text string, v any) error {
	raw, err := ExtractFirstArray(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid JSON array in reply: %w", err)
	}
	return nil
}
