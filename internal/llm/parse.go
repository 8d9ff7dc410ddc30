package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnparseable = errors.New("completion is not valid JSON")

// ExtractJSON trims markdown code fences and any prose around the outermost
// JSON object or array.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return s[start:]
	}
	return s[start : end+1]
}

// ParseJSON decodes a completion into out.
func ParseJSON(text string, out any) error {
	raw := ExtractJSON(text)
	if raw == "" {
		return ErrUnparseable
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return nil
}

func sortStrings(s []string) { sort.Strings(s) }
