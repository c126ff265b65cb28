package pipeline

import (
	"encoding/json"
	"strings"

	ai "github.com/spetersoncode/postflow"
)

// stripCodeFences removes a markdown code fence wrapper if present.
// Models in JSON mode still occasionally wrap output in ```json fences.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeJSON unmarshals a model response into v, tolerating code fences.
func decodeJSON(content string, v any) error {
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &v); err != nil {
		return ai.NewUserInputError("model returned malformed JSON", 0, err)
	}
	return nil
}
