package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON cuts the JSON object out of a completion that may carry extra
// prose around it: everything from the first '{' to the last '}'. The slice
// must itself be valid JSON or an error is returned.
func ExtractJSON(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON structure found in response")
	}
	candidate := response[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("invalid JSON structure in response")
	}
	return candidate, nil
}
