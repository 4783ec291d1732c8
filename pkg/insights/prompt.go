package insights

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TranslationInstruction is the system prompt used by LLM based translators.
// The reply is expected to be a JSON object keyed by the target codes.
func TranslationInstruction(sourceLang string, targetLangs []string) string {
	from := "the detected language"
	if sourceLang != "" {
		from = fmt.Sprintf("language code %q", sourceLang)
	}
	quoted := make([]string, len(targetLangs))
	for i, l := range targetLangs {
		quoted[i] = fmt.Sprintf("%q", l)
	}

	return fmt.Sprintf("You translate transcribed speech from %s. "+
		"Translate the user's text into each of these language codes: %s. "+
		"Reply with a single JSON object whose keys are exactly those codes and whose values are the translations. "+
		"Do not add explanations.", from, strings.Join(quoted, ", "))
}

// ParseTranslationReply extracts translations from an LLM reply. A plain text
// reply is accepted when only one language was requested.
func ParseTranslationReply(reply string, targetLangs []string) (map[string]string, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("empty translation reply")
	}

	parsed := make(map[string]string)
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		if len(targetLangs) != 1 {
			return nil, fmt.Errorf("invalid translation reply: %w", err)
		}
		text, ok := plainReply(reply)
		if !ok {
			return nil, fmt.Errorf("invalid translation reply: %w", err)
		}
		return map[string]string{targetLangs[0]: text}, nil
	}

	out := make(map[string]string, len(targetLangs))
	for _, l := range targetLangs {
		if v, ok := parsed[l]; ok {
			out[l] = strings.TrimSpace(v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("translation reply has none of %v", targetLangs)
	}
	return out, nil
}

// plainReply returns the text of a reply that isn't a JSON object. A JSON
// string is unquoted, other JSON values are rejected.
func plainReply(reply string) (string, bool) {
	switch reply[0] {
	case '{', '[':
		return "", false
	case '"':
		var text string
		if err := json.Unmarshal([]byte(reply), &text); err != nil {
			// quoted speech, not a JSON string
			return reply, true
		}
		text = strings.TrimSpace(text)
		return text, text != ""
	}
	return reply, true
}
