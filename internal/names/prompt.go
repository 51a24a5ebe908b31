// Package names holds the name-generation vocabulary shared by the API and
// the terminal client: preferences, the prompt sent to the model and the
// parser for its reply.
package names

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SuggestionCount is how many names every prompt asks for.
const SuggestionCount = 10

// ResponseTypeJSON is the only response_type the generation endpoint accepts.
const ResponseTypeJSON = "json"

var ErrMalformedReply = errors.New("malformed name reply")

// Preferences are free-form filters. An empty field means unconstrained.
type Preferences struct {
	Gender  string `json:"gender"`
	Origin  string `json:"origin"`
	Meaning string `json:"meaning"`
}

// Service turns a prompt into the raw JSON text produced by a model.
type Service interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt asks for SuggestionCount names, adding one clause per
// non-empty preference.
func BuildPrompt(p Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d unique baby names", SuggestionCount)
	if p.Gender != "" {
		fmt.Fprintf(&b, " for a %s", p.Gender)
	}
	if p.Origin != "" {
		fmt.Fprintf(&b, " of %s origin", p.Origin)
	}
	if p.Meaning != "" {
		fmt.Fprintf(&b, " that mean \"%s\"", p.Meaning)
	}
	b.WriteString(`. Provide the names in a JSON array format like: { "names": ["Name1", "Name2", ...] }`)
	return b.String()
}

type reply struct {
	Names []string `json:"names"`
}

// ParseNames decodes a model reply of the form {"names": [...]}. A missing
// key yields an empty, non-nil slice. Models sometimes wrap JSON in a
// markdown fence; that is stripped first.
func ParseNames(raw string) ([]string, error) {
	text := stripFence(strings.TrimSpace(raw))
	var r reply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	out := make([]string, 0, len(r.Names))
	for _, n := range r.Names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
