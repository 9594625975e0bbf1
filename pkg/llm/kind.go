package llm

import "fmt"

// Kind is the closed set of supported completion backends.
type Kind string

const (
	KindGemini    Kind = "gemini"
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindOllama    Kind = "ollama"
)

// Precedence is the fallback order used when no backend is forced.
var Precedence = []Kind{KindGemini, KindOpenAI, KindAnthropic, KindOllama}

// Profile is the fixed configuration record of a backend.
type Profile struct {
	Kind         Kind
	DefaultModel string
	NeedsAPIKey  bool
}

var profiles = map[Kind]Profile{
	KindGemini:    {Kind: KindGemini, DefaultModel: "gemini-2.5-flash-lite", NeedsAPIKey: true},
	KindOpenAI:    {Kind: KindOpenAI, DefaultModel: "gpt-4o-mini", NeedsAPIKey: true},
	KindAnthropic: {Kind: KindAnthropic, DefaultModel: "claude-3-5-haiku-latest", NeedsAPIKey: true},
	KindOllama:    {Kind: KindOllama, DefaultModel: "llama3", NeedsAPIKey: false},
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := profiles[k]; !ok {
		return "", fmt.Errorf("unsupported LLM provider: %s", s)
	}
	return k, nil
}

func ProfileOf(k Kind) Profile {
	return profiles[k]
}
