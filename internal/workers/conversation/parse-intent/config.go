// internal/workers/conversation/parse-intent/config.go
package parseintent

// Config holds the literal phrases the parser looks for. Matching is
// case-sensitive.
type Config struct {
	MatchCartPhrase      string
	ClosestPhrase        string
	SearchPrefix         string
	AddIngredientsPrefix string
	ClearPhrases         []string
}

func LoadConfig() *Config {
	return &Config{
		MatchCartPhrase:      "what can I make",
		ClosestPhrase:        "closest recipes",
		SearchPrefix:         "search",
		AddIngredientsPrefix: "add ingredients for",
		ClearPhrases:         []string{"remove all", "clear all"},
	}
}
