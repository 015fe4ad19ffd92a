package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary is an optional pack of extra market-specific phrases layered on
// top of the built-in keyword tables. Ops can extend coverage for a new
// market without a release.
type Vocabulary struct {
	FinishingKeywords []string `yaml:"finishing_keywords"`
	NegativePhrases   []string `yaml:"negative_phrases"`
}

// LoadVocab reads a vocabulary pack from path. An empty path returns an
// empty vocabulary.
func LoadVocab(path string) (*Vocabulary, error) {
	if path == "" {
		return &Vocabulary{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "config: read vocab file")
	}

	var vocab Vocabulary
	if err := yaml.Unmarshal(raw, &vocab); err != nil {
		return nil, eris.Wrap(err, "config: parse vocab file")
	}
	return &vocab, nil
}
