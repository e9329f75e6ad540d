package analysis

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPattern = errors.New("invalid topic pattern")

// TopicPattern maps a title expression to a topic key. With an empty Label
// the normalised match text becomes the key, so "top 10" and "top 5" both
// land on "top #".
type TopicPattern struct {
	Label   string `yaml:"label,omitempty"`
	Pattern string `yaml:"pattern"`
}

type compiledPattern struct {
	label string
	re    *regexp.Regexp
}

// DefaultTopicPatterns returns the built-in format table, in match order.
func DefaultTopicPatterns() []TopicPattern {
	return []TopicPattern{
		{Pattern: `\b\d+\s*tips\b`},
		{Label: "how to", Pattern: `\bhow\s+to\b`},
		{Label: "tutorial", Pattern: `\btutorials?\b`},
		{Label: "guide", Pattern: `\bguides?\b`},
		{Label: "review", Pattern: `\breviews?\b`},
		{Pattern: `\btop\s*\d+\b`},
		{Pattern: `\bbest\s*\d+\b`},
		{Pattern: `\bworst\s*\d+\b`},
		{Label: "versus", Pattern: `\b(?:vs|versus)\b`},
		{Label: "comparison", Pattern: `\bcomparison\b`},
		{Label: "reaction", Pattern: `\breact(?:ion)?s?\b`},
		{Label: "challenge", Pattern: `\bchallenges?\b`},
		{Label: "interview", Pattern: `\binterviews?\b`},
		{Label: "explained", Pattern: `\bexplained\b`},
		{Label: "for beginners", Pattern: `\bfor\s+beginners\b`},
		{Label: "gameplay", Pattern: `\bgameplay\b`},
		{Label: "walkthrough", Pattern: `\bwalkthrough\b`},
		{Label: "highlights", Pattern: `\bhighlights?\b`},
		{Label: "montage", Pattern: `\bmontage\b`},
		{Label: "podcast", Pattern: `\bpodcast\b`},
		{Label: "news", Pattern: `\bnews\b`},
		{Label: "update", Pattern: `\bupdates?\b`},
		{Label: "vlog", Pattern: `\bvlogs?\b`},
	}
}

type patternFile struct {
	Patterns []TopicPattern `yaml:"patterns"`
}

// LoadTopicPatterns reads an ordered pattern table from a YAML file:
//
//	patterns:
//	  - label: how to
//	    pattern: '\bhow\s+to\b'
//	  - pattern: '\btop\s*\d+\b'
func LoadTopicPatterns(path string) ([]TopicPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topic patterns: %w", err)
	}
	return ParseTopicPatterns(data)
}

// ParseTopicPatterns decodes and validates a YAML pattern table.
func ParseTopicPatterns(data []byte) ([]TopicPattern, error) {
	var f patternFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode topic patterns: %w", err)
	}
	if _, err := compilePatterns(f.Patterns); err != nil {
		return nil, err
	}
	return f.Patterns, nil
}

func compilePatterns(patterns []TopicPattern) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for i, p := range patterns {
		if strings.TrimSpace(p.Pattern) == "" {
			return nil, fmt.Errorf("%w: entry %d has no pattern", ErrInvalidPattern, i)
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d %q: %v", ErrInvalidPattern, i, p.Pattern, err)
		}
		label := ""
		if p.Label != "" {
			label = NormalizeTopic(p.Label)
		}
		out = append(out, compiledPattern{label: label, re: re})
	}
	return out, nil
}

var (
	digitRunRe   = regexp.MustCompile(`\d+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeTopic lower-cases s, replaces digit runs with "#" and collapses
// whitespace. It is idempotent.
func NormalizeTopic(s string) string {
	s = strings.ToLower(s)
	s = digitRunRe.ReplaceAllString(s, "#")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
