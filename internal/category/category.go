// Package category assigns spending categories to transaction descriptions.
//
// Classification is deterministic keyword matching over an ordered rule
// table, shipped as embedded YAML so the tables are versionable
// configuration rather than code. The same description always yields the
// same category, independent of ingestion order.
package category

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// DefaultCategory is the final fallback when no rule matches.
const DefaultCategory = "Other"

// Rule is one ordered (category, keyword set) pair. The first rule with a
// keyword contained in the upper-cased description wins.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// PatternRule is a regex fallback for phrasings plain keywords miss.
type PatternRule struct {
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`

	re *regexp.Regexp
}

type ruleSet struct {
	Rules    []Rule        `yaml:"rules"`
	Patterns []PatternRule `yaml:"patterns"`
	Default  string        `yaml:"default"`
}

var rules ruleSet

func init() {
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		panic(fmt.Sprintf("category: embedded rules.yaml is invalid: %v", err))
	}
	if rules.Default == "" {
		rules.Default = DefaultCategory
	}
	for i := range rules.Patterns {
		rules.Patterns[i].re = regexp.MustCompile(rules.Patterns[i].Pattern)
	}
}

// Categorize maps a description to exactly one category label. It is pure
// and total: every input, including the empty string, gets a label.
func Categorize(description string) string {
	upper := strings.ToUpper(description)

	for _, rule := range rules.Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(upper, keyword) {
				return rule.Category
			}
		}
	}

	for _, pattern := range rules.Patterns {
		if pattern.re.MatchString(upper) {
			return pattern.Category
		}
	}

	return rules.Default
}

// Rules returns the ordered keyword rule table, for enumeration in tests
// and rule-coverage tooling.
func Rules() []Rule {
	out := make([]Rule, len(rules.Rules))
	copy(out, rules.Rules)
	return out
}
