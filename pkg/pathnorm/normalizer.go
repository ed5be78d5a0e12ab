// Package pathnorm maps concrete request paths to low-cardinality templates
// used as the path label of HTTP metrics.
package pathnorm

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps every path matching Pattern to Template.
type Rule struct {
	Pattern  *regexp.Regexp
	Template string
}

// NewRule compiles pattern into a Rule. The pattern must be anchored at the
// start of the path with '^'.
func NewRule(pattern, template string) (Rule, error) {
	if !strings.HasPrefix(pattern, "^") {
		return Rule{}, fmt.Errorf("pattern %q must be anchored with ^", pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Template: template}, nil
}

// MustRule is like NewRule but panics on error. Intended for static tables.
func MustRule(pattern, template string) Rule {
	r, err := NewRule(pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

// Normalizer evaluates rules in order and returns the template of the first
// matching rule.
type Normalizer struct {
	rules []Rule
}

// New creates a Normalizer over rules, evaluated in the given order.
func New(rules ...Rule) *Normalizer {
	return &Normalizer{rules: append([]Rule(nil), rules...)}
}

// Default returns the normalizer for the service routes.
func Default() *Normalizer {
	return New(
		MustRule(`^/reservations/(.*)`, "/reservations/:user_id"),
	)
}

// Normalize returns the template for path, or path itself when no rule
// matches.
func (n *Normalizer) Normalize(path string) string {
	for _, r := range n.rules {
		if r.Pattern.MatchString(path) {
			return r.Template
		}
	}
	return path
}
