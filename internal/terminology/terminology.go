// Package terminology enforces a domain glossary on raw provider output: a
// pure find-and-replace pass that swaps each source term for its fixed
// target term, applied after every provider translation and before caching.
package terminology

import (
	"regexp"
	"sort"
)

type rule struct {
	re     *regexp.Regexp
	target string
}

// Replacer applies glossary terms with whole-word, case-insensitive
// matching. A nil Replacer or one built from an empty glossary is a no-op.
type Replacer struct {
	rules []rule
}

// NewReplacer compiles a (sourceTerm → targetTerm) glossary. Longer source
// terms are applied first so "Thermal Expansion" wins over "Thermal".
func NewReplacer(terms map[string]string) *Replacer {
	sources := make([]string, 0, len(terms))
	for src := range terms {
		if src != "" {
			sources = append(sources, src)
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		if len(sources[i]) != len(sources[j]) {
			return len(sources[i]) > len(sources[j])
		}
		return sources[i] < sources[j]
	})

	r := &Replacer{}
	for _, src := range sources {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(src) + `\b`)
		if err != nil {
			continue
		}
		r.rules = append(r.rules, rule{re: re, target: terms[src]})
	}
	return r
}

// Apply rewrites text with every glossary rule and returns the result.
func (r *Replacer) Apply(text string) string {
	if r == nil {
		return text
	}
	for _, rule := range r.rules {
		text = rule.re.ReplaceAllString(text, rule.target)
	}
	return text
}

// Len returns the number of compiled glossary rules.
func (r *Replacer) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}
