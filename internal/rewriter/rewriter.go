// Package rewriter re-injects translated strings into the nested structure
// they were collected from and derives the target-locale entry paths. The
// structure is rebuilt, not mutated, so the source-locale original stays
// untouched in the archive.
package rewriter

import (
	"strings"

	"github.com/vitln/modlate/internal/collector"
)

// Apply returns a deep copy of root with the string at paths[i] replaced by
// translations[i]. Correspondence is strictly positional — paths recorded
// at collection time line up index-for-index with the translated slice, so
// two paths that held identical text still receive their own values. A
// path that no longer resolves leaves the original value in place.
func Apply(root any, paths []collector.Path, translations []string) any {
	clone := deepCopy(root)
	n := len(paths)
	if len(translations) < n {
		n = len(translations)
	}
	for i := 0; i < n; i++ {
		setAt(clone, paths[i], translations[i])
	}
	return clone
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, child := range val {
			m[k] = deepCopy(child)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, child := range val {
			s[i] = deepCopy(child)
		}
		return s
	default:
		return v
	}
}

// setAt walks path inside root and replaces the addressed string. It
// silently does nothing when the path does not resolve to a string slot.
func setAt(root any, path collector.Path, value string) {
	if len(path) == 0 {
		return
	}
	cur := root
	for _, step := range path[:len(path)-1] {
		switch {
		case step.Map:
			m, ok := cur.(map[string]any)
			if !ok {
				return
			}
			cur, ok = m[step.Key]
			if !ok {
				return
			}
		default:
			s, ok := cur.([]any)
			if !ok || step.Index < 0 || step.Index >= len(s) {
				return
			}
			cur = s[step.Index]
		}
	}

	last := path[len(path)-1]
	switch {
	case last.Map:
		m, ok := cur.(map[string]any)
		if !ok {
			return
		}
		if _, ok := m[last.Key].(string); !ok {
			return
		}
		m[last.Key] = value
	default:
		s, ok := cur.([]any)
		if !ok || last.Index < 0 || last.Index >= len(s) {
			return
		}
		if _, ok := s[last.Index].(string); !ok {
			return
		}
		s[last.Index] = value
	}
}

// TargetLangPath maps a source lang-file path to its target-locale sibling:
// assets/<ns>/lang/en_us.json → assets/<ns>/lang/ru_ru.json.
func TargetLangPath(srcPath, targetLocale string) string {
	idx := strings.LastIndex(srcPath, "/")
	if idx < 0 {
		return targetLocale + ".json"
	}
	return srcPath[:idx+1] + targetLocale + ".json"
}

// TargetBookPath maps a source book-file path to the parallel target-locale
// subtree by replacing the source-locale directory segment. The file name
// itself is never touched.
func TargetBookPath(srcPath, sourceLocale, targetLocale string) string {
	parts := strings.Split(srcPath, "/")
	start := 0
	for i, p := range parts {
		if p == "patchouli_books" {
			start = i + 1
			break
		}
	}
	for i := start; i < len(parts)-1; i++ {
		if strings.EqualFold(parts[i], sourceLocale) {
			parts[i] = targetLocale
			break
		}
	}
	return strings.Join(parts, "/")
}
