// Package collector walks parsed JSON structures and produces the ordered
// list of translatable string locations, plus the eligibility filter that
// decides which strings are worth sending to a translation provider.
package collector

import (
	"sort"
)

// Step addresses one level of a nested structure: either a map key
// (Map == true) or a sequence index.
type Step struct {
	Key   string
	Index int
	Map   bool
}

// Path is the address of a scalar string inside a nested structure. A path
// recorded at collection time must resolve to the same structural slot when
// translations are re-inserted.
type Path []Step

// MapStep addresses a map entry.
func MapStep(key string) Step { return Step{Key: key, Map: true} }

// IndexStep addresses a sequence element.
func IndexStep(i int) Step { return Step{Index: i} }

// Found is one collected string together with its address and the map key
// it was found under (used by the eligibility filter; empty for strings
// nested inside sequences).
type Found struct {
	Path Path
	Key  string
	Text string
}

// Collect traverses root depth-first and returns every scalar string it
// finds, in deterministic order (map keys are visited sorted). A non-map
// root or a structure without strings yields an empty result, not an error.
func Collect(root any) []Found {
	m, ok := root.(map[string]any)
	if !ok {
		return nil
	}
	var out []Found
	walkMap(m, nil, &out)
	return out
}

func walkMap(m map[string]any, prefix Path, out *[]Found) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p := append(append(Path{}, prefix...), MapStep(k))
		walkValue(m[k], k, p, out)
	}
}

func walkSlice(s []any, prefix Path, out *[]Found) {
	for i, v := range s {
		p := append(append(Path{}, prefix...), IndexStep(i))
		walkValue(v, "", p, out)
	}
}

func walkValue(v any, key string, p Path, out *[]Found) {
	switch val := v.(type) {
	case string:
		*out = append(*out, Found{Path: p, Key: key, Text: val})
	case map[string]any:
		walkMap(val, p, out)
	case []any:
		walkSlice(val, p, out)
	}
	// Numbers, booleans and nulls are never translatable.
}
