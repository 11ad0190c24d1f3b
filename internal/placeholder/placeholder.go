// Package placeholder protects in-band non-translatable tokens — Minecraft
// §-style escape codes, printf-style format specifiers and ${...}
// template variables — by replacing them with numbered markers ([PH0],
// [PH1], …) around the provider call. After translation, Restore
// substitutes the markers back.
package placeholder

import (
	"fmt"
	"regexp"
)

var (
	// Minecraft color / formatting escape sequences.
	reMarkerCode = regexp.MustCompile(`\x{00a7}[0-9a-fk-or]`)

	// printf-style specifiers as Minecraft lang values use them: %s, %d,
	// %1$s and friends.
	reFormatSpec = regexp.MustCompile(`%(?:\d+\$)?[sdfx]`)

	// ${variable} template references.
	reTemplateVar = regexp.MustCompile(`\$\{[^}]*\}`)

	// placeholder reference in translated text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces protected tokens with numbered placeholders in the order
// they appear. It returns the modified text and the slice of captured
// originals so Restore can put them back.
func Protect(text string) (string, []string) {
	var markers []string
	counter := 0

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", counter)
		markers = append(markers, match)
		counter++
		return id
	}

	text = reTemplateVar.ReplaceAllStringFunc(text, replace)
	text = reFormatSpec.ReplaceAllStringFunc(text, replace)
	text = reMarkerCode.ReplaceAllStringFunc(text, replace)

	return text, markers
}

// Restore substitutes [PHn] markers in text back with the originals
// captured by Protect. Unrecognised indices leave the placeholder as-is.
func Restore(text string, markers []string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}
