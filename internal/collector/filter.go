package collector

import (
	"regexp"
	"strings"
	"unicode"
)

// Minecraft in-band escape codes. The two blue color codes mark decorative
// or mod-branding text and the formatting-only codes mark obfuscated/styled
// text; strings carrying any of them are passed through untranslated.
var brandingCodes = []string{
	"§1", "§9", // dark blue, blue
	"§k", "§l", "§m", "§n", "§o", "§r",
}

// markerCodeRe strips every recognized two-character escape sequence before
// brand-name comparison.
var markerCodeRe = regexp.MustCompile(`§[0-9a-fk-or]`)

// brandCatalog lists third-party mod and product names that must stay in
// their original form. Multi-word names also block their constituent words.
var brandCatalog = []string{
	"Thermal Expansion",
	"Applied Energistics",
	"Industrial Foregoing",
	"Immersive Engineering",
	"Ender IO",
	"Tinkers Construct",
	"Blood Magic",
	"Botania",
	"Mekanism",
	"Thaumcraft",
	"BuildCraft",
	"Forestry",
	"Railcraft",
	"Patchouli",
	"Minecraft",
	"Forge",
	"Fabric",
	"CraftTweaker",
	"JEI",
}

// technicalRes match string shapes that are configuration or identifier
// data, never display text.
var technicalRes = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)+$`),       // dotted identifier chain
	regexp.MustCompile(`^\$\{[^}]*\}$`),                     // ${placeholder}
	regexp.MustCompile(`^#?[0-9a-fA-F]{6,8}$`),              // hex color literal
	regexp.MustCompile(`^[0-9]+([.,][0-9]+)?%?$`),           // numeric / percentage
	regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`),                 // ALL_CAPS constant
	regexp.MustCompile(`^[a-z0-9_.\-]+:[a-z0-9_./\-]+$`),    // namespace:identifier
	regexp.MustCompile(`^[\[(<][^\])>]*[\])>]$`),            // bracketed token
}

// fastTokenRe matches a lone short alphanumeric token; fastColonRe matches
// colon-containing identifier-like strings. Both only apply to the coarse
// batch-path filter.
var (
	fastTokenRe = regexp.MustCompile(`^[A-Za-z0-9_]{1,6}$`)
	fastColonRe = regexp.MustCompile(`^\S*:\S*$`)
)

// ShouldTranslate reports whether a string found under key is worth sending
// to the translation provider. Excluded strings pass through the pipeline
// positionally unchanged.
func ShouldTranslate(key, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if containsCyrillic(trimmed) {
		return false
	}
	for _, code := range brandingCodes {
		if strings.Contains(text, code) {
			return false
		}
	}
	if strings.Contains(strings.ToLower(key), "itemgroup") {
		return false
	}
	if isBrandName(trimmed) {
		return false
	}
	for _, re := range technicalRes {
		if re.MatchString(trimmed) {
			return false
		}
	}
	if len([]rune(trimmed)) < 3 {
		return false
	}
	if !containsLetter(trimmed) {
		return false
	}
	return true
}

// FastShouldTranslate is the coarser filter used on the high-throughput
// batch path. It applies every ShouldTranslate rule and additionally drops
// lone short alphanumeric tokens and colon-joined identifiers, trading
// recall for throughput.
func FastShouldTranslate(key, text string) bool {
	trimmed := strings.TrimSpace(text)
	if fastTokenRe.MatchString(trimmed) || fastColonRe.MatchString(trimmed) {
		return false
	}
	return ShouldTranslate(key, text)
}

// containsCyrillic is the "already translated" heuristic: any Cyrillic rune
// means the string needs no further work.
func containsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isBrandName compares the marker-stripped string against the brand
// catalog: an exact match, or a match against one word of a multi-word
// name, blocks translation. "Thermal Expansion Machine" is still
// translatable because it equals neither the name nor a single word of it.
func isBrandName(s string) bool {
	stripped := strings.TrimSpace(markerCodeRe.ReplaceAllString(s, ""))
	if stripped == "" {
		return false
	}
	lower := strings.ToLower(stripped)
	for _, brand := range brandCatalog {
		if lower == strings.ToLower(brand) {
			return true
		}
		words := strings.Fields(brand)
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if lower == strings.ToLower(w) {
				return true
			}
		}
	}
	return false
}

// StripMarkerCodes removes every recognized escape sequence; exported for
// callers that need the display text only.
func StripMarkerCodes(s string) string {
	return markerCodeRe.ReplaceAllString(s, "")
}
