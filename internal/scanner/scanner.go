// Package scanner identifies localization units inside a mod archive by
// path convention: flat lang files under assets/<ns>/lang/ and patchouli
// book trees under assets/<ns>/patchouli_books/.
package scanner

import (
	"path"
	"strings"

	"github.com/vitln/modlate/internal/jarfile"
)

// Result lists the source-locale localization units found in an archive and
// whether target-locale counterparts already exist.
type Result struct {
	LangFiles []string
	BookFiles []string

	HasTargetLang bool
	HasTargetBook bool
}

// AlreadyTranslated reports whether the archive carries both a target-locale
// lang file and a target-locale book subtree, in which case the whole
// archive is skipped as a no-op.
func (r Result) AlreadyTranslated() bool {
	return r.HasTargetLang && r.HasTargetBook
}

// Scan walks the archive's entry list and classifies localization units.
// Locale codes are matched case-insensitively against the path segment.
func Scan(a *jarfile.Archive, sourceLocale, targetLocale string) Result {
	var res Result

	for _, e := range a.Entries {
		name := e.Name
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		switch {
		case isLangFile(name, sourceLocale):
			res.LangFiles = append(res.LangFiles, name)
		case isLangFile(name, targetLocale):
			res.HasTargetLang = true
		case isBookFile(name, sourceLocale):
			res.BookFiles = append(res.BookFiles, name)
		case isBookFile(name, targetLocale):
			res.HasTargetBook = true
		}
	}
	return res
}

// isLangFile matches assets/<ns>/lang/<locale>.json.
func isLangFile(name, locale string) bool {
	parts := strings.Split(name, "/")
	if len(parts) != 4 {
		return false
	}
	return parts[0] == "assets" &&
		parts[2] == "lang" &&
		strings.EqualFold(parts[3], locale+".json")
}

// isBookFile matches assets/<ns>/patchouli_books/**/<locale>/**/*.json,
// where <locale> appears as a directory segment after patchouli_books.
func isBookFile(name, locale string) bool {
	parts := strings.Split(name, "/")
	if len(parts) < 5 || parts[0] != "assets" {
		return false
	}

	bookIdx := -1
	for i, p := range parts {
		if p == "patchouli_books" {
			bookIdx = i
			break
		}
	}
	if bookIdx < 0 {
		return false
	}
	// Locale is a directory segment, never the file name itself.
	for i := bookIdx + 1; i < len(parts)-1; i++ {
		if strings.EqualFold(parts[i], locale) {
			return true
		}
	}
	return false
}

// Namespace extracts the mod namespace from a localization-unit path, or ""
// when the path does not follow the assets/<ns>/ convention.
func Namespace(name string) string {
	parts := strings.Split(path.Clean(name), "/")
	if len(parts) < 2 || parts[0] != "assets" {
		return ""
	}
	return parts[1]
}
