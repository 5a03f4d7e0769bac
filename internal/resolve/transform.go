package resolve

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
)

// TransformFunc rewrites a bound value.
type TransformFunc func(string) string

var transforms = map[string]TransformFunc{
	"pascalize":   Pascalize,
	"camelize":    Camelize,
	"snakeize":    Snakeize,
	"lowercase":   strings.ToLower,
	"uppercase":   strings.ToUpper,
	"singular":    inflection.Singular,
	"singularize": inflection.Singular,
	"plural":      inflection.Plural,
	"pluralize":   inflection.Plural,
	"namespacify": Namespacify,
}

// Transforms returns the names of the supported transforms, sorted.
func Transforms() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsTransform reports whether name is a supported transform.
func IsTransform(name string) bool {
	_, ok := transforms[name]
	return ok
}

// Apply runs the named transform on value. Unknown names leave value unchanged
// and report false.
func Apply(name, value string) (string, bool) {
	fn, ok := transforms[name]
	if !ok {
		return value, false
	}
	return fn(value), true
}

var (
	wordSeparator = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	snakeHump     = regexp.MustCompile(`([\p{Ll}\p{N}])(\p{Lu})`)
	snakeRun      = regexp.MustCompile(`[-\s_]+`)
)

// Pascalize splits value on every non-alphanumeric run, upper-cases the first
// letter of each word and joins them. The rest of each word keeps its case.
//
//	user-profiles -> UserProfiles
//	userProfile   -> UserProfile
func Pascalize(value string) string {
	var b strings.Builder
	for _, word := range wordSeparator.Split(value, -1) {
		b.WriteString(upperFirst(word))
	}
	return b.String()
}

// Camelize is Pascalize with the first letter lower-cased.
func Camelize(value string) string {
	return lowerFirst(Pascalize(value))
}

// Snakeize lower-cases value and joins its words with underscores. Word
// boundaries are dashes, whitespace, underscores and lower-to-upper humps.
func Snakeize(value string) string {
	s := snakeHump.ReplaceAllString(value, "${1}_${2}")
	s = snakeRun.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// Namespacify pascalizes each slash-separated segment and joins the segments
// with backslashes.
//
//	users/admin-tools -> Users\AdminTools
func Namespacify(value string) string {
	segments := strings.FieldsFunc(value, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for i, s := range segments {
		segments[i] = Pascalize(s)
	}
	return strings.Join(segments, `\`)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
