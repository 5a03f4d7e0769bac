package resolve

import (
	"regexp"
	"strings"

	oerrors "github.com/glyphworks/schematic/internal/errors"
)

// tokenBody matches a property name followed by up to two @transform suffixes.
// Names may contain single dashes or underscores but never a double underscore,
// so the closing delimiter is unambiguous.
const tokenBody = `__([A-Za-z][A-Za-z0-9]*(?:[-_][A-Za-z0-9]+)*)(?:@([A-Za-z]+))?(?:@([A-Za-z]+))?__`

var (
	pathToken    = regexp.MustCompile(tokenBody)
	contentToken = regexp.MustCompile(`%==\s?` + tokenBody + `\s?==%`)
	templateTag  = regexp.MustCompile(`\.template(\.|$)`)
)

// ResolvePath substitutes every path token in template and strips a
// ".template" tag from the final segment:
//
//	__name@pascalize__Controller.template.php -> UsersController.php
func ResolvePath(template string, ctx *Context) (string, error) {
	dir, base := splitLast(template)
	base = templateTag.ReplaceAllString(base, "$1")
	return substitute(pathToken, dir+base, ctx)
}

// ResolveEntry substitutes path tokens in template without touching
// ".template" tags. It is used for module metadata entries and namespace
// imports.
func ResolveEntry(template string, ctx *Context) (string, error) {
	return substitute(pathToken, template, ctx)
}

// ResolveContent substitutes every content token (%== __name@t__ ==%) in
// template. Path tokens outside the content delimiters are left alone.
func ResolveContent(template string, ctx *Context) (string, error) {
	return substitute(contentToken, template, ctx)
}

// UnknownTransforms returns the transform names used in template, in either
// grammar, that are not supported. They are ignored during resolution.
func UnknownTransforms(template string) []string {
	var unknown []string
	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{pathToken, contentToken} {
		for _, m := range re.FindAllStringSubmatch(template, -1) {
			for _, name := range m[2:] {
				if name == "" || IsTransform(name) || seen[name] {
					continue
				}
				seen[name] = true
				unknown = append(unknown, name)
			}
		}
	}
	return unknown
}

// HasTokens reports whether s contains a path token.
func HasTokens(s string) bool {
	return pathToken.MatchString(s)
}

// substitute replaces every match of re in s in a single left-to-right pass.
// Substituted values are never rescanned.
func substitute(re *regexp.Regexp, s string, ctx *Context) (string, error) {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])

		token := s[m[0]:m[1]]
		name := s[m[2]:m[3]]
		value, ok := ctx.Lookup(name)
		if !ok {
			return "", &oerrors.UnknownPropertyError{Property: name, Token: token}
		}
		for g := 2; g <= 3; g++ {
			if m[2*g] < 0 {
				continue
			}
			value, _ = Apply(s[m[2*g]:m[2*g+1]], value)
		}
		b.WriteString(value)
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

func splitLast(p string) (dir, base string) {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return "", p
	}
	return p[:i+1], p[i+1:]
}
