// Package merge registers generated artifacts in an existing module
// declaration by splicing entries into its metadata arrays.
package merge

import (
	"regexp"
	"slices"
	"strings"

	"github.com/glyphworks/schematic/internal/report"
	"github.com/glyphworks/schematic/internal/resolve"
	"github.com/glyphworks/schematic/internal/schema"
)

var (
	repeatedComma = regexp.MustCompile(`,(\s*,)+`)
	useStatement  = regexp.MustCompile(`(?m)^use\s+[^;\n]+;[^\n]*(?:\n|$)`)
)

// inlinePattern matches `section: [ ... ]` on a single line.
func inlinePattern(sec schema.Section) *regexp.Regexp {
	return regexp.MustCompile(`(\b` + regexp.QuoteMeta(string(sec)) + `[ \t]*:[ \t]*\[)([^\]\n]*)(\])`)
}

// expandedPattern matches `section: [` ending its line, the entry lines, and
// the line holding the closing bracket.
func expandedPattern(sec schema.Section) *regexp.Regexp {
	return regexp.MustCompile(`(?m)(\b` + regexp.QuoteMeta(string(sec)) + `[ \t]*:[ \t]*\[[ \t]*\r?\n)((?s:.*?))(^[ \t]*\])`)
}

// lineEnding returns "\r\n" when s uses CRLF line endings, "\n" otherwise.
func lineEnding(s string) string {
	if strings.Contains(s, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// Apply merges instr into content and returns the new content. Entries and
// namespace imports already present in content are not added again, so
// applying the same instructions twice yields the same content as once.
func Apply(content string, instr *schema.UpdateInstructions, ctx *resolve.Context) (string, *report.MergeResult, error) {
	res := &report.MergeResult{Added: map[string][]string{}, Bytes: -1}

	for _, sec := range schema.Sections() {
		templates := instr.Entries(sec)
		if len(templates) == 0 {
			continue
		}

		candidates, err := candidates(content, templates, ctx)
		if err != nil {
			return content, res, err
		}
		if len(candidates) == 0 {
			continue
		}

		merged, ok := spliceSection(content, sec, candidates)
		if !ok {
			res.Missing = append(res.Missing, string(sec))
			continue
		}
		content = merged
		res.Added[string(sec)] = candidates
	}

	merged, imports, err := injectImports(content, instr.Use, instr.ModuleMarker(), ctx)
	if err != nil {
		return content, res, err
	}
	res.Imports = imports
	return merged, res, nil
}

// candidates resolves entry templates and drops those whose text already
// appears in content, as well as duplicates among themselves.
func candidates(content string, templates []string, ctx *resolve.Context) ([]string, error) {
	var out []string
	for _, tmpl := range templates {
		entry, err := resolve.ResolveEntry(tmpl, ctx)
		if err != nil {
			return nil, err
		}
		entry = strings.TrimSpace(entry)
		if entry == "" || containsEntry(content, entry) || slices.Contains(out, entry) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// containsEntry reports whether entry occurs verbatim in content as a whole
// name: an occurrence glued to a longer identifier (AdminUsersService::class
// for UsersService::class) does not count.
func containsEntry(content, entry string) bool {
	for from := 0; ; {
		i := strings.Index(content[from:], entry)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(entry)
		if !gluedBefore(content, start, entry) && !gluedAfter(content, end, entry) {
			return true
		}
		from = start + 1
	}
}

func gluedBefore(content string, start int, entry string) bool {
	if start == 0 || !isIdentByte(entry[0]) {
		return false
	}
	c := content[start-1]
	return isIdentByte(c) || c == '\\'
}

func gluedAfter(content string, end int, entry string) bool {
	if end == len(content) || !isIdentByte(entry[len(entry)-1]) {
		return false
	}
	return isIdentByte(content[end])
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// spliceSection adds entries to the first block of sec in content, keeping
// the block's inline or expanded style. It reports false when content has no
// recognizable block.
func spliceSection(content string, sec schema.Section, entries []string) (string, bool) {
	if m := inlinePattern(sec).FindStringSubmatchIndex(content); m != nil {
		existing := strings.TrimRight(strings.TrimSpace(content[m[4]:m[5]]), ", \t")
		parts := make([]string, 0, len(entries)+1)
		if existing != "" {
			parts = append(parts, existing)
		}
		parts = append(parts, entries...)
		block := repeatedComma.ReplaceAllString(strings.Join(parts, ", "), ",")
		return content[:m[4]] + block + content[m[5]:], true
	}

	if m := expandedPattern(sec).FindStringSubmatchIndex(content); m != nil {
		existing := content[m[4]:m[5]]
		closing := content[m[6]:m[7]]
		indent := entryIndent(existing, closing)
		eol := lineEnding(content[m[2]:m[3]])

		var b strings.Builder
		if body := strings.TrimRight(existing, " \t\r\n"); body != "" {
			b.WriteString(body)
			if !strings.HasSuffix(body, ",") {
				b.WriteString(",")
			}
			b.WriteString(eol)
		}
		for _, e := range entries {
			b.WriteString(indent)
			b.WriteString(e)
			b.WriteString(",")
			b.WriteString(eol)
		}
		block := repeatedComma.ReplaceAllString(b.String(), ",")
		return content[:m[4]] + block + content[m[5]:], true
	}

	return content, false
}

// entryIndent returns the indentation of the first non-blank entry line, or
// one level deeper than the closing bracket when the block is empty.
func entryIndent(entries, closing string) string {
	for _, line := range strings.Split(entries, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	base := closing[:len(closing)-len(strings.TrimLeft(closing, " \t"))]
	if strings.Contains(base, "\t") {
		return base + "\t"
	}
	return base + "  "
}

// injectImports inserts a `use <namespace>;` line for every resolved
// template not already imported. New lines go after the last use statement
// above the marker line, or directly above the marker when there is none.
// Without a marker nothing is inserted.
func injectImports(content string, templates []string, marker string, ctx *resolve.Context) (string, []string, error) {
	var stmts []string
	for _, tmpl := range templates {
		ns, err := resolve.ResolveEntry(tmpl, ctx)
		if err != nil {
			return content, nil, err
		}
		ns = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ns), "use ")), ";")
		if ns == "" {
			continue
		}
		stmt := "use " + ns + ";"
		if hasImport(content, stmt) || slices.Contains(stmts, stmt) {
			continue
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return content, nil, nil
	}

	at := strings.Index(content, marker)
	if at < 0 {
		return content, nil, nil
	}
	lineStart := strings.LastIndex(content[:at], "\n") + 1

	eol := lineEnding(content)
	block := strings.Join(stmts, eol) + eol
	if uses := useStatement.FindAllStringIndex(content[:lineStart], -1); len(uses) > 0 {
		end := uses[len(uses)-1][1]
		if end > 0 && content[end-1] != '\n' {
			block = eol + block
		}
		return content[:end] + block + content[end:], stmts, nil
	}
	return content[:lineStart] + block + eol + content[lineStart:], stmts, nil
}

func hasImport(content, stmt string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == stmt {
			return true
		}
	}
	return false
}
