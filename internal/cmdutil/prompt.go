package cmdutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/glyphworks/schematic/internal/output"
	"github.com/glyphworks/schematic/internal/schema"
)

// LinePrompter asks for property values one line at a time. It reads answers
// from in and writes questions to out. End of input yields an empty answer,
// which leaves the property unbound.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ schema.Prompter = (*LinePrompter)(nil)

// NewLinePrompter creates a prompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt asks for the value of p.
func (p *LinePrompter) Prompt(prop schema.Property) (string, error) {
	fmt.Fprintf(p.out, "%s %s ", output.StyleAction.Render("?"), question(prop))

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}

func question(prop schema.Property) string {
	q := prop.Prompt
	if q == "" {
		q = fmt.Sprintf("Value for %s?", prop.Name)
	}
	if len(prop.Enum) > 0 {
		q += " " + output.StyleDim.Render("("+strings.Join(prop.Enum, "/")+")")
	}
	return q
}
