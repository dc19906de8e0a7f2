// Package renderer provides a way to render disassembly reports in
// different formats.
package renderer

import (
	"io"
	"strings"
)

// CommentPrefix is the marker put in front of every output line.
const CommentPrefix = "; "

// CommentLines prefixes each line of text with the comment marker and
// rejoins with line terminators. Input ending in a terminator does not
// produce a spurious trailing empty line; the output always ends in one
// terminator.
func CommentLines(text string) string {
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(CommentPrefix)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// TextRenderer writes the listing as comment-prefixed text.
type TextRenderer struct{}

// NewTextRenderer creates a new instance of TextRenderer.
func NewTextRenderer() Renderer {
	return &TextRenderer{}
}

// Render writes the commented listing to output.
func (r *TextRenderer) Render(report *Report, output io.Writer) error {
	_, err := io.WriteString(output, CommentLines(report.Listing))
	return err
}

// Format returns the format type.
func (r *TextRenderer) Format() string {
	return "text"
}
