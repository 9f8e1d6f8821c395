package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/zipp/internal/zipp"
)

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintSnapshot prints the full speaker view
func (p *Printer) PrintSnapshot(snap zipp.Snapshot) {
	p.Println(NewSnapshotViewWidth(p.width).Render(snap))
}

// PrintSuccess prints a success box. Details are shown sorted by key.
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(RenderSuccess(title, details, p.width))
}

// PrintError prints an error box with the troubleshooting hint for err
func (p *Printer) PrintError(title string, err error) {
	p.Println(RenderFailure(title, err, p.width))
}

// RenderSuccess renders a success result box
func RenderSuccess(title string, details map[string]string, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render(fmt.Sprintf("%s  %s", SuccessMarker, title)),
	}

	if len(details) > 0 {
		lines = append(lines, "")
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, FieldKeyStyle.Render(k+":")+renderValue(details[k]))
		}
	}
	lines = append(lines, "")

	return ResultBoxStyle(clampWidth(width), SuccessColor).Render(strings.Join(lines, "\n"))
}

// RenderFailure renders an error result box. The message and hint come from
// the zipp error helpers so every command reports errors the same way.
func RenderFailure(title string, err error, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render(fmt.Sprintf("%s  %s", FailureMarker, title)),
		"",
	}

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+zipp.GetShortErrorMessage(err)))
		if hint := zipp.GetTroubleshootingHint(err); hint != "" {
			lines = append(lines, "", HintStyle.Render(hint))
		}
		lines = append(lines, "")
	}

	return ResultBoxStyle(clampWidth(width), ErrorColor).Render(strings.Join(lines, "\n"))
}

// RenderPresets renders a preset list, marking the current one
func RenderPresets(title string, presets []string, current string) string {
	var b strings.Builder
	b.WriteString("  " + SectionTitleStyle.Render(title))
	for _, name := range presets {
		marker := "  "
		style := FieldValueStyle
		if strings.EqualFold(name, current) {
			marker = SuccessMarker + " "
			style = lipgloss.NewStyle().Foreground(SuccessColor)
		}
		b.WriteString("\n    " + marker + style.Render(name))
	}
	return b.String()
}
