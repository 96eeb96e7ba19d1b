package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/pcfscope/server/analysis"
)

// markdownReport renders a finished analysis as a markdown document. TeX
// is kept in display-math fences so it can be pasted into a notebook.
func markdownReport(v analysis.View) string {
	var b strings.Builder
	b.WriteString("# Continued fraction analysis\n\n")

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| a(n) | `%s` |\n", v.Request.A)
	fmt.Fprintf(&b, "| b(n) | `%s` |\n", v.Request.B)
	if v.Request.Symbol != "" {
		fmt.Fprintf(&b, "| variable | `%s` |\n", v.Request.Symbol)
	}
	fmt.Fprintf(&b, "| depth | %d |\n", v.Request.Depth)
	fmt.Fprintf(&b, "| state | %s |\n\n", v.State)

	if v.Fraction != "" {
		b.WriteString("## Fraction\n\n```tex\n" + v.Fraction + "\n```\n\n")
	}

	switch {
	case v.NotConvergent():
		b.WriteString("## Limit\n\nThe fraction does not converge.\n\n")
	case v.HasLimit():
		b.WriteString("## Limit\n\n```tex\n" + v.LimitDisplay + "\n```\n\n")
	}
	if v.Error != "" {
		b.WriteString("> **Error:** " + v.Error + "\n\n")
	}

	if len(v.ClosedForms) > 0 {
		b.WriteString("## Closed forms\n\n")
		for _, cf := range v.ClosedForms {
			fmt.Fprintf(&b, "- `%s` (%s)", cf.Display, cf.Source)
			if cf.Title != "" {
				b.WriteString(" " + cf.Title)
			}
			if cf.Link != "" {
				fmt.Fprintf(&b, " [link](%s)", cf.Link)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(v.SeeAlso) > 0 {
		b.WriteString("## See also\n\n")
		for _, rf := range v.SeeAlso {
			fmt.Fprintf(&b, "- `%s`\n", rf.Display)
		}
		b.WriteString("\n")
	}

	if hasPoints(v) {
		b.WriteString("## Series\n\n| series | points | last |\n|---|---|---|\n")
		for _, s := range v.Summary {
			if s.Count == 0 {
				continue
			}
			last := s.Value
			if !s.Numeric {
				last = s.Last.Y
			}
			fmt.Fprintf(&b, "| %s | %d | %s |\n", s.Label, s.Count, last)
		}
		b.WriteString("\n")
	}

	if len(v.Metadata) > 0 {
		b.WriteString("## Constants\n\n")
		for _, e := range v.Metadata {
			if e.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s)\n", e.Label, e.URL)
			} else {
				fmt.Fprintf(&b, "- %s\n", e.Label)
			}
		}
		b.WriteString("\n")
	}

	if v.Disclaimer != "" {
		b.WriteString("_" + v.Disclaimer + "_\n")
	}
	return b.String()
}

func hasPoints(v analysis.View) bool {
	for _, s := range v.Summary {
		if s.Count > 0 {
			return true
		}
	}
	return false
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return r.Render(md)
}
