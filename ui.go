package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/series"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	limitStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func stateStyle(s analysis.State) lipgloss.Style {
	switch s {
	case analysis.StateConverged:
		return completedStyle
	case analysis.StateFailed, analysis.StateNotConvergent:
		return errorStyle
	case analysis.StateClosed:
		return mutedStyle
	}
	return pendingStyle
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
}

// renderView writes a human readable result.
func renderView(w io.Writer, v analysis.View) {
	fmt.Fprintln(w, titleStyle.Render("Polynomial continued fraction"))
	field(w, "a(n)", v.InputA)
	field(w, "b(n)", v.InputB)
	if v.Fraction != "" {
		field(w, "fraction", v.Fraction)
	}
	field(w, "depth", fmt.Sprint(v.Request.Depth))
	field(w, "state", stateStyle(v.State).Render(string(v.State)))

	switch {
	case v.NotConvergent():
		fmt.Fprintln(w, errorStyle.Render("The fraction does not converge."))
	case v.HasLimit():
		fmt.Fprintln(w, limitStyle.Render("limit = "+v.LimitDisplay))
	}
	if v.Error != "" {
		field(w, "error", errorStyle.Render(v.Error))
	}

	renderSummary(w, v.Summary)

	if len(v.ClosedForms) > 0 {
		fmt.Fprintln(w, labelStyle.Render("closed forms:"))
		for _, cf := range v.ClosedForms {
			line := "  " + cf.Display + mutedStyle.Render(" ("+string(cf.Source)+")")
			if cf.Title != "" {
				line += " " + cf.Title
			}
			fmt.Fprintln(w, line)
		}
	}
	if v.Verification != analysis.VerifyNone && v.Verification != analysis.VerifyDone {
		field(w, "verification", mutedStyle.Render(string(v.Verification)))
	}
	if len(v.SeeAlso) > 0 {
		fmt.Fprintln(w, labelStyle.Render("see also:"))
		for _, rf := range v.SeeAlso {
			fmt.Fprintln(w, "  "+rf.Display)
		}
	}
	renderMetadata(w, v.Metadata)

	if v.Disclaimer != "" {
		fmt.Fprintln(w, mutedStyle.Render(v.Disclaimer))
	}
}

func renderSummary(w io.Writer, sums []series.Summary) {
	var lines []string
	for _, s := range sums {
		if s.Count == 0 {
			continue
		}
		value := s.Value
		if !s.Numeric {
			value = s.Last.Y
		}
		lines = append(lines, fmt.Sprintf("  %-14s %6d points, last %s", s.Label, s.Count, value))
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render("series:"))
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func renderMetadata(w io.Writer, entries []metadata.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render("constants:"))
	for _, e := range entries {
		if e.URL != "" {
			fmt.Fprintf(w, "  %s %s\n", e.Label, mutedStyle.Render(e.URL))
			continue
		}
		fmt.Fprintln(w, "  "+e.Label)
	}
}
