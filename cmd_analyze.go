package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pcfscope/server/analysis"
)

type analyzeOptions struct {
	depth  int
	output string
	report bool
	series bool
	quiet  bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [a(n)] [b(n)]",
		Short: "Stream an analysis from the backend and show the limit",
		Long: `Send a(n) and b(n) to the analysis backend and follow the stream until the
fraction converges, diverges or the connection ends. Missing polynomials are
prompted for when stdin is a terminal.`,
		Example: `  pcfscope analyze "n+5" "1"
  pcfscope analyze "3*n+1" "-n^2" --depth 2000 --output yaml`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.report {
				opts.output = "report"
			}
			return a.runAnalyze(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.depth, "depth", "d", 0, "number of terms to evaluate (default from config)")
	f.StringVarP(&opts.output, "output", "o", "text", "output format (text|report|markdown|json|yaml)")
	f.BoolVar(&opts.report, "report", false, "render a markdown report in the terminal")
	f.BoolVar(&opts.series, "series", false, "include every streamed point in json output")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	f.String("backend", "", "backend base URL")
	f.Bool("verify", true, "ask the backend to identify closed forms for the limit")
	f.Int("digits", 0, "decimal places shown for numeric values")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string, opts analyzeOptions) error {
	s := a.settings
	limits := analysis.LimitsFrom(s)

	var polyA, polyB string
	if len(args) > 0 {
		polyA = args[0]
	}
	if len(args) > 1 {
		polyB = args[1]
	}
	depth := opts.depth

	if polyA == "" || polyB == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("a(n) and b(n) are required")
		}
		var err error
		if polyA == "" {
			if polyA, err = promptPolynomial("a", "n+5", limits); err != nil {
				return err
			}
		}
		if polyB == "" {
			if polyB, err = promptPolynomial("b", "-n^2", limits); err != nil {
				return err
			}
		}
		if !cmd.Flags().Changed("depth") {
			if depth, err = promptDepth(s.DefaultDepth, s.MaxDepth); err != nil {
				return err
			}
		}
	}
	if depth == 0 {
		depth = s.DefaultDepth
	}

	req, err := analysis.NewRequest(polyA, polyB, depth, limits)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := analysis.ConfigFromSettings(s, a.catalog)
	if !opts.quiet {
		cfg.OnUpdate = newProgress(cmd.ErrOrStderr()).update
	}

	sess, err := analysis.Dial(ctx, cfg, req)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.URL, err)
	}
	view, waitErr := sess.Wait(ctx)
	sess.Close()
	if waitErr != nil {
		slog.Info("analysis interrupted", "state", view.State)
	}

	if !opts.series {
		view.Series = nil
	}
	if err := writeView(cmd.OutOrStdout(), view, opts.output); err != nil {
		return err
	}
	if view.State == analysis.StateFailed {
		return fmt.Errorf("analysis failed: %s", view.Error)
	}
	return nil
}

func writeView(w io.Writer, v analysis.View, format string) error {
	switch format {
	case "", "text":
		renderView(w, v)
	case "markdown":
		_, err := io.WriteString(w, markdownReport(v))
		return err
	case "report":
		out, err := renderMarkdown(markdownReport(v), terminalWidth())
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return min(w, 120)
	}
	return 80
}

// progress prints state changes while a session streams. It is called on
// the session goroutine and only writes short lines.
type progress struct {
	w        io.Writer
	state    analysis.State
	verify   analysis.VerifyState
	hasLimit bool
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func (p *progress) update(v analysis.View) {
	if v.State != p.state {
		p.state = v.State
		fmt.Fprintln(p.w, mutedStyle.Render("· "+string(v.State)))
	}
	if v.HasLimit() && !p.hasLimit {
		p.hasLimit = true
		fmt.Fprintln(p.w, mutedStyle.Render("· limit received after "+fmt.Sprint(v.Messages)+" messages"))
	}
	if v.Verification != p.verify {
		p.verify = v.Verification
		if v.Verification == analysis.VerifyPending {
			fmt.Fprintln(p.w, mutedStyle.Render("· identifying closed forms"))
		}
	}
}
