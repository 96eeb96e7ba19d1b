package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFormatCmd(a *app) *cobra.Command {
	var (
		symbol string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "format <a(n)> <b(n)>",
		Short: "Render the first terms of a continued fraction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if symbol == "" {
				inferred, err := analysis.InferSymbol(args[0], args[1])
				if err != nil {
					return err
				}
				symbol = inferred
			}
			res, err := fraction.Format(args[0], args[1], symbol)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, struct {
					fraction.Result
					Symbol string `json:"symbol"`
				}{res, symbol})
			}
			field(out, "plain", res.Plain)
			if res.TeX != "" {
				field(out, "tex", res.TeX)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "variable of the polynomials (inferred when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newNormalizeCmd(a *app) *cobra.Command {
	var (
		source string
		prefix string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "normalize <expression>",
		Short: "Clean a closed-form expression and render it as TeX",
		Example: `  pcfscope normalize "4/(3*pi - 8)"
  pcfscope normalize --source wolfram "root of x^2-2 near x = 1.41421"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := normalize.Source(source)
			if !src.Valid() {
				return fmt.Errorf("unknown source %q", source)
			}

			md := metadata.New(a.catalog)
			res := normalize.New(a.catalog).Normalize(args[0], src, normalize.Options{
				Prefix:   prefix,
				Metadata: md,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, struct {
					normalize.Result
					Metadata []metadata.Entry `json:"metadata"`
				}{res, md.Entries()})
			}
			field(out, "cleaned", res.Cleaned)
			if res.OK {
				field(out, "tex", res.TeX)
			} else {
				field(out, "tex", mutedStyle.Render("unparseable, shown raw"))
			}
			renderMetadata(out, md.Entries())
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", string(normalize.SourceRelationFinder), "producer of the expression (lirec|wolfram)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "text prepended before parsing, e.g. \"a[n] = \"")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newRelationCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "relation <PCF[a, b] = expression>",
		Short:   "Render a related-fraction relation",
		Example: `  pcfscope relation "PCF[2*n+1, n**2] = 4/pi"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md := metadata.New(a.catalog)
			rel := fraction.FormatSeeAlso(args[0], normalize.New(a.catalog), normalize.Options{Metadata: md})

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, struct {
					fraction.SeeAlso
					Display  string           `json:"display"`
					Metadata []metadata.Entry `json:"metadata"`
				}{rel, rel.Display(), md.Entries()})
			}
			fmt.Fprintln(out, rel.Display())
			renderMetadata(out, md.Entries())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the constant catalog",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List every known constant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs := a.catalog.Definitions()
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, defs)
			}
			for _, d := range defs {
				name := d.Name
				if name == "" {
					name = mutedStyle.Render("-")
				}
				fmt.Fprintf(out, "%-16s %s\n", d.Key, name)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	show := &cobra.Command{
		Use:   "show <key or name>",
		Short: "Show one constant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := a.catalog.Lookup(args[0])
			if !ok {
				def, ok = a.catalog.FindByName(args[0])
			}
			if !ok {
				return fmt.Errorf("constant %q not found", args[0])
			}

			out := cmd.OutOrStdout()
			field(out, "key", def.Key)
			if def.Name != "" {
				field(out, "name", def.Name)
			}
			field(out, "replacement", def.Replacement())
			if def.URL != "" {
				field(out, "reference", def.URL)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
