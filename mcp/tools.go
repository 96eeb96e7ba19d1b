package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("expression_normalize",
				mcp.WithDescription("Clean a closed-form expression reported by the relation finder or the external symbolic service and render it as TeX. Named constants are resolved from the catalog and listed in metadata."),
				mcp.WithString("expression", mcp.Required(), mcp.Description("Raw expression, e.g. alpha_GW**2 = 0 (15)")),
				mcp.WithString("source", mcp.Description("Where the expression came from (default lirec)"), mcp.Enum("lirec", "wolfram")),
				mcp.WithString("prefix", mcp.Description("Text prepended before parsing, e.g. \"a[n] = \"")),
			),
			Handler: s.handleExpressionNormalize,
		},
		{
			Tool: mcp.NewTool("pcf_format",
				mcp.WithDescription("Render the opening terms of the continued fraction a(0) + b(1)/(a(1) + b(2)/(a(2) + ...)) for two polynomials."),
				mcp.WithString("a", mcp.Required(), mcp.Description("Partial denominator polynomial a(n)")),
				mcp.WithString("b", mcp.Required(), mcp.Description("Partial numerator polynomial b(n)")),
				mcp.WithString("symbol", mcp.Description("Variable name; inferred when omitted")),
			),
			Handler: s.handlePCFFormat,
		},
		{
			Tool: mcp.NewTool("relation_format",
				mcp.WithDescription("Render a related-fraction relation of the form PCF[a, b] = expression."),
				mcp.WithString("relation", mcp.Required(), mcp.Description("Relation text from the relation finder")),
			),
			Handler: s.handleRelationFormat,
		},
		{
			Tool: mcp.NewTool("pcf_analyze",
				mcp.WithDescription("Stream an analysis of the continued fraction from the backend and return the final result: convergence, limit, closed forms, related fractions and a summary of the error series. Blocks until the stream ends."),
				mcp.WithString("a", mcp.Required(), mcp.Description("Partial denominator polynomial a(n)")),
				mcp.WithString("b", mcp.Required(), mcp.Description("Partial numerator polynomial b(n)")),
				mcp.WithNumber("depth", mcp.Description("Iteration depth (default from settings, clamped to the configured maximum)")),
			),
			Handler: s.handlePCFAnalyze,
		},
		{
			Tool: mcp.NewTool("constant_lookup",
				mcp.WithDescription("Look up a named constant by catalog key (e.g. C_HBM) or display name (e.g. Catalan Constant)."),
				mcp.WithString("key", mcp.Description("Catalog key")),
				mcp.WithString("name", mcp.Description("Display name, case-insensitive")),
			),
			Handler: s.handleConstantLookup,
		},
	}
}
