package mcp

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/rpc"
	"github.com/pcfscope/server/settings"
)

func newTestServer(t *testing.T, s settings.Settings) *Server {
	t.Helper()
	return NewServer("test", settings.NewStore(s, ""), catalog.Default())
}

func callTool(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned error: %v", err)
	}
	return res
}

func toolText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if len(r.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", r.Content[0])
	}
	return tc.Text
}

func toolError(t *testing.T, r *mcp.CallToolResult) ToolError {
	t.Helper()
	if !r.IsError {
		t.Fatalf("expected tool error, got %s", toolText(t, r))
	}
	var te ToolError
	if err := json.Unmarshal([]byte(toolText(t, r)), &te); err != nil {
		t.Fatalf("tool error is not JSON: %v", err)
	}
	return te
}

func TestTools_Registered(t *testing.T) {
	s := newTestServer(t, settings.Default())

	names := make(map[string]bool)
	for _, tool := range s.tools() {
		names[tool.Tool.Name] = true
		if tool.Handler == nil {
			t.Errorf("tool %s has no handler", tool.Tool.Name)
		}
	}
	for _, want := range []string{"expression_normalize", "pcf_format", "relation_format", "pcf_analyze", "constant_lookup"} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
	if s.MCPServer() == nil {
		t.Error("expected protocol server")
	}
}

func TestExpressionNormalize(t *testing.T) {
	s := newTestServer(t, settings.Default())

	res := callTool(t, s.handleExpressionNormalize, map[string]any{"expression": "C_HBM*Zeta3"})
	var out rpc.ExpressionNormalizeResult
	if err := json.Unmarshal([]byte(toolText(t, res)), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !out.OK {
		t.Errorf("expected parse success, got %+v", out)
	}
	if len(out.Metadata) != 2 {
		t.Errorf("expected 2 metadata entries, got %+v", out.Metadata)
	}

	te := toolError(t, callTool(t, s.handleExpressionNormalize, map[string]any{"expression": "x", "source": "maple"}))
	if te.Code != ErrValidation {
		t.Errorf("expected validation error, got %+v", te)
	}
}

func TestPCFFormat(t *testing.T) {
	s := newTestServer(t, settings.Default())

	res := callTool(t, s.handlePCFFormat, map[string]any{"a": "n + 5", "b": "-n"})
	var out rpc.FractionFormatResult
	if err := json.Unmarshal([]byte(toolText(t, res)), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Plain != "5 - 1/(6 - 2/(7 - 3/(8 + …)))" {
		t.Errorf("unexpected plain form %q", out.Plain)
	}

	te := toolError(t, callTool(t, s.handlePCFFormat, map[string]any{"a": "n"}))
	if te.Code != ErrValidation {
		t.Errorf("expected validation error, got %+v", te)
	}
}

func TestRelationFormat(t *testing.T) {
	s := newTestServer(t, settings.Default())

	res := callTool(t, s.handleRelationFormat, map[string]any{"relation": "PCF[2*n + 1, n**2] = 4/pi"})
	var out rpc.RelationFormatResult
	if err := json.Unmarshal([]byte(toolText(t, res)), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !out.OK || !strings.Contains(out.Display, `\frac{4}{\pi}`) {
		t.Errorf("unexpected relation %+v", out)
	}

	toolError(t, callTool(t, s.handleRelationFormat, map[string]any{"relation": "not a relation"}))
}

func TestConstantLookup(t *testing.T) {
	s := newTestServer(t, settings.Default())

	res := callTool(t, s.handleConstantLookup, map[string]any{"name": "catalan constant"})
	var def catalog.Definition
	if err := json.Unmarshal([]byte(toolText(t, res)), &def); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if def.Key != "C" {
		t.Errorf("expected C, got %+v", def)
	}

	te := toolError(t, callTool(t, s.handleConstantLookup, map[string]any{"key": "nope"}))
	if te.Code != ErrNotFound {
		t.Errorf("expected not_found, got %+v", te)
	}
	te = toolError(t, callTool(t, s.handleConstantLookup, map[string]any{}))
	if te.Code != ErrValidation {
		t.Errorf("expected validation error, got %+v", te)
	}
}

func TestPCFAnalyze(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
		for _, f := range []string{
			`{"is_convergent": true}`,
			`{"limit": "2.4142135623730950488"}`,
			`{"error": [{"x": 10, "y": "-7.5"}]}`,
		} {
			conn.Write(ctx, websocket.MessageText, []byte(f))
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}))
	defer backend.Close()

	st := settings.Default()
	st.BackendURL = backend.URL
	st.VerifyEnabled = false
	s := newTestServer(t, st)

	res := callTool(t, s.handlePCFAnalyze, map[string]any{"a": "2", "b": "1", "depth": float64(50)})
	var v analysis.View
	if err := json.Unmarshal([]byte(toolText(t, res)), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v.State != analysis.StateConverged || v.Limit != "2.4142135623730950488" {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Request.Depth != 50 {
		t.Errorf("expected depth 50, got %d", v.Request.Depth)
	}
	if len(v.Summary) == 0 {
		t.Error("expected series summary")
	}
}

func TestPCFAnalyze_Validation(t *testing.T) {
	s := newTestServer(t, settings.Default())

	te := toolError(t, callTool(t, s.handlePCFAnalyze, map[string]any{"a": "n", "b": "k"}))
	if te.Code != ErrValidation || te.Details["rule"] != "multiple_variables" {
		t.Errorf("expected multiple_variables validation error, got %+v", te)
	}

	te = toolError(t, callTool(t, s.handlePCFAnalyze, map[string]any{"a": "n", "b": "1", "depth": float64(0)}))
	if te.Details["rule"] != "depth" {
		t.Errorf("expected depth rule, got %+v", te)
	}
}

func TestPCFAnalyze_BackendUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	st := settings.Default()
	st.BackendURL = url
	s := newTestServer(t, st)

	te := toolError(t, callTool(t, s.handlePCFAnalyze, map[string]any{"a": "n", "b": "1"}))
	if te.Code != ErrBackend {
		t.Errorf("expected backend_unavailable, got %+v", te)
	}
	if u, _ := te.Details["url"].(string); !strings.HasPrefix(u, "ws://") {
		t.Errorf("expected stream URL in details, got %+v", te.Details)
	}
}

func TestJSONResult_EncodeFailure(t *testing.T) {
	res, err := jsonResult(map[string]float64{"limit": math.Inf(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result for an unencodable value")
	}
	if text := toolText(t, res); !strings.Contains(text, "encode result") {
		t.Errorf("unexpected error text %q", text)
	}
}
