package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pcfscope/server/analysis"
)

type ErrorCode string

const (
	ErrNotFound      ErrorCode = "not_found"
	ErrValidation    ErrorCode = "validation"
	ErrBackend       ErrorCode = "backend_unavailable"
	ErrAnalysisEnded ErrorCode = "analysis_failed"
)

// ToolError is the JSON body of an error result, so agents can branch on
// Code instead of parsing Message.
type ToolError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e ToolError) ToResult() *mcp.CallToolResult {
	data, _ := json.Marshal(e)
	return mcp.NewToolResultError(string(data))
}

func constantNotFound(query string) *mcp.CallToolResult {
	return ToolError{
		Code:    ErrNotFound,
		Message: "constant not found",
		Details: map[string]any{"query": query},
	}.ToResult()
}

func validationError(msg string) *mcp.CallToolResult {
	return ToolError{Code: ErrValidation, Message: msg}.ToResult()
}

// inputError reports a rejected polynomial pair, naming the rule that failed.
func inputError(err error) *mcp.CallToolResult {
	te := ToolError{Code: ErrValidation, Message: err.Error()}
	if rule := analysis.InputRule(err); rule != "" {
		te.Details = map[string]any{"rule": rule}
	}
	return te.ToResult()
}

func backendError(url string, err error) *mcp.CallToolResult {
	return ToolError{
		Code:    ErrBackend,
		Message: err.Error(),
		Details: map[string]any{"url": url},
	}.ToResult()
}

func analysisFailed(v analysis.View) *mcp.CallToolResult {
	return ToolError{
		Code:    ErrAnalysisEnded,
		Message: v.Error,
		Details: map[string]any{"session_id": v.SessionID, "messages": v.Messages},
	}.ToResult()
}
