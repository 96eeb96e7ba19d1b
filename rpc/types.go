// Package rpc defines JSON-RPC 2.0 wire format types for WebSocket communication.
// These types represent the params and result structures for all RPC methods.
package rpc

import (
	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/settings"
)

// Client → Server

type AuthParams struct {
	Token string `json:"token"`
}

type AuthResult struct {
	Version             string `json:"version"`
	BackendURL          string `json:"backend_url"`
	DefaultDepth        int    `json:"default_depth"`
	MaxDepth            int    `json:"max_depth"`
	MaxExpressionLength int    `json:"max_expression_length"`
}

// Analysis namespace

type AnalysisStartParams struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Depth int    `json:"depth,omitempty"` // 0 = configured default
}

type AnalysisStartResult struct {
	SessionID string        `json:"session_id"`
	View      analysis.View `json:"view"`
}

type AnalysisGetResult struct {
	View *analysis.View `json:"view"` // nil when no analysis is running
}

type AnalysisSubscribeResult struct {
	ID   string         `json:"id"`
	View *analysis.View `json:"view,omitempty"`
}

// Expression namespace

type ExpressionNormalizeParams struct {
	Expression string           `json:"expression"`
	Source     normalize.Source `json:"source,omitempty"` // default lirec
	Prefix     string           `json:"prefix,omitempty"`
}

type ExpressionNormalizeResult struct {
	normalize.Result
	Metadata []metadata.Entry `json:"metadata"`
}

type FractionFormatParams struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Symbol string `json:"symbol,omitempty"` // inferred when empty
}

type FractionFormatResult struct {
	fraction.Result
	Symbol string `json:"symbol"`
}

type RelationFormatParams struct {
	Relation string `json:"relation"`
}

type RelationFormatResult struct {
	Display  string           `json:"display"`
	OK       bool             `json:"ok"`
	Metadata []metadata.Entry `json:"metadata"`
}

// Constant namespace

type ConstantLookupParams struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

type ConstantListResult struct {
	Constants []catalog.Definition `json:"constants"`
}

// Settings namespace

type SettingsSubscribeResult struct {
	ID       string            `json:"id"`
	Settings settings.Settings `json:"settings"`
}

type SettingsUpdateParams struct {
	Settings settings.Settings `json:"settings"`
}

// Server → Client notifications are sent by the watch package:
// settings.changed {id, settings} and analysis.updated {id, view}.
