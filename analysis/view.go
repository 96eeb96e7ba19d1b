package analysis

import (
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/series"
)

// Disclaimer accompanies every displayed limit.
const Disclaimer = "Note: the limit is estimated to high confidence using a PSLQ algorithm, but this is not a proof."

type State string

const (
	StateIdle          State = "idle"
	StateConnecting    State = "connecting"
	StateOpen          State = "open"
	StateStreaming     State = "streaming"
	StateConverged     State = "converged"      // stream ended normally after is_convergent true
	StateNotConvergent State = "not_convergent" // backend reported divergence
	StateClosed        State = "closed"         // stream ended normally, or closed by the owner
	StateFailed        State = "failed"         // transport error
)

// Terminal reports whether no further stream messages will be processed.
func (s State) Terminal() bool {
	switch s {
	case StateConverged, StateNotConvergent, StateClosed, StateFailed:
		return true
	}
	return false
}

type VerifyState string

const (
	VerifyNone     VerifyState = ""
	VerifyPending  VerifyState = "pending"
	VerifyDone     VerifyState = "done"
	VerifyFailed   VerifyState = "failed"
	VerifySkipped  VerifyState = "skipped"
	VerifyDisabled VerifyState = "disabled"
)

// ClosedForm is one candidate closed form for the limit.
type ClosedForm struct {
	Source      normalize.Source `json:"source" yaml:"source"`
	Raw         string           `json:"raw" yaml:"raw"`
	Display     string           `json:"display" yaml:"display"`
	Cleaned     string           `json:"cleaned" yaml:"cleaned"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Link        string           `json:"link,omitempty" yaml:"link,omitempty"`
}

// RelatedFraction is a "see also" entry.
type RelatedFraction struct {
	Raw     string `json:"raw" yaml:"raw"`
	Display string `json:"display" yaml:"display"`
	OK      bool   `json:"ok" yaml:"ok"`
}

// View is a point-in-time copy of a session, safe to hand to other
// goroutines.
type View struct {
	SessionID string  `json:"sessionId" yaml:"session_id"`
	State     State   `json:"state" yaml:"state"`
	Request   Request `json:"request" yaml:"request"`

	// Fraction is the rendered opening of the continued fraction; empty
	// when the polynomials could not be evaluated.
	Fraction string `json:"fraction,omitempty" yaml:"fraction,omitempty"`
	InputA   string `json:"inputA" yaml:"input_a"`
	InputB   string `json:"inputB" yaml:"input_b"`

	Convergent   *bool  `json:"convergent,omitempty" yaml:"convergent,omitempty"`
	Limit        string `json:"limit,omitempty" yaml:"limit,omitempty"`
	LimitDisplay string `json:"limitDisplay,omitempty" yaml:"limit_display,omitempty"`

	ClosedForms  []ClosedForm      `json:"closedForms" yaml:"closed_forms"`
	SeeAlso      []RelatedFraction `json:"seeAlso" yaml:"see_also"`
	Metadata     []metadata.Entry  `json:"metadata" yaml:"metadata"`
	Verification VerifyState       `json:"verification,omitempty" yaml:"verification,omitempty"`

	Series  map[series.Name][]series.Point `json:"series,omitempty" yaml:"-"`
	Summary []series.Summary               `json:"summary" yaml:"summary"`

	Messages   int    `json:"messages" yaml:"messages"`
	Dropped    int    `json:"dropped" yaml:"dropped"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Disclaimer string `json:"disclaimer,omitempty" yaml:"disclaimer,omitempty"`
}

// HasLimit reports whether a limit has been received.
func (v View) HasLimit() bool {
	return v.Limit != ""
}

// NotConvergent reports whether the backend declared divergence.
func (v View) NotConvergent() bool {
	return v.State == StateNotConvergent
}
