package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pcfscope/server/series"
)

// Kind tags a stream message by the single field it carries.
type Kind string

const (
	KindLimit        Kind = "limit"
	KindConvergent   Kind = "is_convergent"
	KindConvergesTo  Kind = "converges_to"
	KindSeeAlso      Kind = "see_also"
	KindError        Kind = Kind(series.Error)
	KindDelta        Kind = Kind(series.Delta)
	KindReducedDelta Kind = Kind(series.ReducedDelta)
)

var kinds = []Kind{KindLimit, KindConvergent, KindConvergesTo, KindSeeAlso, KindError, KindDelta, KindReducedDelta}

var ErrMalformed = errors.New("malformed stream message")

// Message is one decoded backend message. Only the field matching Kind is
// set.
type Message struct {
	Kind        Kind
	Limit       string
	Convergent  *bool // nil when the backend sent no verdict (null)
	Expressions []string
	Points      []series.Point
}

// Series reports which series a batch message extends.
func (m Message) Series() (series.Name, bool) {
	switch m.Kind {
	case KindError, KindDelta, KindReducedDelta:
		return series.Name(m.Kind), true
	}
	return "", false
}

// Decode classifies a raw frame. Exactly one known field must be present.
// List payloads may arrive either as JSON arrays or as strings holding
// JSON arrays.
func Decode(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var (
		msg   Message
		found int
	)
	for _, k := range kinds {
		raw, ok := fields[string(k)]
		if !ok {
			continue
		}
		found++
		msg.Kind = k
		if err := decodeField(&msg, raw); err != nil {
			return Message{}, fmt.Errorf("%w: %s: %w", ErrMalformed, k, err)
		}
	}
	switch found {
	case 0:
		return Message{}, fmt.Errorf("%w: no known field", ErrMalformed)
	case 1:
		return msg, nil
	}
	return Message{}, fmt.Errorf("%w: %d fields in one message", ErrMalformed, found)
}

func decodeField(msg *Message, raw json.RawMessage) error {
	switch msg.Kind {
	case KindLimit:
		v, err := scalarString(raw)
		if err != nil {
			return err
		}
		msg.Limit = v
		return nil
	case KindConvergent:
		return json.Unmarshal(raw, &msg.Convergent)
	case KindConvergesTo, KindSeeAlso:
		return unmarshalEmbedded(raw, &msg.Expressions)
	default:
		var pts []wirePoint
		if err := unmarshalEmbedded(raw, &pts); err != nil {
			return err
		}
		msg.Points = make([]series.Point, 0, len(pts))
		for _, p := range pts {
			sp, err := p.point()
			if err != nil {
				return err
			}
			msg.Points = append(msg.Points, sp)
		}
		return nil
	}
}

// unmarshalEmbedded decodes raw into v, unwrapping one level of string
// encoding first when raw is a JSON string.
func unmarshalEmbedded(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return err
		}
		raw = json.RawMessage(inner)
	}
	return json.Unmarshal(raw, v)
}

// scalarString accepts a JSON string or number and returns its text.
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

type wirePoint struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

func (p wirePoint) point() (series.Point, error) {
	xs, err := scalarString(p.X)
	if err != nil {
		return series.Point{}, fmt.Errorf("x: %w", err)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return series.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := scalarString(p.Y)
	if err != nil {
		return series.Point{}, fmt.Errorf("y: %w", err)
	}
	return series.Point{X: int(x), Y: y}, nil
}

// Encode serialises the request sent when the stream opens.
func Encode(req Request) ([]byte, error) {
	return json.Marshal(req)
}
