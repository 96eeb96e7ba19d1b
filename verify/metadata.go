package verify

import (
	"bytes"
	"encoding/json"
)

// Metadata describes a constant mentioned by the closed forms. The service
// sends links as either one object or a list; only the first URL is kept.
type Metadata struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type link struct {
	URL string `json:"url"`
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  string          `json:"text"`
		Links json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	links, err := oneOrMany[link](raw.Links)
	if err != nil {
		return err
	}

	m.Text = raw.Text
	m.URL = ""
	if len(links) > 0 {
		m.URL = links[0].URL
	}
	return nil
}

// MetadataList accepts a single record or a list.
type MetadataList []Metadata

func (l *MetadataList) UnmarshalJSON(data []byte) error {
	items, err := oneOrMany[Metadata](data)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

func oneOrMany[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}
