package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Unknown is reported for a citation field the chunk carries no metadata for.
const Unknown = "Unknown"

// PageRef is a citation page exactly as it travels on the wire: either a
// JSON number or a JSON string. The wire spelling is kept so that
// rendering never reformats it.
type PageRef struct {
	text    string
	numeric bool
}

// PageNumber returns a numeric page reference.
func PageNumber(n int) PageRef {
	return PageRef{text: strconv.Itoa(n), numeric: true}
}

// PageLabel returns a textual page reference.
func PageLabel(s string) PageRef {
	return PageRef{text: s}
}

func (p PageRef) String() string { return p.text }

// IsNumber reports whether the reference was a JSON number.
func (p PageRef) IsNumber() bool { return p.numeric }

func (p PageRef) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}

func (p *PageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = PageRef{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PageRef{text: s}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*p = PageRef{text: n.String(), numeric: true}
	}
	return nil
}
