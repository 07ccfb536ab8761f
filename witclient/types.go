package witclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Response is the subset of the /message payload we consume
type Response struct {
	Text     string              `json:"text"`
	Entities map[string][]Entity `json:"entities"`
}

// Entity is one extracted span
type Entity struct {
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Body       string     `json:"body"`
	Value      EntityText `json:"value"`
	Confidence float64    `json:"confidence"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
}

// EntityText accepts string, number or bool values and keeps their text form.
// Built-in entities such as wit/number return numeric values. Object and
// array values (wit/datetime intervals and the like) decode to "".
type EntityText string

func (v *EntityText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = EntityText(s)
	case '{', '[':
		*v = ""
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("entity value: %w", err)
		}
		*v = EntityText(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("entity value: %w", err)
		}
		*v = EntityText(n.String())
	}
	return nil
}

// First returns the value of the first entity in group, if any
func (r *Response) First(group string) (string, bool) {
	if r == nil {
		return "", false
	}
	values := r.Entities[group]
	if len(values) == 0 {
		return "", false
	}
	return string(values[0].Value), true
}

// All returns the values of every entity in group, in response order. Never nil.
func (r *Response) All(group string) []string {
	if r == nil {
		return []string{}
	}
	values := r.Entities[group]
	out := make([]string, 0, len(values))
	for _, e := range values {
		out = append(out, string(e.Value))
	}
	return out
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("wit api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("wit api returned status %d: %s", e.StatusCode, e.Body)
}
