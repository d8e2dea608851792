package platform

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID holds an identifier that upstream APIs send either as a string or a number.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Response is the undecoded JSON object returned by write calls.
type Response map[string]any

// idPaths are checked in order by Response.ID.
var idPaths = []string{"id", "thread.id", "reply.id", "comment.id", "post.id", "data.id"}

// ID returns the id of the created object, or "" when none is present.
func (r Response) ID() string {
	for _, path := range idPaths {
		if v, ok := lookup(r, path); ok {
			if s := scalarString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Lookup returns the scalar at a dotted path as a string, or "".
func (r Response) Lookup(path string) string {
	v, ok := lookup(r, path)
	if !ok {
		return ""
	}
	return scalarString(v)
}

func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}
