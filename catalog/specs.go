package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Spec is one labelled specification value. Key is stable across locales;
// Label and Value are locale text.
type Spec struct {
	Key   string
	Label string
	Value string
}

// Specs is an ordered set of specifications. It decodes from a JSON object
// and keeps the object's key order:
//
//	{"processor": {"label": "Processor", "value": "ARM Cortex A7"},
//	 "audio": {"label": "Audio", "value": ["Buzzer", "TTS"]}}
type Specs []Spec

// UnmarshalJSON implements json.Unmarshaler.
func (s *Specs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: specs must be an object, got %v", tok)
	}
	var out Specs
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: unexpected spec key %v", tok)
		}
		var raw struct {
			Label string    `json:"label"`
			Value specValue `json:"value"`
		}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("catalog: spec %q: %w", key, err)
		}
		out = append(out, Spec{Key: key, Label: raw.Label, Value: string(raw.Value)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Visible returns the specs that have a value, in order.
func (s Specs) Visible() Specs {
	out := make(Specs, 0, len(s))
	for _, sp := range s {
		if strings.TrimSpace(sp.Value) == "" {
			continue
		}
		out = append(out, sp)
	}
	return out
}

// String renders the spec as "Label: Value".
func (sp Spec) String() string {
	return sp.Label + ": " + sp.Value
}

// specValue accepts a string or a list of strings; lists are joined with ", ".
type specValue string

func (v *specValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*v = specValue(strings.Join(parts, ", "))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*v = specValue(str)
	return nil
}
