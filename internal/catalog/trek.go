package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	keyName    = "name"
	keyRegion  = "region"
	keyCountry = "country"
)

// Trek is one listed trekking route. Name, Region and Country are read from
// string-typed "name", "region" and "country" keys; every other key is kept
// verbatim in Extra and re-emitted in its original position. A known key
// holding a non-string value (null, number, object) is also kept in Extra and
// leaves the typed field empty.
//
// A catalog element that is not an object is carried as an opaque value: it
// has no name, region or country and is written back exactly as read.
type Trek struct {
	Name    string
	Region  string
	Country string
	Extra   map[string]json.RawMessage

	// keys is non-nil once the trek was decoded from an object.
	keys []string
	raw  json.RawMessage
}

// Opaque reports whether the trek was decoded from a non-object element.
func (t Trek) Opaque() bool {
	return t.raw != nil
}

func (t *Trek) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return fmt.Errorf("invalid trek element %q", trimmed)
		}
		*t = Trek{raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}
	out := Trek{keys: []string{}}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if !seen[key] {
			seen[key] = true
			out.keys = append(out.keys, key)
		}
		out.assign(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

func (t *Trek) assign(key string, raw json.RawMessage) {
	var dst *string
	switch key {
	case keyName:
		dst = &t.Name
	case keyRegion:
		dst = &t.Region
	case keyCountry:
		dst = &t.Country
	}
	if dst != nil && isJSONString(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*dst = s
			delete(t.Extra, key)
			return
		}
	}
	if dst != nil {
		*dst = ""
	}
	if t.Extra == nil {
		t.Extra = map[string]json.RawMessage{}
	}
	t.Extra[key] = append(json.RawMessage(nil), raw...)
}

func (t Trek) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, key := range t.fieldOrder() {
		value, ok, err := t.fieldValue(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fieldOrder returns the source key order, or a canonical order for records
// built in code.
func (t Trek) fieldOrder() []string {
	if t.keys != nil {
		order := append([]string(nil), t.keys...)
		present := map[string]bool{}
		for _, k := range order {
			present[k] = true
		}
		extra := make([]string, 0)
		for k := range t.Extra {
			if !present[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return append(order, extra...)
	}
	order := []string{keyName}
	if t.Region != "" {
		order = append(order, keyRegion)
	}
	if t.Country != "" {
		order = append(order, keyCountry)
	}
	extra := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		if k == keyName || k == keyRegion || k == keyCountry {
			continue
		}
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(order, extra...)
}

func (t Trek) fieldValue(key string) ([]byte, bool, error) {
	if raw, ok := t.Extra[key]; ok {
		return raw, true, nil
	}
	var s string
	switch key {
	case keyName:
		s = t.Name
	case keyRegion:
		s = t.Region
	case keyCountry:
		s = t.Country
	default:
		return nil, false, nil
	}
	var buf bytes.Buffer
	if err := writeString(&buf, s); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func isJSONString(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '"'
}
