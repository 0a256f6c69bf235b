package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Objects merges src into dst in place. Missing keys are added, nested
// objects are merged recursively and arrays gain the src elements they do
// not already contain. When both sides hold different scalars, dst wins
// unless overwrite is set; the dotted path of every such key is returned.
func Objects(dst, src map[string]any, overwrite bool) []string {
	return mergeObjects(dst, src, "", overwrite)
}

func mergeObjects(dst, src map[string]any, prefix string, overwrite bool) []string {
	var conflicts []string
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		sv := src[k]
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}

		dv, exists := dst[k]
		if !exists {
			dst[k] = sv
			continue
		}

		switch d := dv.(type) {
		case map[string]any:
			if s, ok := sv.(map[string]any); ok {
				conflicts = append(conflicts, mergeObjects(d, s, path, overwrite)...)
				continue
			}
		case []any:
			if s, ok := sv.([]any); ok {
				dst[k] = unionArrays(d, s)
				continue
			}
		}

		if !reflect.DeepEqual(dv, sv) {
			conflicts = append(conflicts, path)
			if overwrite {
				dst[k] = sv
			}
		}
	}
	return conflicts
}

func unionArrays(dst, src []any) []any {
	out := slices.Clone(dst)
	for _, s := range src {
		if !slices.ContainsFunc(out, func(d any) bool { return reflect.DeepEqual(d, s) }) {
			out = append(out, s)
		}
	}
	return out
}

// DecodeObject parses a JSON object. Empty or whitespace-only input yields
// an empty object.
func DecodeObject(name string, data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("merge: parse %s: %w", name, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("merge: parse %s: top-level value is not an object", name)
	}
	return obj, nil
}

// EncodeObject renders obj as two-space indented JSON with a final newline
// and without HTML escaping.
func EncodeObject(obj map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToObject converts a Go value into the generic shape DecodeObject yields,
// so it can be merged with decoded documents.
func ToObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeObject(fmt.Sprintf("%T", v), data)
}

// FormatConflicts joins conflict paths for messages.
func FormatConflicts(paths []string) string {
	return strings.Join(paths, ", ")
}
