package merge

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// EditorConfig sets keys in section of an .editorconfig document. Existing
// keys with a different value are kept unless overwrite is set, and are
// reported. A missing document gets "root = true"; a missing section is
// appended.
func EditorConfig(content []byte, section string, values map[string]string, overwrite bool) ([]byte, []string) {
	header := "[" + section + "]"
	lines := splitLines(string(content))
	if len(lines) == 0 {
		lines = []string{"root = true"}
	}

	start, end := -1, len(lines)
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if start < 0 {
			if t == header {
				start = i
			}
			continue
		}
		if strings.HasPrefix(t, "[") {
			end = i
			break
		}
	}

	if start < 0 {
		if lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, header)
		start, end = len(lines)-1, len(lines)
	}

	var conflicts []string
	pending := maps.Clone(values)
	for i := start + 1; i < end; i++ {
		key, val, ok := parseProperty(lines[i])
		if !ok {
			continue
		}
		want, set := pending[key]
		if !set {
			continue
		}
		delete(pending, key)
		if val == want {
			continue
		}
		conflicts = append(conflicts, fmt.Sprintf("%s.%s", section, key))
		if overwrite {
			lines[i] = key + " = " + want
		}
	}

	// New keys go after the last non-blank line of the section.
	insertAt := end
	for insertAt > start+1 && strings.TrimSpace(lines[insertAt-1]) == "" {
		insertAt--
	}
	var added []string
	for _, k := range slices.Sorted(maps.Keys(pending)) {
		added = append(added, k+" = "+pending[k])
	}
	lines = slices.Insert(lines, insertAt, added...)

	slices.Sort(conflicts)
	return []byte(strings.Join(lines, "\n") + "\n"), conflicts
}

// parseProperty splits "key = value", ignoring comments and blank lines.
// Keys are lower-cased as editorconfig keys are case-insensitive.
func parseProperty(line string) (string, string, bool) {
	t := strings.TrimSpace(line)
	if t == "" || t[0] == '#' || t[0] == ';' {
		return "", "", false
	}
	k, v, ok := strings.Cut(t, "=")
	if !ok {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v), true
}
