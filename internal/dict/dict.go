// Package dict loads steno dictionaries and answers stroke lookups.
//
// Dictionary files are JSON objects in one of two orientations: translation
// keyed (values are a stroke string or a list of stroke strings) or stroke
// keyed (values are plain translation strings). The orientation is inferred
// from the entry shapes and both normalize to translation→strokes.
package dict

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/verte-zerg/stenotui/internal/text"
)

// Orientation identifies which way a dictionary file maps keys to values.
type Orientation int

const (
	// TranslationKeyed maps translation text to stroke notations.
	TranslationKeyed Orientation = iota

	// StrokeKeyed maps stroke notation to translation text.
	StrokeKeyed
)

func (o Orientation) String() string {
	if o == StrokeKeyed {
		return "stroke-keyed"
	}
	return "translation-keyed"
}

// A dictionary is treated as stroke-keyed when at least a quarter of its keys
// look like stroke notation and at least three quarters of its values are
// plain strings. Always at least one of each.
const (
	strokeKeyFractionNum   = 1
	strokeKeyFractionDen   = 4
	stringValueFractionNum = 3
	stringValueFractionDen = 4
)

// hintTrimSet is the outer punctuation stripped from hint queries.
const hintTrimSet = `.,!?;:"'()[]{}`

// Dictionary is a read-only mapping from normalized translation text to the
// ordered stroke notations that produce it.
type Dictionary struct {
	entries     map[string][]string
	orientation Orientation
}

// rawEntry is one top-level key/value pair in document order.
type rawEntry struct {
	key   string
	value json.RawMessage
}

// Parse reads a dictionary in either orientation from r and normalizes it to
// translation→strokes. Malformed individual entries are dropped; a top-level
// value that is not an object is an error.
func Parse(r io.Reader) (*Dictionary, error) {
	raw, err := decodeEntries(r)
	if err != nil {
		return nil, err
	}
	orientation := classifyOrientation(raw)
	var entries map[string][]string
	if orientation == StrokeKeyed {
		entries = fromStrokeKeyed(raw)
	} else {
		entries = fromTranslationKeyed(raw)
	}
	return &Dictionary{entries: entries, orientation: orientation}, nil
}

// LoadFile reads a dictionary from the provided file path.
func LoadFile(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dictionary.
			_ = cerr
		}
	}()
	return Parse(file)
}

// Len returns the number of distinct translations.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Orientation returns the orientation detected at load time.
func (d *Dictionary) Orientation() Orientation {
	return d.orientation
}

// Strokes returns the stroke notations for a translation, or nil when the
// translation is unknown. The argument is normalized before lookup.
func (d *Dictionary) Strokes(translation string) []string {
	return d.entries[text.Normalize(translation)]
}

// LookupHint returns the strokes for a target as the user sees it: the query
// is normalized, stripped of outer punctuation, and lowercased. Case folding
// happens only here, never when judging correctness.
func (d *Dictionary) LookupHint(target string) []string {
	q := strings.ToLower(strings.Trim(text.Normalize(target), hintTrimSet))
	return d.entries[q]
}

// Translations returns all known translations in sorted order.
func (d *Dictionary) Translations() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeEntries streams the top-level object so entry order is preserved.
func decodeEntries(r io.Reader) ([]rawEntry, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("dictionary must be a JSON object")
	}

	var entries []rawEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse dictionary: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse dictionary: unexpected key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary: %w", err)
		}
		entries = append(entries, rawEntry{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("dictionary has trailing data")
	}
	return entries, nil
}

// classifyOrientation applies the stroke-keyed heuristic over all entries.
func classifyOrientation(entries []rawEntry) Orientation {
	n := len(entries)
	if n == 0 {
		return TranslationKeyed
	}
	strokeKeys := 0
	stringValues := 0
	for _, e := range entries {
		if looksLikeStroke(e.key) {
			strokeKeys++
		}
		if _, ok := asString(e.value); ok {
			stringValues++
		}
	}
	if strokeKeys >= atLeastOne(n*strokeKeyFractionNum/strokeKeyFractionDen) &&
		stringValues >= atLeastOne(n*stringValueFractionNum/stringValueFractionDen) {
		return StrokeKeyed
	}
	return TranslationKeyed
}

// looksLikeStroke reports whether s is plausible steno notation: only ASCII
// letters, digits, and the separators "-", "/" and "*", with at least one
// separator present.
func looksLikeStroke(s string) bool {
	hasSeparator := false
	for _, r := range s {
		switch {
		case r == '-' || r == '/' || r == '*':
			hasSeparator = true
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return hasSeparator
}

// fromStrokeKeyed inverts stroke→translation entries. A translation seen
// under several strokes accumulates them in document order. Entries with
// non-string values are skipped.
func fromStrokeKeyed(entries []rawEntry) map[string][]string {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		translation, ok := asString(e.value)
		if !ok {
			continue
		}
		t := text.Normalize(translation)
		out[t] = append(out[t], e.key)
	}
	return out
}

// fromTranslationKeyed accepts a single stroke string (wrapped as a
// one-element list) or a list of stroke strings per translation. Entries with
// any other value shape are dropped. A repeated translation keeps its last
// value.
func fromTranslationKeyed(entries []rawEntry) map[string][]string {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		t := text.Normalize(e.key)
		if single, ok := asString(e.value); ok {
			out[t] = []string{single}
			continue
		}
		if list, ok := asStringList(e.value); ok {
			out[t] = list
		}
	}
	return out
}

// asString decodes raw as a JSON string. The first-byte check filters out
// null, which otherwise unmarshals into a string without error.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// asStringList decodes raw as a JSON array of strings.
func asStringList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
