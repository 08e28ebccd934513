// Package record defines the loosely typed records stored in tracker
// collections.
//
// A Record is a mapping from field name to value. The store does not fix
// a schema; each collection has a conventional set of fields (see the
// Field* constants), and any field a given component does not interpret
// passes through reads, writes, and snapshots unchanged. Typed views
// (Chapter, Todo, EditPass) interpret the conventional fields while
// preserving everything else in their Extra map.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Collection names known to the tracker.
const (
	Chapters   = "chapters"
	Todos      = "todos"
	EditPasses = "edit_passes"
)

// Conventional field names per collection.
const (
	FieldNumber     = "#"
	FieldTitle      = "title"
	FieldStatus     = "status"
	FieldPriority   = "priority"
	FieldWordCount  = "word_count"
	FieldStartWords = "start_words"
	FieldDeadline   = "deadline"
	FieldLastEdited = "last_edited"

	FieldTask = "task"
	FieldDone = "done"

	FieldFocus   = "focus"
	FieldChapter = "chapter"
)

// Chapter status vocabulary. Display layers offer these as options; the
// store never enforces them.
var StatusOptions = []string{"Not Started", "Draft", "Line-Edits", StatusDone}

// StatusDone marks a finished chapter.
const StatusDone = "✅ Done"

// PriorityLabels maps the priority markers used in chapter records to
// their human-readable meaning.
var PriorityLabels = map[string]string{
	"🟥": "High",
	"🟧": "Medium-High",
	"🟨": "Medium",
	"🟩": "Low",
}

// FocusOptions is the vocabulary for an editing pass's focus area.
var FocusOptions = []string{"Pacing", "World-building", "Prose Sparkle", "Character Arc", "Theme"}

// Record is one row of a collection: field name to loosely typed value
// (string, number, boolean, or date).
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the field is present and non-nil.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the field as a string, or "" when absent or not
// string-like.
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the field as an int, or 0 when absent or unparseable.
// JSON decoding yields float64 and YAML yields int, so both are handled.
func (r Record) Int(field string) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Bool returns the field as a bool, or false when absent or not
// bool-like.
func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		return b
	default:
		return false
	}
}

// IsBlank reports whether every field of the record is empty or absent.
// Editors persist scratch rows as all-blank records; commit paths use
// this to drop them.
func (r Record) IsBlank() bool {
	for _, v := range r {
		if !isEmptyValue(v) {
			return false
		}
	}
	return true
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}

// DropBlank returns records with all-blank rows removed, preserving
// order. The input slice is not modified.
func DropBlank(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IsBlank() {
			continue
		}
		out = append(out, r)
	}
	return out
}
