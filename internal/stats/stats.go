// Package stats derives summary statistics from the chapters
// collection: total word count, delta from the project baseline, and a
// deadline countdown. All functions are pure and never fail on
// malformed records; a field that cannot be interpreted degrades to a
// default or an unknown marker instead of an error.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/novelforge/tracker/internal/record"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Display markers produced by Countdown.
const (
	// OverdueMarker is shown for deadlines in the past.
	OverdueMarker = "⚠️ overdue"
	// UnknownMarker is shown for deadlines that cannot be parsed.
	UnknownMarker = "—"
)

// deadlineParser handles natural-language deadline values ("next
// friday", "in 2 weeks") in addition to the ISO layouts tried first.
var deadlineParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// TotalWords sums each chapter's word_count, treating a missing field
// as 0.
func TotalWords(chapters []record.Record) int {
	total := 0
	for _, ch := range chapters {
		total += ch.Int(record.FieldWordCount)
	}
	return total
}

// BaselineWords sums each chapter's start_words, falling back to that
// chapter's word_count when start_words is absent, and to 0 when both
// are absent.
func BaselineWords(chapters []record.Record) int {
	total := 0
	for _, ch := range chapters {
		if ch.Has(record.FieldStartWords) {
			total += ch.Int(record.FieldStartWords)
		} else {
			total += ch.Int(record.FieldWordCount)
		}
	}
	return total
}

// Delta is the word count gained (or lost) since the project baseline.
func Delta(chapters []record.Record) int {
	return TotalWords(chapters) - BaselineWords(chapters)
}

// Progress returns completion against a target word count, capped at
// 1.0. A target of zero or less reports 0 rather than dividing by it.
func Progress(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	p := float64(total) / float64(target)
	if p > 1.0 {
		return 1.0
	}
	return p
}

// CountByStatus tallies chapters per status value.
func CountByStatus(chapters []record.Record) map[string]int {
	counts := make(map[string]int)
	for _, ch := range chapters {
		counts[ch.String(record.FieldStatus)]++
	}
	return counts
}

// Countdown renders a deadline as a human-readable remaining-days
// count: "N d" for a deadline N whole days away, an overdue marker for
// a deadline in the past, "" when the deadline is absent, and an
// unknown marker when it cannot be parsed. Malformed input never causes
// an error.
func Countdown(deadline any, now time.Time) string {
	if isAbsent(deadline) {
		return ""
	}

	t, ok := parseDeadline(deadline, now)
	if !ok {
		return UnknownMarker
	}

	// Whole days, floored, so a deadline earlier today already counts
	// as overdue rather than "0 d".
	days := int(math.Floor(t.Sub(now).Hours() / 24))
	if days < 0 {
		return OverdueMarker
	}
	return fmt.Sprintf("%d d", days)
}

// isAbsent distinguishes "no deadline set" from "deadline set but
// unparseable"; the two display differently.
func isAbsent(deadline any) bool {
	switch v := deadline.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v == nil || v.IsZero()
	default:
		return false
	}
}

// isoLayouts are tried before natural-language parsing.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDeadline interprets the loosely typed deadline value. Returns
// ok=false for anything unparseable; absence is handled by the caller.
func parseDeadline(deadline any, now time.Time) (time.Time, bool) {
	switch v := deadline.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
				return t, true
			}
		}
		r, err := deadlineParser.Parse(s, now)
		if err != nil || r == nil {
			return time.Time{}, false
		}
		return r.Time, true
	default:
		return time.Time{}, false
	}
}
