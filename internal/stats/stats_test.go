package stats

import (
	"testing"
	"time"

	"github.com/novelforge/tracker/internal/record"
)

func TestAggregates(t *testing.T) {
	// Two chapters with explicit baselines, one without.
	chapters := []record.Record{
		{"title": "ch1", "word_count": 1000, "start_words": 900},
		{"title": "ch2", "word_count": 500, "start_words": 400},
		{"title": "ch3"}, // no counts at all
	}

	if got := TotalWords(chapters); got != 1500 {
		t.Errorf("TotalWords() = %d, want 1500", got)
	}
	if got := BaselineWords(chapters); got != 1300 {
		t.Errorf("BaselineWords() = %d, want 1300", got)
	}
	if got := Delta(chapters); got != 200 {
		t.Errorf("Delta() = %d, want +200", got)
	}
}

func TestBaselineFallsBackToWordCount(t *testing.T) {
	// A chapter without start_words contributes its current count to the
	// baseline, so it never inflates the delta.
	chapters := []record.Record{
		{"word_count": 2000},
	}
	if got := Delta(chapters); got != 0 {
		t.Errorf("Delta() = %d, want 0 for chapter without start_words", got)
	}

	// An explicit zero baseline is honored, not treated as absent.
	chapters = []record.Record{
		{"word_count": 2000, "start_words": 0},
	}
	if got := Delta(chapters); got != 2000 {
		t.Errorf("Delta() = %d, want 2000 for explicit zero baseline", got)
	}
}

func TestMalformedCountsDegradeToZero(t *testing.T) {
	chapters := []record.Record{
		{"word_count": "lots", "start_words": nil},
		{"word_count": 100},
	}
	if got := TotalWords(chapters); got != 100 {
		t.Errorf("TotalWords() = %d, want 100 (malformed counts read as 0)", got)
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		target int
		want   float64
	}{
		{"halfway", 45000, 90000, 0.5},
		{"past target caps at one", 100000, 90000, 1.0},
		{"zero target", 45000, 0, 0},
		{"negative target", 45000, -1, 0},
		{"nothing written", 0, 90000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.total, tt.target); got != tt.want {
				t.Errorf("Progress(%d, %d) = %v, want %v", tt.total, tt.target, got, tt.want)
			}
		})
	}
}

func TestCountByStatus(t *testing.T) {
	chapters := []record.Record{
		{"status": "Draft"},
		{"status": "Draft"},
		{"status": record.StatusDone},
		{}, // no status
	}

	counts := CountByStatus(chapters)
	if counts["Draft"] != 2 {
		t.Errorf("Draft count = %d, want 2", counts["Draft"])
	}
	if counts[record.StatusDone] != 1 {
		t.Errorf("Done count = %d, want 1", counts[record.StatusDone])
	}
	if counts[""] != 1 {
		t.Errorf("missing-status count = %d, want 1", counts[""])
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline any
		want     string
	}{
		{"absent nil", nil, ""},
		{"absent empty string", "", ""},
		{"absent blank string", "   ", ""},
		{"absent zero time", time.Time{}, ""},
		// Date-only deadlines parse as midnight, so whole-day flooring
		// against a mid-day now yields one less than the calendar gap.
		{"three calendar days out", "2026-08-30", "2 d"},
		{"tomorrow", "2026-08-28", "0 d"},
		{"yesterday", "2026-08-26", OverdueMarker},
		{"earlier today", "2026-08-27", OverdueMarker},
		{"far future", "2026-12-25", "119 d"},
		{"time value", now.Add(72 * time.Hour), "3 d"},
		{"rfc3339", "2026-09-03T10:00:00Z", "7 d"},
		{"unparseable text", "whenever it's done", UnknownMarker},
		{"wrong type", []int{1, 2}, UnknownMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Countdown(tt.deadline, now); got != tt.want {
				t.Errorf("Countdown(%v) = %q, want %q", tt.deadline, got, tt.want)
			}
		})
	}
}

func TestCountdownNaturalLanguage(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	got := Countdown("in 2 weeks", now)
	if got == "" || got == UnknownMarker || got == OverdueMarker {
		t.Fatalf("Countdown(in 2 weeks) = %q, want a day count", got)
	}
}

func TestComputeSummary(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	chapters := []record.Record{
		{"title": "ch1", "status": "Draft", "word_count": 1000, "start_words": 900},
		{"title": "ch2", "status": record.StatusDone, "word_count": 500, "start_words": 400},
	}

	s := Compute(chapters, 90000, "2026-08-30", now)

	if s.TotalWords != 1500 || s.BaselineWords != 1300 || s.Delta != 200 {
		t.Errorf("Summary counts = %d/%d/%+d, want 1500/1300/+200", s.TotalWords, s.BaselineWords, s.Delta)
	}
	if s.TargetWords != 90000 {
		t.Errorf("TargetWords = %d", s.TargetWords)
	}
	if s.Progress != 1500.0/90000.0 {
		t.Errorf("Progress = %v", s.Progress)
	}
	if s.Countdown != "2 d" {
		t.Errorf("Countdown = %q, want \"2 d\"", s.Countdown)
	}
	if s.Chapters != 2 || s.DoneChapters != 1 {
		t.Errorf("Chapters = %d, DoneChapters = %d", s.Chapters, s.DoneChapters)
	}
	if s.ByStatus["Draft"] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
}

func TestComputeSummaryEmptyManuscript(t *testing.T) {
	s := Compute(nil, 90000, nil, time.Now())
	if s.TotalWords != 0 || s.Delta != 0 || s.Progress != 0 || s.Countdown != "" {
		t.Errorf("empty manuscript summary = %+v", s)
	}
}
