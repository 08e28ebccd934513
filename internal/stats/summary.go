package stats

import (
	"time"

	"github.com/novelforge/tracker/internal/record"
)

// Summary bundles everything the word-count dashboard displays. The
// target word count comes from the project manifest and is display-only;
// it is never persisted alongside the chapters.
type Summary struct {
	TotalWords    int            `json:"total_words"`
	BaselineWords int            `json:"baseline_words"`
	Delta         int            `json:"delta"`
	TargetWords   int            `json:"target_words"`
	Progress      float64        `json:"progress"`
	Countdown     string         `json:"countdown,omitempty"`
	Chapters      int            `json:"chapters"`
	DoneChapters  int            `json:"done_chapters"`
	ByStatus      map[string]int `json:"by_status"`
}

// Compute builds a Summary from the chapters collection.
func Compute(chapters []record.Record, target int, deadline any, now time.Time) Summary {
	s := Summary{
		TotalWords:    TotalWords(chapters),
		BaselineWords: BaselineWords(chapters),
		TargetWords:   target,
		Countdown:     Countdown(deadline, now),
		Chapters:      len(chapters),
		ByStatus:      CountByStatus(chapters),
	}
	s.Delta = s.TotalWords - s.BaselineWords
	s.Progress = Progress(s.TotalWords, target)
	s.DoneChapters = s.ByStatus[record.StatusDone]
	return s
}
