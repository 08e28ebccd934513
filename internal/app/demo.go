package app

import "github.com/novelforge/tracker/internal/record"

// DemoChapters is the first-run content seeded into an empty store so
// the dashboard has something to show before a real manuscript exists.
func DemoChapters() []record.Record {
	return []record.Record{
		{
			record.FieldNumber:     "1",
			record.FieldTitle:      "The Ash Road",
			record.FieldStatus:     "Line-Edits",
			record.FieldPriority:   "🟥",
			record.FieldWordCount:  4120,
			record.FieldStartWords: 3800,
		},
		{
			record.FieldNumber:     "2",
			record.FieldTitle:      "Kaela's Bargain",
			record.FieldStatus:     "Draft",
			record.FieldPriority:   "🟨",
			record.FieldWordCount:  3650,
			record.FieldStartWords: 3650,
		},
		{
			record.FieldNumber:    "3",
			record.FieldTitle:     "The Hollow Court",
			record.FieldStatus:    "Not Started",
			record.FieldPriority:  "🟩",
			record.FieldWordCount: 0,
		},
	}
}
