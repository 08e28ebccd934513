package importer

import (
	"context"

	"github.com/novelforge/tracker/internal/record"
)

func init() {
	Register(KindDocx, func() Importer { return docxImporter{} })
	Register(KindGoogleDoc, func() Importer { return gdocImporter{} })
}

// docxImporter will parse chapters out of a Word document.
// TODO: wire a real .docx parser; the chapter-splitting heuristics are
// sketched in the import wizard notes.
type docxImporter struct{}

func (docxImporter) Import(ctx context.Context, src string) ([]record.Record, error) {
	return nil, ErrNotImplemented
}

// gdocImporter will fetch and parse a Google Docs document by URL.
type gdocImporter struct{}

func (gdocImporter) Import(ctx context.Context, src string) ([]record.Record, error) {
	return nil, ErrNotImplemented
}
