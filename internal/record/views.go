package record

// Typed views over the conventional fields of each collection. A view
// interprets the fields it knows about and carries everything else in
// Extra, so round-tripping a record through a view never strips fields
// the tracker does not understand.

// Chapter is the typed view of a record in the chapters collection.
type Chapter struct {
	Number     string
	Title      string
	Status     string
	Priority   string
	WordCount  int
	StartWords int
	// HasStartWords distinguishes an explicit zero from an absent
	// start_words field; baseline math falls back to WordCount when
	// the field is absent.
	HasStartWords bool
	Deadline      any
	LastEdited    string
	Extra         Record
}

// ChapterView interprets a raw record as a Chapter.
func ChapterView(r Record) Chapter {
	ch := Chapter{
		Number:        r.String(FieldNumber),
		Title:         r.String(FieldTitle),
		Status:        r.String(FieldStatus),
		Priority:      r.String(FieldPriority),
		WordCount:     r.Int(FieldWordCount),
		StartWords:    r.Int(FieldStartWords),
		HasStartWords: r.Has(FieldStartWords),
		Deadline:      r[FieldDeadline],
		LastEdited:    r.String(FieldLastEdited),
		Extra:         Record{},
	}
	for k, v := range r {
		switch k {
		case FieldNumber, FieldTitle, FieldStatus, FieldPriority,
			FieldWordCount, FieldStartWords, FieldDeadline, FieldLastEdited:
		default:
			ch.Extra[k] = v
		}
	}
	return ch
}

// Record converts the view back to a raw record, re-attaching any
// uninterpreted fields.
func (c Chapter) Record() Record {
	r := Record{
		FieldNumber:    c.Number,
		FieldTitle:     c.Title,
		FieldStatus:    c.Status,
		FieldPriority:  c.Priority,
		FieldWordCount: c.WordCount,
	}
	if c.HasStartWords {
		r[FieldStartWords] = c.StartWords
	}
	if c.Deadline != nil {
		r[FieldDeadline] = c.Deadline
	}
	if c.LastEdited != "" {
		r[FieldLastEdited] = c.LastEdited
	}
	for k, v := range c.Extra {
		r[k] = v
	}
	return r
}

// Done reports whether the chapter has reached the finished status.
func (c Chapter) Done() bool {
	return c.Status == StatusDone
}

// Todo is the typed view of a record in the todos collection.
type Todo struct {
	Task  string
	Done  bool
	Extra Record
}

// TodoView interprets a raw record as a Todo.
func TodoView(r Record) Todo {
	td := Todo{
		Task:  r.String(FieldTask),
		Done:  r.Bool(FieldDone),
		Extra: Record{},
	}
	for k, v := range r {
		switch k {
		case FieldTask, FieldDone:
		default:
			td.Extra[k] = v
		}
	}
	return td
}

// Record converts the view back to a raw record.
func (t Todo) Record() Record {
	r := Record{
		FieldTask: t.Task,
		FieldDone: t.Done,
	}
	for k, v := range t.Extra {
		r[k] = v
	}
	return r
}

// EditPass is the typed view of a record in the edit_passes collection.
// Chapter is a loose reference to a chapter number; the store does not
// enforce that it matches an existing chapter.
type EditPass struct {
	Focus   string
	Status  bool
	Chapter string
	Extra   Record
}

// EditPassView interprets a raw record as an EditPass.
func EditPassView(r Record) EditPass {
	ep := EditPass{
		Focus:   r.String(FieldFocus),
		Status:  r.Bool(FieldStatus),
		Chapter: r.String(FieldChapter),
		Extra:   Record{},
	}
	for k, v := range r {
		switch k {
		case FieldFocus, FieldStatus, FieldChapter:
		default:
			ep.Extra[k] = v
		}
	}
	return ep
}

// Record converts the view back to a raw record.
func (p EditPass) Record() Record {
	r := Record{
		FieldFocus:   p.Focus,
		FieldStatus:  p.Status,
		FieldChapter: p.Chapter,
	}
	for k, v := range p.Extra {
		r[k] = v
	}
	return r
}
