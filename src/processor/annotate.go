// annotate.go
package processor

// NoteTable is the read-only historical-context lookup, keyed by "YYYY-MM".
// It copies its input map on construction and is never mutated afterwards.
type NoteTable struct {
	notes map[string]string
}

func NewNoteTable(notes map[string]string) *NoteTable {
	copied := make(map[string]string, len(notes))
	for k, v := range notes {
		copied[k] = v
	}
	return &NoteTable{notes: copied}
}

func (t *NoteTable) Lookup(monthKey string) (string, bool) {
	note, ok := t.notes[monthKey]
	return note, ok
}

func (t *NoteTable) Len() int {
	return len(t.notes)
}

// Annotate attaches official notes to records whose month key exactly
// matches a table entry. No fuzzy matching.
func Annotate(records []FareRecord, notes *NoteTable) {
	for i := range records {
		if note, ok := notes.Lookup(records[i].MonthKey()); ok {
			records[i].OfficialNote = note
		}
	}
}
