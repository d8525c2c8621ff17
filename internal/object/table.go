package object

// Table is the authoritative id->record map (C5). Mutations are confined
// to the tick loop thread (T0); every other subsystem only reads from it
// via the snapshots/iterators handed out here.
type Table struct {
	records map[ID]*Record
}

// NewTable constructs an empty object table.
func NewTable() *Table {
	return &Table{records: make(map[ID]*Record)}
}

// Put inserts or overwrites a record.
func (t *Table) Put(r Record) {
	if t == nil {
		return
	}
	if t.records == nil {
		t.records = make(map[ID]*Record)
	}
	stored := r
	t.records[r.ID] = &stored
}

// Get returns the record for id and whether it exists.
func (t *Table) Get(id ID) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	rec, ok := t.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Mutate applies fn to the stored record in place, avoiding a copy-in/
// copy-out round trip for hot per-tick updates. fn is not called if the id
// is absent.
func (t *Table) Mutate(id ID, fn func(*Record)) bool {
	if t == nil {
		return false
	}
	rec, ok := t.records[id]
	if !ok {
		return false
	}
	fn(rec)
	return true
}

// Delete removes a record, returning whether it existed.
func (t *Table) Delete(id ID) bool {
	if t == nil {
		return false
	}
	if _, ok := t.records[id]; !ok {
		return false
	}
	delete(t.records, id)
	return true
}

// Len reports the number of live records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// All returns a snapshot copy of every record, safe for the caller to
// iterate while the table is mutated afterward.
func (t *Table) All() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, *rec)
	}
	return out
}

// ForEach iterates live records without allocating a snapshot slice. fn
// must not mutate the table (add/remove ids) while iterating.
func (t *Table) ForEach(fn func(Record)) {
	if t == nil {
		return
	}
	for _, rec := range t.records {
		fn(*rec)
	}
}
