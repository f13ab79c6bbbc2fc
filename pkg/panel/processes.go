package panel

import (
	"slices"
	"strconv"

	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// ProcessRow is the content of one rank slot. Rows are keyed by slot, a
// process moving between ranks just rewrites both slots.
type ProcessRow struct {
	Slot       int      `json:"slot"`
	Identifier string   `json:"identifier"`
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
}

func newProcessRow(slot int, p powerinfo.ProcessEntry) ProcessRow {
	return ProcessRow{
		Slot:       slot,
		Identifier: strconv.Itoa(p.PID),
		Name:       p.Name,
		Columns:    []string{format.Number(p.Usage) + "%"},
	}
}

func (r ProcessRow) equal(o ProcessRow) bool {
	return r.Slot == o.Slot && r.Identifier == o.Identifier && r.Name == o.Name && slices.Equal(r.Columns, o.Columns)
}

type RowOp string

const (
	RowClear RowOp = "clear"
	RowSet   RowOp = "set"
)

// RowUpdate is one mutation of the process section. Row is only meaningful
// for RowSet.
type RowUpdate struct {
	Op  RowOp      `json:"op"`
	Row ProcessRow `json:"row"`
}

// ProcessTable reconciles ranked process lists against the displayed rows.
type ProcessTable struct {
	capacity    int
	rows        []ProcessRow
	initialized bool
	stale       bool
}

func NewProcessTable(capacity int) *ProcessTable {
	return &ProcessTable{capacity: capacity}
}

func (t *ProcessTable) Capacity() int {
	return t.capacity
}

func (t *ProcessTable) Initialized() bool {
	return t.initialized
}

// Rows returns a copy of the displayed rows.
func (t *ProcessTable) Rows() []ProcessRow {
	out := make([]ProcessRow, len(t.rows))
	for i, r := range t.rows {
		r.Columns = slices.Clone(r.Columns)
		out[i] = r
	}
	return out
}

// Reset resizes the table and forgets the displayed rows. The next list is
// applied even while hidden.
func (t *ProcessTable) Reset(capacity int) {
	t.capacity = capacity
	t.rows = nil
	t.initialized = false
	t.stale = false
}

// MarkStale forces the next reconciliation to clear and repopulate.
func (t *ProcessTable) MarkStale() {
	t.stale = true
}

// Reconcile applies list and returns the mutations that were made. Once the
// table holds data, lists that arrive while hidden are dropped.
func (t *ProcessTable) Reconcile(list []powerinfo.ProcessEntry, visible bool) []RowUpdate {
	if t.capacity <= 0 {
		return nil
	}
	if !visible && t.initialized {
		return nil
	}
	if len(list) > t.capacity {
		list = list[:t.capacity]
	}

	var updates []RowUpdate
	if len(list) != len(t.rows) || t.stale {
		t.rows = make([]ProcessRow, 0, len(list))
		t.stale = false
		updates = append(updates, RowUpdate{Op: RowClear})
		for i, p := range list {
			row := newProcessRow(i, p)
			t.rows = append(t.rows, row)
			updates = append(updates, RowUpdate{Op: RowSet, Row: row})
		}
	} else {
		for i, p := range list {
			row := newProcessRow(i, p)
			if row.equal(t.rows[i]) {
				continue
			}
			t.rows[i] = row
			updates = append(updates, RowUpdate{Op: RowSet, Row: row})
		}
	}

	t.initialized = true
	return updates
}
