package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

func countOps(updates []RowUpdate) (clears, sets int) {
	for _, u := range updates {
		switch u.Op {
		case RowClear:
			clears++
		case RowSet:
			sets++
		}
	}
	return clears, sets
}

func TestProcessTableFirstPopulation(t *testing.T) {
	table := NewProcessTable(8)
	updates := table.Reconcile(processList(8, 50), true)

	require.Len(t, updates, 9)
	assert.Equal(t, RowClear, updates[0].Op)
	assert.Equal(t, ProcessRow{Slot: 0, Identifier: "100", Name: "proca", Columns: []string{"50%"}}, updates[1].Row)
	assert.True(t, table.Initialized())
	assert.Len(t, table.Rows(), 8)
}

func TestProcessTableSameCount(t *testing.T) {
	table := NewProcessTable(8)
	table.Reconcile(processList(8, 50), true)

	next := processList(8, 50)
	next[2].Usage = 12.5
	next[5].Name = "other"
	updates := table.Reconcile(next, true)

	clears, sets := countOps(updates)
	assert.Equal(t, 0, clears)
	assert.Equal(t, 2, sets)
	assert.Equal(t, 2, updates[0].Row.Slot)
	assert.Equal(t, []string{"12.5%"}, updates[0].Row.Columns)
	assert.Equal(t, 5, updates[1].Row.Slot)

	assert.Empty(t, table.Reconcile(next, true))
}

func TestProcessTableCountChange(t *testing.T) {
	table := NewProcessTable(8)
	table.Reconcile(processList(8, 50), true)

	updates := table.Reconcile(processList(5, 40), true)
	require.NotEmpty(t, updates)
	assert.Equal(t, RowClear, updates[0].Op)
	clears, sets := countOps(updates)
	assert.Equal(t, 1, clears)
	assert.Equal(t, 5, sets)
	for i, u := range updates[1:] {
		assert.Equal(t, i, u.Row.Slot)
	}
	assert.Len(t, table.Rows(), 5)
}

func TestProcessTableHidden(t *testing.T) {
	table := NewProcessTable(4)

	// The first list is applied even while hidden.
	updates := table.Reconcile(processList(4, 50), false)
	assert.NotEmpty(t, updates)
	assert.True(t, table.Initialized())

	before := table.Rows()
	assert.Empty(t, table.Reconcile(processList(2, 10), false))
	assert.Equal(t, before, table.Rows())
}

func TestProcessTableStale(t *testing.T) {
	table := NewProcessTable(4)
	table.Reconcile(processList(4, 50), true)
	table.MarkStale()

	clears, sets := countOps(table.Reconcile(processList(4, 50), true))
	assert.Equal(t, 1, clears)
	assert.Equal(t, 4, sets)

	assert.Empty(t, table.Reconcile(processList(4, 50), true))
}

func TestProcessTableCapacity(t *testing.T) {
	table := NewProcessTable(3)
	_, sets := countOps(table.Reconcile(processList(10, 50), true))
	assert.Equal(t, 3, sets)

	empty := NewProcessTable(0)
	assert.Empty(t, empty.Reconcile(processList(3, 50), true))
	assert.False(t, empty.Initialized())

	table.Reset(5)
	assert.False(t, table.Initialized())
	assert.Empty(t, table.Rows())
	assert.Equal(t, 5, table.Capacity())
}

func TestProcessTableRowsAreCopies(t *testing.T) {
	table := NewProcessTable(1)
	table.Reconcile([]powerinfo.ProcessEntry{{PID: 1, Name: "a", Usage: 1}}, true)

	rows := table.Rows()
	rows[0].Columns[0] = "changed"
	assert.Equal(t, []string{"1%"}, table.Rows()[0].Columns)
}
