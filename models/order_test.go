package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, OrderPlaced.CanTransitionTo(OrderPreparing))
	assert.True(t, OrderPreparing.CanTransitionTo(OrderReady))
	assert.True(t, OrderReady.CanTransitionTo(OrderCompleted))
	assert.True(t, OrderReady.CanTransitionTo(OrderCancelled))

	assert.False(t, OrderPlaced.CanTransitionTo(OrderReady))
	assert.False(t, OrderPreparing.CanTransitionTo(OrderPlaced))
	assert.False(t, OrderPlaced.CanTransitionTo(OrderPlaced))
	assert.False(t, OrderCompleted.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderCancelled.CanTransitionTo(OrderPlaced))

	for _, st := range TerminalOrderStatuses {
		assert.True(t, st.IsTerminal())
	}
	assert.False(t, OrderReady.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("READY")
	assert.True(t, ok)
	assert.Equal(t, OrderReady, st)

	_, ok = ParseOrderStatus("ready")
	assert.False(t, ok)
	_, ok = ParseOrderStatus("SERVED")
	assert.False(t, ok)
}

func TestTableLabel(t *testing.T) {
	var missing *Table
	assert.Equal(t, "", missing.Label())
	assert.Equal(t, "", missing.BranchID())

	table := &Table{TableNumber: "7"}
	assert.Equal(t, "Table 7", table.Label())

	table.Area = &Area{Name: "Terrace", BranchID: "b1"}
	assert.Equal(t, "Terrace - Table 7", table.Label())
	assert.Equal(t, "b1", table.BranchID())
}
