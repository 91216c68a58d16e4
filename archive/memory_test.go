package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordsInOrder(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Record(Entry{MessageID: 1, Event: EventSend, Body: "hello"}))
	require.NoError(t, m.Record(Entry{MessageID: 1, Event: EventEdit, Body: "hello again"}))
	require.NoError(t, m.Record(Entry{MessageID: 1, Event: EventRemove}))

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, EventSend, entries[0].Event)
	assert.Equal(t, EventEdit, entries[1].Event)
	assert.Equal(t, EventRemove, entries[2].Event)

	// Entries hands out a copy
	entries[0].Body = "tampered"
	assert.Equal(t, "hello", m.Entries()[0].Body)
}
