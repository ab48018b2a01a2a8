package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_IsNewerThan(t *testing.T) {
	tests := []struct {
		self     *Record
		other    *Record
		name     string
		expected bool
	}{
		{
			name:     "self modified later",
			self:     &Record{LastModified: 300},
			other:    &Record{LastModified: 200},
			expected: true,
		},
		{
			name:     "self modified earlier",
			self:     &Record{LastModified: 100},
			other:    &Record{LastModified: 200},
			expected: false,
		},
		{
			name:     "equal timestamps are not newer",
			self:     &Record{LastModified: 200},
			other:    &Record{LastModified: 200},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.IsNewerThan(tt.other))
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	original := &Record{
		ID:           "rec-1",
		Collection:   CollectionTasks,
		Data:         json.RawMessage(`{"title":"buy milk"}`),
		SyncStatus:   SyncStatusPending,
		LastModified: 42,
		Version:      3,
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	// Изменение копии не должно затрагивать оригинал
	clone.Data[2] = 'X'
	clone.SyncStatus = SyncStatusSynced
	assert.Equal(t, `{"title":"buy milk"}`, string(original.Data))
	assert.Equal(t, SyncStatusPending, original.SyncStatus)
}

func TestRecord_DecodePayload(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	data, err := json.Marshal(&Task{Title: "file taxes", DueDate: &due, Priority: PriorityHigh})
	require.NoError(t, err)

	rec := &Record{ID: "t1", Collection: CollectionTasks, Data: data}

	var task Task
	require.NoError(t, rec.DecodePayload(&task))
	assert.Equal(t, "file taxes", task.Title)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.True(t, due.Equal(task.IndexTime()))

	var meal Meal
	err = rec.DecodePayload(&meal)
	assert.Error(t, err)
}

func TestTask_IndexTime_FallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	task := &Task{Title: "no due date", CreatedAt: created}
	assert.True(t, created.Equal(task.IndexTime()))
}

func TestParseCollection(t *testing.T) {
	for _, c := range Collections() {
		got, err := ParseCollection(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.True(t, c.Valid())
	}

	_, err := ParseCollection("syncQueue")
	assert.Error(t, err)
	assert.False(t, Collection("metadata").Valid())
}

func TestNewPayload(t *testing.T) {
	for _, c := range Collections() {
		p, err := NewPayload(c)
		require.NoError(t, err)
		assert.Equal(t, c, p.Collection())
	}

	_, err := NewPayload("unknown")
	assert.Error(t, err)
}

func TestDecodePayloadJSON(t *testing.T) {
	p, err := DecodePayloadJSON(CollectionTransactions, []byte(`{"amountCents":1250,"currency":"EUR","kind":"expense"}`))
	require.NoError(t, err)

	tx, ok := p.(*Transaction)
	require.True(t, ok)
	assert.Equal(t, int64(1250), tx.AmountCents)
	assert.Equal(t, TransactionExpense, tx.Kind)

	_, err = DecodePayloadJSON(CollectionTransactions, []byte(`{"amountCents":"oops"}`))
	assert.Error(t, err)
}

func TestNewQueueEntryID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	id := NewQueueEntryID(CollectionMeals, "abc", ts)
	assert.Equal(t, "meals-abc-1700000000123", id)
}

func TestQueueEntry_RecordID(t *testing.T) {
	entry := &QueueEntry{Data: &Record{ID: "rec-7"}}
	assert.Equal(t, "rec-7", entry.RecordID())

	assert.Empty(t, (&QueueEntry{}).RecordID())
}

func TestParseAction(t *testing.T) {
	for _, name := range []string{"create", "update", "delete"} {
		a, err := ParseAction(name)
		require.NoError(t, err)
		assert.Equal(t, Action(name), a)
	}
	_, err := ParseAction("upsert")
	assert.Error(t, err)
}
