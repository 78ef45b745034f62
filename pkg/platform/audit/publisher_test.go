package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "nammasev/pkg/domain"
	"nammasev/pkg/platform/audit"
	auditmemory "nammasev/pkg/platform/audit/store/memory"
	"nammasev/pkg/requestcontext"
)

func Test_Emit_FillsContextFields(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	publisher := audit.NewPublisher(store)

	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-123")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.7", "curl/8.0")

	complaintID := id.NewComplaintID()
	err := publisher.Emit(ctx, audit.Event{
		ComplaintID: complaintID,
		Action:      audit.ActionComplaintSubmitted,
	})
	require.NoError(t, err)

	events, err := store.ListByComplaint(context.Background(), complaintID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, now, events[0].Timestamp)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Equal(t, "10.0.0.7", events[0].ClientIP)
}

func Test_Emit_KeepsExplicitFields(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	publisher := audit.NewPublisher(store)

	stamped := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	complaintID := id.NewComplaintID()

	err := publisher.Emit(requestcontext.WithRequestID(context.Background(), "req-ctx"), audit.Event{
		ComplaintID: complaintID,
		Action:      audit.ActionStatusChanged,
		Timestamp:   stamped,
		RequestID:   "req-explicit",
	})
	require.NoError(t, err)

	events, err := store.ListByComplaint(context.Background(), complaintID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stamped, events[0].Timestamp)
	assert.Equal(t, "req-explicit", events[0].RequestID)
}

func Test_MemoryStore_ListsPerComplaint(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	ctx := context.Background()

	a := id.NewComplaintID()
	b := id.NewComplaintID()
	require.NoError(t, store.Append(ctx, audit.Event{ComplaintID: a, Action: audit.ActionComplaintSubmitted}))
	require.NoError(t, store.Append(ctx, audit.Event{ComplaintID: a, Action: audit.ActionStatusChanged}))
	require.NoError(t, store.Append(ctx, audit.Event{ComplaintID: b, Action: audit.ActionComplaintSubmitted}))

	events, err := store.ListByComplaint(ctx, a)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Len(t, store.All(), 3)

	store.Clear()
	assert.Empty(t, store.All())
}
