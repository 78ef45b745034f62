package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "nammasev/pkg/domain-errors"
)

func Test_StatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusPending, StatusRejected, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusRejected, StatusResolved, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusInProgress, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func Test_StatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func Test_ParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty"))

	_, err = ParseStatus("closed")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func Test_ParseTrackingID(t *testing.T) {
	t.Run("accepts canonical form", func(t *testing.T) {
		tid, err := ParseTrackingID("NMS-4QJ7X2RD")
		require.NoError(t, err)
		assert.Equal(t, TrackingID("NMS-4QJ7X2RD"), tid)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		tid, err := ParseTrackingID("  nms-4qj7x2rd ")
		require.NoError(t, err)
		assert.Equal(t, TrackingID("NMS-4QJ7X2RD"), tid)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"NMS-",
			"NMS-SHORT",
			"NMS-TOOLONG123",
			"-4QJ7X2RD",
			"NMS4QJ7X2RD",
			"NMS-4QJ7X2RI", // I is not in the alphabet
			"NMS-4QJ7X2R!",
		} {
			_, err := ParseTrackingID(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}

func Test_TrackingAlphabet(t *testing.T) {
	alphabet := TrackingAlphabet()
	assert.Len(t, alphabet, 32)
	for _, ambiguous := range "ILOU" {
		assert.NotContains(t, alphabet, string(ambiguous))
	}
}

func Test_CategoryResolutionDays(t *testing.T) {
	assert.Equal(t, 2, CategoryElectricity.EstimatedResolutionDays())
	assert.Equal(t, 15, CategoryRoadInfrastructure.EstimatedResolutionDays())
	assert.Equal(t, 10, CategoryOther.EstimatedResolutionDays())

	// Unknown categories fall back to the Other estimate.
	assert.Equal(t, 10, Category("Unknown").EstimatedResolutionDays())
}

func Test_ParseCategory(t *testing.T) {
	c, err := ParseCategory("Water Supply")
	require.NoError(t, err)
	assert.Equal(t, CategoryWaterSupply, c)

	_, err = ParseCategory("Potholes")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	assert.Len(t, Categories(), 10)
}

func Test_ParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)

	p, err = ParsePriority("urgent")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)

	_, err = ParsePriority("critical")
	require.Error(t, err)
}

func Test_ParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	require.Error(t, err)

	_, err = ParseRole("")
	require.Error(t, err)
}

func Test_ParseIDs(t *testing.T) {
	cid := NewComplaintID()

	parsed, err := ParseComplaintID(cid.String())
	require.NoError(t, err)
	assert.Equal(t, cid, parsed)

	_, err = ParseComplaintID("not-a-uuid")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = ParseCitizenID("00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
}

func Test_IDJSONRendering(t *testing.T) {
	cid := NewComplaintID()

	raw, err := json.Marshal(cid)
	require.NoError(t, err)
	assert.Equal(t, `"`+cid.String()+`"`, string(raw))

	var decoded ComplaintID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, cid, decoded)
}
