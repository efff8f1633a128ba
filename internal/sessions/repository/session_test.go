package repository

import (
	"errors"
	"testing"
	"time"

	sessionserrors "courtbook/internal/sessions/errors"
	"courtbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSet(t *testing.T) {
	assert.Empty(t, buildSet(model.SessionUpdate{}))

	slots := []model.Slot{{ID: 1, PlayerName: "Alice"}}
	total := 20.0
	paid := true
	costs := model.CostMap{1: 20}
	per := 20.0
	mode := model.SplitEven
	at := time.Date(2026, 11, 7, 10, 0, 0, 0, time.UTC)

	set := buildSet(model.SessionUpdate{
		Slots:           &slots,
		TotalAmount:     &total,
		IsPaid:          &paid,
		IndividualCosts: &costs,
		CostPerPerson:   &per,
		SplitMode:       &mode,
		FinalizedAt:     &at,
	})

	assert.Len(t, set, 7)
	assert.Equal(t, slots, set["slots"])
	assert.Equal(t, 20.0, set["total_amount"])
	assert.Equal(t, true, set["is_paid"])
	assert.Equal(t, costs, set["individual_costs"])
	assert.Equal(t, model.SplitEven, set["split_mode"])
	assert.Equal(t, at, set["finalized_at"])
}

func TestBuildSet_SlotsOnly(t *testing.T) {
	empty := []model.Slot{}
	set := buildSet(model.SessionUpdate{Slots: &empty})

	require.Len(t, set, 1)
	assert.Equal(t, empty, set["slots"])
}

func TestObjectIDFromHex(t *testing.T) {
	_, err := objectIDFromHex("not-an-id")
	assert.True(t, errors.Is(err, sessionserrors.ErrInvalidID))

	oid, err := objectIDFromHex("65a1f0c2e4b0a1b2c3d4e5f6")
	require.NoError(t, err)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", oid.Hex())
}
