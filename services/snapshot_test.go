package services

import (
	"context"
	"errors"
	"testing"

	"hotel-rooms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestRoom(id uint, guest string) models.Room {
	return models.Room{ID: id, IsOccupied: true, GuestID: &guest}
}

func TestSnapshotDerivedCounts(t *testing.T) {
	snap := Snapshot{Rooms: []models.Room{
		{ID: 9}, guestRoom(3, "a"), {ID: 4}, guestRoom(1, "b"), guestRoom(7, "a"), {ID: 2},
	}}

	assert.Equal(t, 2, snap.HeldBy("a"))
	assert.Equal(t, 1, snap.HeldBy("b"))
	assert.Equal(t, 0, snap.HeldBy("c"))
	assert.Equal(t, uint(9), snap.MaxID())

	free := snap.Free()
	got := make([]uint, 0, len(free))
	for _, r := range free {
		got = append(got, r.ID)
	}
	assert.ElementsMatch(t, []uint{2, 4, 9}, got)
}

func TestSelectCandidatesDeterministic(t *testing.T) {
	free := []models.Room{{ID: 40}, {ID: 12}, {ID: 33}, {ID: 5}, {ID: 18}}

	first := SelectCandidates(free, 3)
	second := SelectCandidates(free, 3)
	require.Equal(t, first, second)
	assert.Equal(t, uint(5), first[0].ID)
	assert.Equal(t, uint(12), first[1].ID)
	assert.Equal(t, uint(18), first[2].ID)

	// input left untouched
	assert.Equal(t, uint(40), free[0].ID)

	assert.Len(t, SelectCandidates(free, 10), 5)
	assert.Empty(t, SelectCandidates(free, 0))
	assert.Empty(t, SelectCandidates(nil, 3))
}

func TestTakeSnapshotFailure(t *testing.T) {
	store := NewMemoryRoomStore(models.Room{ID: 1})
	store.ReadErr = errors.New("refused")

	_, err := TakeSnapshot(context.Background(), store)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
