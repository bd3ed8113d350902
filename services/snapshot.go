package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hotel-rooms/models"
)

// Snapshot is one read of the full inventory. It is authoritative only
// at TakenAt; the guard keeps it from going stale during a booking.
type Snapshot struct {
	Rooms   []models.Room
	TakenAt time.Time
}

// TakeSnapshot reads every room. A failed read fails the whole snapshot.
func TakeSnapshot(ctx context.Context, store RoomStore) (Snapshot, error) {
	rooms, err := store.ListAll(ctx)
	if err != nil {
		if !errors.Is(err, ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return Snapshot{Rooms: rooms, TakenAt: time.Now()}, nil
}

// HeldBy counts the rooms currently assigned to guestID.
func (s Snapshot) HeldBy(guestID string) int {
	n := 0
	for _, r := range s.Rooms {
		if r.HeldBy(guestID) {
			n++
		}
	}
	return n
}

// Free returns the unoccupied rooms in snapshot order.
func (s Snapshot) Free() []models.Room {
	free := make([]models.Room, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		if !r.IsOccupied {
			free = append(free, r)
		}
	}
	return free
}

// MaxID returns the largest room id in the snapshot, or 0 when empty.
func (s Snapshot) MaxID() uint {
	var top uint
	for _, r := range s.Rooms {
		if r.ID > top {
			top = r.ID
		}
	}
	return top
}

// SelectCandidates picks the n lowest-id rooms out of free. Fewer than n
// rooms are returned when free is short.
func SelectCandidates(free []models.Room, n int) []models.Room {
	sorted := make([]models.Room, len(free))
	copy(sorted, free)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
