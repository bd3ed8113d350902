package services

import (
	"context"
	"fmt"
	"time"

	"hotel-rooms/events"
	"hotel-rooms/logger"
	"hotel-rooms/models"
)

// Reset frees every room with one bulk update. It is idempotent.
func (a *Allocator) Reset(ctx context.Context) (int64, error) {
	var n int64
	err := a.Guard.Do(ctx, func() error {
		var err error
		n, err = a.Store.UpdateMatching(ctx, RoomFilter{}, models.Vacate())
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.L.Info("rooms reset", "count", n)
	a.publish(ctx, events.KeyRoomsReset, events.RoomsReset{Count: n, At: time.Now().UTC()})
	return n, nil
}

// Randomize writes synthetic occupancy onto a pseudo-random set of room
// ids and returns the resulting inventory. Ids are drawn past the highest
// known id, so some updates miss; those are skipped. Quota rules do not
// apply here.
func (a *Allocator) Randomize(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	var attempted, updated int

	err := a.Guard.Do(ctx, func() error {
		snap, err := TakeSnapshot(ctx, a.Store)
		if err != nil {
			return err
		}

		for _, u := range a.randomUpdates(snap) {
			attempted++
			if err := a.Store.UpdateByID(ctx, u.id, u.patch); err != nil {
				logger.L.Debug("randomize: update skipped", "room", u.id, "err", err)
				continue
			}
			updated++
		}

		rooms, err = a.Store.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L.Info("rooms randomized", "attempted", attempted, "updated", updated)
	a.publish(ctx, events.KeyRoomsRandomized, events.RoomsRandomized{
		Attempted: attempted, Updated: updated, At: time.Now().UTC(),
	})
	return rooms, nil
}

type randomUpdate struct {
	id    uint
	patch models.RoomPatch
}

const randomGuests = 10

func (a *Allocator) randomUpdates(snap Snapshot) []randomUpdate {
	n := a.Config.RandomizeCount
	if n <= 0 {
		n = (len(snap.Rooms) + 1) / 2
	}

	top := snap.MaxID()
	span := int(top + top/4 + 1)

	out := make([]randomUpdate, 0, n)
	for i := 0; i < n; i++ {
		id := uint(a.Rand.IntN(span) + 1)
		patch := models.Vacate()
		if a.Rand.IntN(2) == 1 {
			patch = models.Occupy(fmt.Sprintf("guest-%d", a.Rand.IntN(randomGuests)+1))
		}
		out = append(out, randomUpdate{id: id, patch: patch})
	}
	return out
}
