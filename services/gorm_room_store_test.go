package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"hotel-rooms/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:rooms%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Room{}, &models.BookingLog{}))
	return db
}

func seedStore(t *testing.T, s RoomStore, floors ...int) []models.Room {
	t.Helper()
	out := []models.Room{}
	for _, f := range floors {
		r, err := s.Create(context.Background(), models.Room{ID: 999, Floor: f})
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

// runStoreContract exercises the RoomStore behaviour both implementations share.
func runStoreContract(t *testing.T, s RoomStore) {
	ctx := context.Background()
	rooms := seedStore(t, s, 1, 2, 2, 3)
	require.Len(t, rooms, 4)
	assert.NotEqual(t, uint(999), rooms[0].ID, "create must assign the id")
	assert.Less(t, rooms[0].ID, rooms[1].ID)

	got, err := s.GetByID(ctx, rooms[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Floor)
	assert.False(t, got.IsOccupied)

	_, err = s.GetByID(ctx, 12345)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpdateByID(ctx, rooms[0].ID, models.Occupy("g1")))
	require.NoError(t, s.UpdateByID(ctx, rooms[2].ID, models.Occupy("g1")))
	// same values again still matches the row
	require.NoError(t, s.UpdateByID(ctx, rooms[2].ID, models.Occupy("g1")))
	require.ErrorIs(t, s.UpdateByID(ctx, 12345, models.Occupy("g1")), ErrNotFound)

	got, err = s.GetByID(ctx, rooms[0].ID)
	require.NoError(t, err)
	assert.True(t, got.HeldBy("g1"))

	occupied := true
	n, err := s.Count(ctx, RoomFilter{Occupied: &occupied})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	floor := 2
	list, err := s.Find(ctx, RoomFilter{Floor: &floor, Order: "id desc"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)

	list, err = s.Find(ctx, RoomFilter{Order: "floor desc", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Floor)
	assert.Equal(t, 2, list[1].Floor)

	_, err = s.Find(ctx, RoomFilter{Order: "guest_id; drop table room"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	guest := "g1"
	n, err = s.UpdateMatching(ctx, RoomFilter{GuestID: &guest}, models.Vacate())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.UpdateByID(ctx, rooms[3].ID, models.Occupy("g2")))
	n, err = s.UpdateMatching(ctx, RoomFilter{}, models.Vacate())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	for _, r := range all {
		assert.False(t, r.IsOccupied)
		assert.Nil(t, r.GuestID)
	}
}

func TestGormRoomStoreContract(t *testing.T) {
	runStoreContract(t, NewGormRoomStore(openTestDB(t)))
}

func TestMemoryRoomStoreContract(t *testing.T) {
	runStoreContract(t, NewMemoryRoomStore())
}

func TestGormRoomStoreClosedDB(t *testing.T) {
	db := openTestDB(t)
	s := NewGormRoomStore(db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = s.ListAll(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGormBookingJournal(t *testing.T) {
	j := NewGormBookingJournal(openTestDB(t))
	ctx := context.Background()

	for i, guest := range []string{"a", "b", "a"} {
		require.NoError(t, j.Append(ctx, models.BookingLog{
			Reference: fmt.Sprintf("ref-%d", i),
			GuestID:   guest,
			Requested: 2,
			Effective: 2,
			RoomIDs:   []byte(`[1,2]`),
		}))
	}

	entries, err := j.List(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ref-2", entries[0].Reference)
	assert.JSONEq(t, `[1,2]`, string(entries[0].RoomIDs))

	entries, err = j.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
