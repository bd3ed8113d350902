package services

import (
	"context"
	"testing"

	"hotel-rooms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestRoomServiceCreate(t *testing.T) {
	svc := NewRoomService(NewMemoryRoomStore())
	ctx := context.Background()

	r, err := svc.Create(ctx, NewRoom{Floor: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, uint(1), r.ID)
	assert.Equal(t, 0, r.Floor)

	r, err = svc.Create(ctx, NewRoom{Floor: intPtr(3), IsOccupied: true, GuestID: strPtr("g")})
	require.NoError(t, err)
	assert.True(t, r.HeldBy("g"))

	_, err = svc.Create(ctx, NewRoom{Floor: intPtr(3), IsOccupied: true, GuestID: strPtr(" g ")})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Create(ctx, NewRoom{})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Create(ctx, NewRoom{Floor: intPtr(1), GuestID: strPtr("g")})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Create(ctx, NewRoom{Floor: intPtr(1), IsOccupied: true})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRoomServiceQueries(t *testing.T) {
	store := NewMemoryRoomStore(models.Room{ID: 1, Floor: 1}, guestRoom(2, "a"), models.Room{ID: 3, Floor: 2})
	svc := NewRoomService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Get(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	r, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, r.HeldBy("a"))

	_, err = svc.List(ctx, RoomFilter{Limit: -1})
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.List(ctx, RoomFilter{Order: "price asc"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	list, err := svc.List(ctx, RoomFilter{Order: "ID  DESC"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, uint(3), list[0].ID)

	n, err := svc.Count(ctx, RoomFilter{GuestID: strPtr("a")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRoomServiceSeedIfEmpty(t *testing.T) {
	store := NewMemoryRoomStore()
	svc := NewRoomService(store)
	ctx := context.Background()

	n, err := svc.SeedIfEmpty(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	rooms, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 7)
	assert.Equal(t, 1, rooms[0].Floor)
	assert.Equal(t, 3, rooms[2].Floor)
	assert.Equal(t, 1, rooms[3].Floor)

	n, err = svc.SeedIfEmpty(ctx, 7, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.SeedIfEmpty(ctx, 2, 0)
	require.ErrorIs(t, err, ErrInvalidRequest)
}
