package services

import (
	"context"
	"strings"

	"hotel-rooms/models"
)

// RoomStore is the durable keyed storage of rooms. Each call is atomic
// for a single record; there is no cross-record transaction.
type RoomStore interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	Find(ctx context.Context, f RoomFilter) ([]models.Room, error)
	GetByID(ctx context.Context, id uint) (models.Room, error)
	UpdateByID(ctx context.Context, id uint, patch models.RoomPatch) error
	UpdateMatching(ctx context.Context, f RoomFilter, patch models.RoomPatch) (int64, error)
	Count(ctx context.Context, f RoomFilter) (int64, error)
	Create(ctx context.Context, room models.Room) (models.Room, error)
}

// RoomFilter selects rooms. Nil fields match everything. Limit, Offset
// and Order apply to Find only.
type RoomFilter struct {
	Occupied *bool
	GuestID  *string
	Floor    *int

	Limit  int
	Offset int
	Order  string
}

func (f RoomFilter) Match(r models.Room) bool {
	if f.Occupied != nil && r.IsOccupied != *f.Occupied {
		return false
	}
	if f.GuestID != nil && !r.HeldBy(*f.GuestID) {
		return false
	}
	if f.Floor != nil && r.Floor != *f.Floor {
		return false
	}
	return true
}

// accepted Order values and their SQL form
var roomOrders = map[string]string{
	"":           "id ASC",
	"id asc":     "id ASC",
	"id desc":    "id DESC",
	"floor asc":  "floor ASC, id ASC",
	"floor desc": "floor DESC, id ASC",
}

func normalizeOrder(order string) string {
	return strings.Join(strings.Fields(strings.ToLower(order)), " ")
}

func orderClause(order string) (string, bool) {
	clause, ok := roomOrders[normalizeOrder(order)]
	return clause, ok
}
