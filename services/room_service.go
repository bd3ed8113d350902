package services

import (
	"context"

	"hotel-rooms/logger"
	"hotel-rooms/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RoomService is the pass-through CRUD surface over the room store.
// It does not take the allocation guard.
type RoomService struct {
	Store RoomStore
}

func NewRoomService(store RoomStore) *RoomService {
	return &RoomService{Store: store}
}

// NewRoom is a room without an id.
type NewRoom struct {
	Floor      *int    `json:"floor" validate:"required"`
	IsOccupied bool    `json:"isOccupied"`
	GuestID    *string `json:"guestId" validate:"omitempty,max=64"`
}

func (s *RoomService) Create(ctx context.Context, in NewRoom) (models.Room, error) {
	if err := validate.Struct(in); err != nil {
		return models.Room{}, invalid("%v", err)
	}

	room := models.Room{Floor: *in.Floor, IsOccupied: in.IsOccupied}
	if in.GuestID != nil && *in.GuestID != "" {
		if err := checkGuestID(*in.GuestID); err != nil {
			return models.Room{}, err
		}
		g := *in.GuestID
		room.GuestID = &g
	}
	if room.IsOccupied != (room.GuestID != nil) {
		return models.Room{}, invalid("guestId must be set exactly when isOccupied is true")
	}

	return s.Store.Create(ctx, room)
}

func (s *RoomService) Get(ctx context.Context, id uint) (models.Room, error) {
	if id == 0 {
		return models.Room{}, invalid("id must be positive")
	}
	return s.Store.GetByID(ctx, id)
}

func (s *RoomService) List(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, invalid("limit and offset must not be negative")
	}
	if _, ok := orderClause(f.Order); !ok {
		return nil, invalid("unsupported order %q", f.Order)
	}
	return s.Store.Find(ctx, f)
}

func (s *RoomService) Count(ctx context.Context, f RoomFilter) (int64, error) {
	return s.Store.Count(ctx, f)
}

// SeedIfEmpty creates n rooms spread across floors when the store holds none.
func (s *RoomService) SeedIfEmpty(ctx context.Context, n, floors int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if floors <= 0 {
		return 0, invalid("floors must be positive")
	}

	existing, err := s.Store.Count(ctx, RoomFilter{})
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logger.L.Info("rooms already seeded", "count", existing)
		return 0, nil
	}

	for i := 0; i < n; i++ {
		if _, err := s.Store.Create(ctx, models.Room{Floor: i%floors + 1}); err != nil {
			return i, err
		}
	}
	logger.L.Info("rooms seeded", "count", n, "floors", floors)
	return n, nil
}
