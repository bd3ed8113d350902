package services

import (
	"context"

	"hotel-rooms/models"

	"gorm.io/gorm"
)

// GormRoomStore keeps rooms in a SQL table through gorm.
type GormRoomStore struct {
	DB *gorm.DB
}

func NewGormRoomStore(db *gorm.DB) *GormRoomStore {
	return &GormRoomStore{DB: db}
}

func (s *GormRoomStore) where(ctx context.Context, f RoomFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&models.Room{})
	if f.Occupied != nil {
		q = q.Where("is_occupied = ?", *f.Occupied)
	}
	if f.GuestID != nil {
		q = q.Where("guest_id = ?", *f.GuestID)
	}
	if f.Floor != nil {
		q = q.Where("floor = ?", *f.Floor)
	}
	return q
}

func (s *GormRoomStore) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.Find(ctx, RoomFilter{})
}

func (s *GormRoomStore) Find(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	order, ok := orderClause(f.Order)
	if !ok {
		return nil, invalid("unsupported order %q", f.Order)
	}

	q := s.where(ctx, f).Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	rooms := []models.Room{}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, storeError("find rooms", err)
	}
	return rooms, nil
}

func (s *GormRoomStore) GetByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return models.Room{}, storeError("get room", err)
	}
	return room, nil
}

func (s *GormRoomStore) UpdateByID(ctx context.Context, id uint, patch models.RoomPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}

	result := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return storeError("update room", result.Error)
	}
	if result.RowsAffected == 0 {
		return storeError("update room", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *GormRoomStore) UpdateMatching(ctx context.Context, f RoomFilter, patch models.RoomPatch) (int64, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return 0, nil
	}

	q := s.where(ctx, f)
	if f.Occupied == nil && f.GuestID == nil && f.Floor == nil {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}

	result := q.Updates(cols)
	if result.Error != nil {
		return 0, storeError("update rooms", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormRoomStore) Count(ctx context.Context, f RoomFilter) (int64, error) {
	var n int64
	if err := s.where(ctx, f).Count(&n).Error; err != nil {
		return 0, storeError("count rooms", err)
	}
	return n, nil
}

func (s *GormRoomStore) Create(ctx context.Context, room models.Room) (models.Room, error) {
	room.ID = 0
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return models.Room{}, storeError("create room", err)
	}
	return room, nil
}
