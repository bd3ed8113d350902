package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel-rooms/models"
)

// MemoryRoomStore is an in-process RoomStore used by STORE_DRIVER=memory
// and by tests. The hooks let callers inject per-record failures.
type MemoryRoomStore struct {
	mu     sync.RWMutex
	rooms  map[uint]models.Room
	nextID uint
	writes int

	// BeforeUpdate runs ahead of every UpdateByID; a non-nil error fails that write.
	BeforeUpdate func(ctx context.Context, id uint) error
	// ReadErr, when set, fails every read.
	ReadErr error
}

func NewMemoryRoomStore(rooms ...models.Room) *MemoryRoomStore {
	s := &MemoryRoomStore{rooms: map[uint]models.Room{}, nextID: 1}
	for _, r := range rooms {
		if r.ID == 0 {
			r.ID = s.nextID
		}
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
		s.rooms[r.ID] = cloneRoom(r)
	}
	return s
}

func cloneRoom(r models.Room) models.Room {
	if r.GuestID != nil {
		g := *r.GuestID
		r.GuestID = &g
	}
	return r
}

// Writes returns the number of successful mutations applied so far.
func (s *MemoryRoomStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *MemoryRoomStore) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.Find(ctx, RoomFilter{})
}

func (s *MemoryRoomStore) Find(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	order, ok := orderClause(f.Order)
	if !ok {
		return nil, invalid("unsupported order %q", f.Order)
	}
	if err := s.readable(ctx); err != nil {
		return nil, storeError("find rooms", err)
	}

	s.mu.RLock()
	out := []models.Room{}
	for _, r := range s.rooms {
		if f.Match(r) {
			out = append(out, cloneRoom(r))
		}
	}
	s.mu.RUnlock()

	sortRooms(out, order)

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Room{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func sortRooms(rooms []models.Room, order string) {
	sort.Slice(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		switch order {
		case "id DESC":
			return a.ID > b.ID
		case "floor ASC, id ASC":
			if a.Floor != b.Floor {
				return a.Floor < b.Floor
			}
		case "floor DESC, id ASC":
			if a.Floor != b.Floor {
				return a.Floor > b.Floor
			}
		}
		return a.ID < b.ID
	})
}

func (s *MemoryRoomStore) GetByID(ctx context.Context, id uint) (models.Room, error) {
	if err := s.readable(ctx); err != nil {
		return models.Room{}, storeError("get room", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return models.Room{}, storeError("get room", ErrNotFound)
	}
	return cloneRoom(r), nil
}

func (s *MemoryRoomStore) UpdateByID(ctx context.Context, id uint, patch models.RoomPatch) error {
	if err := ctx.Err(); err != nil {
		return storeError("update room", err)
	}
	if s.BeforeUpdate != nil {
		if err := s.BeforeUpdate(ctx, id); err != nil {
			return storeError("update room", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return storeError("update room", ErrNotFound)
	}
	patch.Apply(&r)
	r.UpdatedAt = time.Now()
	s.rooms[id] = r
	s.writes++
	return nil
}

func (s *MemoryRoomStore) UpdateMatching(ctx context.Context, f RoomFilter, patch models.RoomPatch) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeError("update rooms", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for id, r := range s.rooms {
		if !f.Match(r) {
			continue
		}
		patch.Apply(&r)
		r.UpdatedAt = now
		s.rooms[id] = r
		n++
	}
	s.writes++
	return n, nil
}

func (s *MemoryRoomStore) Count(ctx context.Context, f RoomFilter) (int64, error) {
	if err := s.readable(ctx); err != nil {
		return 0, storeError("count rooms", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.rooms {
		if f.Match(r) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryRoomStore) Create(ctx context.Context, room models.Room) (models.Room, error) {
	if err := ctx.Err(); err != nil {
		return models.Room{}, storeError("create room", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	room.ID = s.nextID
	room.CreatedAt = now
	room.UpdatedAt = now
	s.nextID++
	s.rooms[room.ID] = cloneRoom(room)
	s.writes++
	return cloneRoom(room), nil
}

func (s *MemoryRoomStore) readable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.ReadErr
}
