package models

import "time"

// Room is a single allocatable unit of inventory.
// GuestID is set only while IsOccupied is true.
type Room struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Floor      int     `gorm:"column:floor;not null" json:"floor"`
	IsOccupied bool    `gorm:"column:is_occupied;not null;default:false;index" json:"isOccupied"`
	GuestID    *string `gorm:"column:guest_id;type:varchar(64);index" json:"guestId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Room) TableName() string { return "room" }

// HeldBy reports whether the room is currently assigned to guestID.
func (r Room) HeldBy(guestID string) bool {
	return r.GuestID != nil && *r.GuestID == guestID
}

// RoomPatch is a partial room update. Nil fields are left untouched;
// ClearGuest writes a NULL guest_id.
type RoomPatch struct {
	Floor      *int
	IsOccupied *bool
	GuestID    *string
	ClearGuest bool
}

// Columns returns the column map understood by gorm's Updates.
func (p RoomPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Floor != nil {
		cols["floor"] = *p.Floor
	}
	if p.IsOccupied != nil {
		cols["is_occupied"] = *p.IsOccupied
	}
	if p.ClearGuest {
		cols["guest_id"] = nil
	} else if p.GuestID != nil {
		cols["guest_id"] = *p.GuestID
	}
	return cols
}

// Apply writes the patch onto r in memory.
func (p RoomPatch) Apply(r *Room) {
	if p.Floor != nil {
		r.Floor = *p.Floor
	}
	if p.IsOccupied != nil {
		r.IsOccupied = *p.IsOccupied
	}
	if p.ClearGuest {
		r.GuestID = nil
	} else if p.GuestID != nil {
		g := *p.GuestID
		r.GuestID = &g
	}
}

// Occupy is the patch that reserves a room for guestID.
func Occupy(guestID string) RoomPatch {
	occupied := true
	return RoomPatch{IsOccupied: &occupied, GuestID: &guestID}
}

// Vacate is the patch that returns a room to the free state.
func Vacate() RoomPatch {
	occupied := false
	return RoomPatch{IsOccupied: &occupied, ClearGuest: true}
}
