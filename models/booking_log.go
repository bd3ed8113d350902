package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingLog records the outcome of one booking call.
type BookingLog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"column:reference;size:36;uniqueIndex" json:"reference"`
	GuestID   string `gorm:"column:guest_id;size:64;index" json:"guestId"`
	Requested int    `gorm:"column:requested" json:"requested"`
	Effective int    `gorm:"column:effective" json:"effective"`

	// committed room ids, in write order
	RoomIDs datatypes.JSON `gorm:"column:room_ids" json:"roomIds"`
	// [{"roomId":..,"error":".."}]
	Failures datatypes.JSON `gorm:"column:failures" json:"failures,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (BookingLog) TableName() string { return "booking_logs" }
