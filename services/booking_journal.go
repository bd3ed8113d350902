package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel-rooms/models"

	"gorm.io/gorm"
)

// BookingJournal keeps an append-only record of booking calls.
type BookingJournal interface {
	Append(ctx context.Context, entry models.BookingLog) error
	// List returns entries newest first; an empty guestID lists everyone.
	List(ctx context.Context, guestID string, limit int) ([]models.BookingLog, error)
}

const defaultJournalLimit = 50

type GormBookingJournal struct {
	DB *gorm.DB
}

func NewGormBookingJournal(db *gorm.DB) *GormBookingJournal {
	return &GormBookingJournal{DB: db}
}

func (j *GormBookingJournal) Append(ctx context.Context, entry models.BookingLog) error {
	entry.ID = 0
	if err := j.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return storeError("append booking log", err)
	}
	return nil
}

func (j *GormBookingJournal) List(ctx context.Context, guestID string, limit int) ([]models.BookingLog, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	q := j.DB.WithContext(ctx).Model(&models.BookingLog{})
	if guestID != "" {
		q = q.Where("guest_id = ?", guestID)
	}

	out := []models.BookingLog{}
	if err := q.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, storeError("list booking logs", err)
	}
	return out, nil
}

type MemoryBookingJournal struct {
	mu      sync.Mutex
	entries []models.BookingLog
}

func NewMemoryBookingJournal() *MemoryBookingJournal {
	return &MemoryBookingJournal{}
}

func (j *MemoryBookingJournal) Append(_ context.Context, entry models.BookingLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	entry.ID = uint(len(j.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	j.entries = append(j.entries, entry)
	return nil
}

func (j *MemoryBookingJournal) List(_ context.Context, guestID string, limit int) ([]models.BookingLog, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	out := []models.BookingLog{}
	for _, e := range j.entries {
		if guestID == "" || e.GuestID == guestID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
