package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"hotel-rooms/events"
	"hotel-rooms/logger"
	"hotel-rooms/models"

	"github.com/google/uuid"
)

type AllocatorConfig struct {
	MaxRoomsPerGuest int
	// CeilingQuota rejects a guest holding MaxRoomsPerGuest or more rooms;
	// otherwise only an exact match rejects.
	CeilingQuota bool
	// WriteTimeout bounds each reservation write. Zero means no bound.
	WriteTimeout time.Duration
	// BookTimeout bounds a whole Book call including the wait for the guard.
	BookTimeout time.Duration
	// RandomizeCount is the number of updates Randomize issues; zero means
	// half of the current inventory.
	RandomizeCount int
}

// Allocator assigns free rooms to guests. Every operation that mutates
// room occupancy runs inside Guard.
type Allocator struct {
	Store   RoomStore
	Guard   *Guard
	Journal BookingJournal
	Events  events.Publisher
	Rand    *rand.Rand
	Config  AllocatorConfig
}

func NewAllocator(store RoomStore, cfg AllocatorConfig) *Allocator {
	return &Allocator{
		Store:  store,
		Guard:  NewGuard(),
		Events: events.Nop{},
		Rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		Config: cfg,
	}
}

type BookRequest struct {
	GuestID string `json:"guestId" validate:"required,max=64"`
	Count   int    `json:"count" validate:"gt=0"`
}

// RoomFailure is a candidate whose reservation write failed.
type RoomFailure struct {
	RoomID uint   `json:"roomId"`
	Error  string `json:"error"`
	Err    error  `json:"-"`
}

type BookResult struct {
	Reference string
	GuestID   string
	Requested int
	Effective int
	Held      int
	// Rooms holds the committed reservations in write order.
	Rooms    []models.Room
	Failures []RoomFailure
}

func (a *Allocator) quotaReached(held int) bool {
	if a.Config.CeilingQuota {
		return held >= a.Config.MaxRoomsPerGuest
	}
	return held == a.Config.MaxRoomsPerGuest
}

// Book reserves up to min(req.Count, MaxRoomsPerGuest) of the lowest-id
// free rooms for req.GuestID. Each room is written independently: a
// failed write neither rolls back earlier ones nor stops later ones, so
// the result may hold fewer rooms than requested without an error.
func (a *Allocator) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	if err := validate.Struct(req); err != nil {
		return BookResult{}, invalid("%v", err)
	}
	if err := checkGuestID(req.GuestID); err != nil {
		return BookResult{}, err
	}

	if a.Config.BookTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.BookTimeout)
		defer cancel()
	}

	var result BookResult
	err := a.Guard.Do(ctx, func() error {
		var err error
		result, err = a.book(ctx, req)
		return err
	})
	if err != nil {
		return result, err
	}

	a.publish(ctx, events.KeyRoomsBooked, events.RoomsBooked{
		Reference: result.Reference,
		GuestID:   result.GuestID,
		RoomIDs:   roomIDs(result.Rooms),
		Failed:    len(result.Failures),
		At:        time.Now().UTC(),
	})
	return result, nil
}

func (a *Allocator) book(ctx context.Context, req BookRequest) (BookResult, error) {
	snap, err := TakeSnapshot(ctx, a.Store)
	if err != nil {
		return BookResult{}, err
	}

	held := snap.HeldBy(req.GuestID)
	if a.quotaReached(held) {
		logger.L.Info("booking rejected: quota reached",
			"guest", req.GuestID, "held", held, "max", a.Config.MaxRoomsPerGuest)
		return BookResult{}, fmt.Errorf("guest %s holds %d rooms: %w", req.GuestID, held, ErrQuotaExceeded)
	}

	result := BookResult{
		Reference: uuid.NewString(),
		GuestID:   req.GuestID,
		Requested: req.Count,
		Effective: min(req.Count, a.Config.MaxRoomsPerGuest),
		Held:      held,
		Rooms:     []models.Room{},
	}

	candidates := SelectCandidates(snap.Free(), result.Effective)
	for _, room := range candidates {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, failure(room.ID,
				fmt.Errorf("%w: not attempted: %v", ErrStoreUnavailable, err)))
			continue
		}

		stored, err := a.reserve(ctx, room, req.GuestID)
		if err != nil {
			logger.L.Warn("room reservation failed",
				"room", room.ID, "guest", req.GuestID, "ref", result.Reference, "err", err)
			result.Failures = append(result.Failures, failure(room.ID, err))
			continue
		}
		result.Rooms = append(result.Rooms, stored)
	}

	logger.L.Info("rooms booked",
		"guest", req.GuestID, "ref", result.Reference, "requested", req.Count,
		"effective", result.Effective, "committed", len(result.Rooms), "failed", len(result.Failures))

	a.record(ctx, result)
	return result, nil
}

// reserve writes the reservation and returns the room as stored. The
// write is committed once UpdateByID succeeds; a failed re-read only
// falls back to the snapshot copy with the patch applied.
func (a *Allocator) reserve(ctx context.Context, room models.Room, guestID string) (models.Room, error) {
	writeCtx := ctx
	if a.Config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, a.Config.WriteTimeout)
		defer cancel()
	}

	patch := models.Occupy(guestID)
	if err := a.Store.UpdateByID(writeCtx, room.ID, patch); err != nil {
		return models.Room{}, err
	}

	stored, err := a.Store.GetByID(writeCtx, room.ID)
	if err != nil {
		logger.L.Debug("re-read after reservation failed", "room", room.ID, "err", err)
		patch.Apply(&room)
		return room, nil
	}
	return stored, nil
}

func failure(id uint, err error) RoomFailure {
	return RoomFailure{RoomID: id, Error: err.Error(), Err: err}
}

// record appends the outcome to the journal. A journal failure never
// changes the booking result.
func (a *Allocator) record(ctx context.Context, result BookResult) {
	if a.Journal == nil {
		return
	}

	ids, _ := json.Marshal(roomIDs(result.Rooms))
	entry := models.BookingLog{
		Reference: result.Reference,
		GuestID:   result.GuestID,
		Requested: result.Requested,
		Effective: result.Effective,
		RoomIDs:   ids,
	}
	if len(result.Failures) > 0 {
		entry.Failures, _ = json.Marshal(result.Failures)
	}

	// the booking context may already be spent on slow writes
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Journal.Append(jctx, entry); err != nil {
		logger.L.Warn("booking journal append failed", "ref", result.Reference, "err", err)
	}
}

func (a *Allocator) publish(ctx context.Context, key string, v any) {
	if a.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.Events.PublishJSON(pctx, key, v); err != nil {
		logger.L.Warn("event publish failed", "key", key, "err", err)
	}
}

// Release frees every room held by guestID.
func (a *Allocator) Release(ctx context.Context, guestID string) (int64, error) {
	if err := checkGuestID(guestID); err != nil {
		return 0, err
	}

	var n int64
	err := a.Guard.Do(ctx, func() error {
		var err error
		n, err = a.Store.UpdateMatching(ctx, RoomFilter{GuestID: &guestID}, models.Vacate())
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.L.Info("rooms released", "guest", guestID, "count", n)
	a.publish(ctx, events.KeyRoomsReleased, events.RoomsReleased{GuestID: guestID, Count: n, At: time.Now().UTC()})
	return n, nil
}

// checkGuestID accepts any non-empty token compared byte for byte. Padded
// tokens are refused so " a" and "a" never share a quota by accident.
func checkGuestID(guestID string) error {
	if guestID == "" {
		return invalid("guestId is required")
	}
	if strings.TrimSpace(guestID) != guestID {
		return invalid("guestId %q has surrounding whitespace", guestID)
	}
	return nil
}

func roomIDs(rooms []models.Room) []uint {
	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}
