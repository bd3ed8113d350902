package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"hotel-rooms/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms     *services.RoomService
	Allocator *services.Allocator
	Journal   services.BookingJournal
}

func NewRoomController(rooms *services.RoomService, alloc *services.Allocator, journal services.BookingJournal) *RoomController {
	return &RoomController{Rooms: rooms, Allocator: alloc, Journal: journal}
}

// GuestToken is a guestId sent as a JSON string or integer. Integers are
// kept in their decimal form, so 7 and "7" name the same guest.
type GuestToken string

func (g *GuestToken) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = GuestToken(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("guestId must be a string or an integer: %w", err)
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("guestId must be a string or an integer, got %s", n)
	}
	*g = GuestToken(strconv.FormatInt(v, 10))
	return nil
}

type BookRoomsPayload struct {
	Count   int        `json:"count" binding:"required"`
	GuestID GuestToken `json:"guestId" binding:"required"`
}

type ReleaseRoomsPayload struct {
	GuestID GuestToken `json:"guestId" binding:"required"`
}

func invalidPayload(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"code":    "error.invalidPayload",
		"message": "Invalid request payload",
		"details": err.Error(),
	})
}

// parseRoomFilter reads occupied, guestId, floor, limit, offset and order
// from the query string.
func parseRoomFilter(c *gin.Context) (services.RoomFilter, error) {
	var f services.RoomFilter

	if raw, ok := c.GetQuery("occupied"); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, invalidParam("occupied", raw)
		}
		f.Occupied = &b
	}
	if raw, ok := c.GetQuery("guestId"); ok {
		f.GuestID = &raw
	}
	if raw, ok := c.GetQuery("floor"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, invalidParam("floor", raw)
		}
		f.Floor = &n
	}

	var err error
	if f.Limit, err = intQuery(c, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = intQuery(c, "offset"); err != nil {
		return f, err
	}
	f.Order = c.Query("order")
	return f, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(key, raw)
	}
	return n, nil
}

func invalidParam(key, raw string) error {
	return &paramError{key: key, raw: raw}
}

type paramError struct{ key, raw string }

func (e *paramError) Error() string { return "invalid " + e.key + " " + strconv.Quote(e.raw) }
func (e *paramError) Unwrap() error { return services.ErrInvalidRequest }

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var in services.NewRoom
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	room, err := ctrl.Rooms.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// POST /api/rooms/book
func (ctrl *RoomController) BookRooms(c *gin.Context) {
	var payload BookRoomsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}

	res, err := ctrl.Allocator.Book(c.Request.Context(), services.BookRequest{
		GuestID: string(payload.GuestID),
		Count:   payload.Count,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Booking-Reference", res.Reference)
	c.Header("X-Booking-Failed", strconv.Itoa(len(res.Failures)))
	c.JSON(http.StatusOK, res.Rooms)
}

// POST /api/rooms/release
func (ctrl *RoomController) ReleaseRooms(c *gin.Context) {
	var payload ReleaseRoomsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}

	n, err := ctrl.Allocator.Release(c.Request.Context(), string(payload.GuestID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// POST /api/rooms/reset
func (ctrl *RoomController) ResetRooms(c *gin.Context) {
	n, err := ctrl.Allocator.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// POST /api/rooms/randomize
func (ctrl *RoomController) RandomizeRooms(c *gin.Context) {
	rooms, err := ctrl.Allocator.Randomize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	f, err := parseRoomFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rooms, err := ctrl.Rooms.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/count
func (ctrl *RoomController) CountRooms(c *gin.Context) {
	f, err := parseRoomFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	n, err := ctrl.Rooms.Count(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// GET /api/rooms/:id
func (ctrl *RoomController) GetRoomByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, invalidParam("id", c.Param("id")))
		return
	}

	room, err := ctrl.Rooms.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// GET /api/rooms/bookings
func (ctrl *RoomController) GetBookings(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := ctrl.Journal.List(c.Request.Context(), c.Query("guestId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /health
func (ctrl *RoomController) Health(c *gin.Context) {
	n, err := ctrl.Rooms.Count(c.Request.Context(), services.RoomFilter{})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": n})
}
