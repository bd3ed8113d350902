package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-rooms/controllers"
	"hotel-rooms/middleware"
)

func SetupRouter(rc *controllers.RoomController, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "X-Booking-Reference", "X-Booking-Failed"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", rc.Health)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)

			// static segments before /:id
			rooms.GET("/count", rc.CountRooms)
			rooms.GET("/bookings", rc.GetBookings)
			rooms.GET("/:id", rc.GetRoomByID)

			rooms.POST("/book", rc.BookRooms)
			rooms.POST("/release", rc.ReleaseRooms)
			rooms.POST("/reset", rc.ResetRooms)
			rooms.POST("/randomize", rc.RandomizeRooms)
		}
	}

	return r
}
