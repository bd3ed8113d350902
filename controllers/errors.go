package controllers

import (
	"errors"
	"net/http"

	"hotel-rooms/logger"
	"hotel-rooms/services"
	"hotel-rooms/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidRequest", err.Error())

	case errors.Is(err, services.ErrQuotaExceeded):
		utils.JSONError(c, http.StatusBadRequest, "error.bookRoomLimitExceeded", services.ErrQuotaExceeded.Error())

	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.roomNotFound", err.Error())

	case errors.Is(err, services.ErrStoreUnavailable):
		logger.L.Error("store unavailable", "path", c.FullPath(), "err", err)
		utils.JSONError(c, http.StatusServiceUnavailable, "error.storeUnavailable", "Room store is unavailable, retry later")

	default:
		logger.L.Error("unhandled error", "path", c.FullPath(), "err", err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Internal server error")
	}
}
