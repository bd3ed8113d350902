package utils

import "github.com/gin-gonic/gin"

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"status":  "error",
		"code":    errCode,
		"message": message,
	})
}
