package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends body as-is with the given status
func JSONResponse(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// JSONSuccess sends {success:true} merged with fields
func JSONSuccess(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// JSONError sends the standard error body {success:false, statusCode, message}
func JSONError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"statusCode": status,
		"message":    message,
	})
}
