package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondData writes a success envelope with a data payload.
func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondError writes a failure envelope with the given status and message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
