package handlers

import (
	"github.com/gin-gonic/gin"

	"attendx_backend/pipeline"
)

// respondFailure renders one taxonomy entry. Every failure leaving the
// API goes through here so the response shape stays uniform.
func respondFailure(c *gin.Context, f *pipeline.Failure) {
	c.JSON(f.Status, gin.H{
		"success":    false,
		"error_code": f.Code,
		"message":    f.Message,
	})
}
