package main

import "github.com/gin-gonic/gin"

// fail writes the standard error envelope.
func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}
