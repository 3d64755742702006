package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as JSON with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes payload as a 200 response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Created writes payload as a 201 response for newly stored records.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}
