package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 response. A non-empty location is sent as the Location header.
func Created(c *gin.Context, location string, payload interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	JSON(c, http.StatusCreated, payload)
}

// NoContent ends the request with 204 and an empty body.
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}
