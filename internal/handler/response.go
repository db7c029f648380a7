package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/swasthya/medrec-api/pkg/errors"
)

// Error writes the flat error envelope used across the API. Internal causes
// are logged server-side and never echoed to the client.
func Error(c *gin.Context, err error) {
	appErr := errors.From(err)
	if appErr.Code == errors.ErrInternal {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
}

// OK writes the message/data success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// Created writes the message/data envelope with a 201 status.
func Created(c *gin.Context, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusCreated, body)
}
