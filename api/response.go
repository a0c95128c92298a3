package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/domain"
)

// bindStrict decodes the body rejecting unknown fields, so a payload carrying
// fields outside the caller's allowed shape fails instead of being narrowed
// silently.
func bindStrict(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// All responses share one envelope: {"success": true, ...payload} on the happy
// path, {"success": false, "message": ..., "errors": [...]} otherwise.

func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps the domain error taxonomy onto status codes. Anything
// outside the taxonomy is logged with the full error chain and answered with
// a generic failure; the detail never reaches the client.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  ve.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		status, message = http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, message = http.StatusBadRequest, err.Error()
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
