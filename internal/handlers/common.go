package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	avilog "aviauth/backend/pkg/log"
)

// MinPasswordLength is the minimum accepted password length, at
// registration and at reset alike.
const MinPasswordLength = 6

// Sentinel errors returned by the credential and profile procedures.
// respondError is the single place that maps them onto HTTP responses.
var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrDuplicateEmail        = errors.New("email is already in use")
	ErrUserNotFound          = errors.New("user not found")
)

// respondError writes the JSON error envelope for a procedure failure.
// Anything that is not a recognized domain error is a datastore or
// internal failure and surfaces as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already in use"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		avilog.L.Error("Unhandled error in request handler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// currentUserID returns the authenticated user's ID placed in the
// context by auth.AuthMiddleware or the action dispatcher.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
