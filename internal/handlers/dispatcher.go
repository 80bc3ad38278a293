package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aviauth/backend/internal/auth"
	"aviauth/backend/internal/notifications"
	"aviauth/backend/pkg/config"
)

// UserActionsHandler is the legacy mobile API surface: one endpoint
// routed by the `action` query parameter combined with the HTTP method.
// It is a flat table over the same procedures the /api/v1 routes use.
//
//	passwordRecovery  POST      start password recovery
//	resetPassword     POST      finish password recovery
//	profile           GET/PUT   read or partially update the profile
//
// Unknown actions answer 400, a known action with the wrong method 405.
func UserActionsHandler(cfg *config.Config, notifier notifications.EmailNotifier) gin.HandlerFunc {
	forgotPassword := ForgotPasswordHandler(cfg, notifier)
	resetPassword := ResetPasswordHandler()
	getProfile := GetProfileHandler()
	updateProfile := UpdateProfileHandler()

	return func(c *gin.Context) {
		switch c.Query("action") {
		case "passwordRecovery":
			if c.Request.Method != http.MethodPost {
				c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
				return
			}
			forgotPassword(c)

		case "resetPassword":
			if c.Request.Method != http.MethodPost {
				c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
				return
			}
			resetPassword(c)

		case "profile":
			claims, err := auth.ClaimsFromRequest(c.Request)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.Set("userID", claims.UserID)

			switch c.Request.Method {
			case http.MethodGet:
				getProfile(c)
			case http.MethodPut:
				updateProfile(c)
			default:
				c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
			}

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		}
	}
}
