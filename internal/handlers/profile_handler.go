package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"aviauth/backend/internal/database"
	"aviauth/backend/internal/models"
)

// ProfileResponse is the public view of a user, without the credential.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"created_at"`
}

func newProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// GetProfileHandler returns the authenticated user's profile.
func GetProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := fetchProfile(database.GetDB(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": newProfileResponse(user)})
	}
}

func fetchProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfilePayload carries a partial profile update. Pointer fields
// distinguish "absent" from "empty".
type UpdateProfilePayload struct {
	Username *string `json:"username" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// UpdateProfileHandler applies a partial {username, email} update to the
// authenticated user.
func UpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var payload UpdateProfilePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}
		if payload.Username == nil && payload.Email == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}

		if err := applyProfileUpdate(database.GetDB(), userID, payload); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully."})
	}
}

// applyProfileUpdate builds the column set from a fixed whitelist of
// updatable fields; request field names are never interpolated. An email
// change is checked for uniqueness against all other users, so an update
// to the user's own current email is a no-op that succeeds.
func applyProfileUpdate(db *gorm.DB, userID uuid.UUID, payload UpdateProfilePayload) error {
	updates := map[string]interface{}{}

	if payload.Username != nil {
		updates["username"] = *payload.Username
	}
	if payload.Email != nil {
		var count int64
		if err := db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *payload.Email, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		updates["email"] = *payload.Email
	}

	res := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
