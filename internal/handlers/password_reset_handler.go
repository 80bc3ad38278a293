package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aviauth/backend/internal/database"
	"aviauth/backend/internal/models"
	"aviauth/backend/internal/notifications"
	"aviauth/backend/pkg/config"
	avilog "aviauth/backend/pkg/log"
	"aviauth/backend/pkg/metrics"
)

// recoveryMessage is returned whether or not the email is registered, so
// the response reveals nothing about account existence.
const recoveryMessage = "If an account with that email exists, instructions to reset your password have been sent."

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordHandler starts the password recovery flow.
func ForgotPasswordHandler(cfg *config.Config, notifier notifications.EmailNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := avilog.L.Named("ForgotPasswordHandler")
		var payload ForgotPasswordPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
			return
		}

		token, user, err := issueResetToken(database.GetDB(), cfg.ResetTokenTTL, payload.Email)
		if err != nil {
			log.Error("Failed to issue password reset token", zap.Error(err))
			respondError(c, err)
			return
		}

		if user != nil {
			if err := notifications.SendResetEmail(c.Request.Context(), notifier, cfg, user.Email, token); err != nil {
				// Never surface delivery problems to the caller.
				log.Error("Failed to send password reset email", zap.Error(err))
			}
		} else {
			log.Info("Password reset requested for unknown email")
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": recoveryMessage})
	}
}

// issueResetToken creates a fresh reset token for the user registered
// under email, superseding any outstanding tokens. When no such user
// exists it returns without error and without persisting anything, so
// callers answer identically in both cases.
func issueResetToken(db *gorm.DB, ttl time.Duration, email string) (string, *models.User, error) {
	// Generate before the lookup so the work done is roughly the same
	// whether or not the account exists.
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// A new request supersedes any outstanding tokens for the user,
		// so at most one token is live at a time.
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordResetToken{
			Token:     token,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(ttl),
		}).Error
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to save reset token: %w", err)
	}

	metrics.ResetTokensIssued.Inc()
	return token, &user, nil
}

type ResetPasswordPayload struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPasswordHandler finishes the password recovery flow.
func ResetPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload ResetPasswordPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password are required"})
			return
		}
		if len(payload.NewPassword) < MinPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)})
			return
		}

		if err := consumeResetToken(database.GetDB(), payload.Token, payload.NewPassword); err != nil {
			if !errors.Is(err, ErrInvalidOrExpiredToken) {
				avilog.L.Named("ResetPasswordHandler").Error("Failed to reset password", zap.Error(err))
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset successfully."})
	}
}

// consumeResetToken redeems a token: it rehashes the credential and
// removes the token row in a single transaction. The conditional delete
// serializes concurrent redemption of the same token; only the request
// that actually removes the row gets to change the password.
func consumeResetToken(db *gorm.DB, token, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var rt models.PasswordResetToken
		if err := tx.Where("token = ? AND expires_at > ?", token, time.Now()).First(&rt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return fmt.Errorf("failed to look up reset token: %w", err)
		}

		res := tx.Where("id = ?", rt.ID).Delete(&models.PasswordResetToken{})
		if res.Error != nil {
			return fmt.Errorf("failed to consume reset token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidOrExpiredToken
		}

		if err := tx.Model(&models.User{}).Where("id = ?", rt.UserID).
			Update("password_hash", string(hashed)).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ResetTokensConsumed.Inc()
	return nil
}
