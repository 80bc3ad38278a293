package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aviauth/backend/internal/auth"
	"aviauth/backend/internal/database"
	"aviauth/backend/internal/models"
	avilog "aviauth/backend/pkg/log"
)

type RegisterPayload struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates a new account.
func RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload RegisterPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username, a valid email and password are required"})
			return
		}
		if len(payload.Password) < MinPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)})
			return
		}

		user, err := registerUser(database.GetDB(), payload)
		if err != nil {
			if !errors.Is(err, ErrDuplicateEmail) {
				avilog.L.Named("RegisterHandler").Error("Failed to register user", zap.Error(err))
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Account created successfully.",
			"user":    newProfileResponse(user),
		})
	}
}

func registerUser(db *gorm.DB, payload RegisterPayload) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", payload.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies credentials and issues a bearer token. A wrong
// email and a wrong password get the same answer.
func LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload LoginPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email and password are required"})
			return
		}

		var user models.User
		if err := database.GetDB().Where("email = ?", payload.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		tokenString, err := auth.GenerateToken(&user)
		if err != nil {
			avilog.L.Named("LoginHandler").Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"token":   tokenString,
			"user":    newProfileResponse(&user),
		})
	}
}
