package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"aviauth/backend/internal/models"
	"aviauth/backend/pkg/config"
)

const tokenIssuer = "avi-auth"

var (
	jwtKey        []byte
	tokenLifespan = 24 * time.Hour
)

// Claims is the payload encoded into issued JWTs.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	jwt.RegisteredClaims
}

// InitializeJWT configures the signing key and token lifespan.
func InitializeJWT(cfg *config.Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT secret is not configured")
	}
	jwtKey = []byte(cfg.JWTSecret)
	if cfg.JWTTokenLifespan != 0 {
		tokenLifespan = cfg.JWTTokenLifespan
	}
	return nil
}

// GenerateToken issues a signed JWT for the given user.
func GenerateToken(user *models.User) (string, error) {
	if len(jwtKey) == 0 {
		return "", fmt.Errorf("JWT secret key not initialized, call InitializeJWT first")
	}

	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a JWT string, returning its claims.
// Signature and expiry are both checked.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtKey) == 0 {
		return nil, fmt.Errorf("JWT secret key not initialized")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ClaimsFromRequest extracts and verifies the bearer token carried in
// the Authorization header of an HTTP request.
func ClaimsFromRequest(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, fmt.Errorf("Authorization header format must be Bearer {token}")
	}

	claims, err := ValidateToken(parts[1])
	if err != nil {
		return nil, fmt.Errorf("Invalid token: %s", err.Error())
	}
	return claims, nil
}

// AuthMiddleware authenticates requests by the Authorization header
// (Bearer token). On success the verified identity is stored in the Gin
// context under "userID", "username" and "userEmail".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ClaimsFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}
