package middleware

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"attendx_backend/models"
	"attendx_backend/pipeline"
)

func abortWith(c *gin.Context, code pipeline.Code) {
	f := pipeline.NewFailure(code)
	c.JSON(f.Status, gin.H{
		"success":    false,
		"error_code": f.Code,
		"message":    f.Message,
	})
	c.Abort()
}

// AuthMiddleware authenticates an admin from a Bearer token and puts the
// admin ID in the context. Failures use the stable error taxonomy so
// clients can distinguish a missing token from an expired session.
func AuthMiddleware(db *sql.DB, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, pipeline.CodeAuthRequired)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, pipeline.CodeInvalidToken)
			return
		}

		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, pipeline.CodeTokenExpired)
				return
			}
			log.Printf("Token validation error: %v", err)
			abortWith(c, pipeline.CodeInvalidToken)
			return
		}
		if !token.Valid {
			abortWith(c, pipeline.CodeInvalidToken)
			return
		}

		// The token must still map to an admin row; a deleted admin has
		// no tenant role.
		var exists bool
		err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM admins WHERE id = $1)`, claims.AdminID).Scan(&exists)
		if err != nil {
			log.Printf("Error checking admin: %v", err)
			abortWith(c, pipeline.CodeInternal)
			return
		}
		if !exists {
			abortWith(c, pipeline.CodeAccessDenied)
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Set("token", parts[1])
		c.Next()
	}
}

// TokenService handles token generation and validation
type TokenService struct {
	DB        *sql.DB
	JWTSecret []byte
}

// NewTokenService creates a new token service
func NewTokenService(db *sql.DB, jwtSecret []byte) *TokenService {
	return &TokenService{
		DB:        db,
		JWTSecret: jwtSecret,
	}
}

// GenerateTokens creates a new access and refresh token pair
func (s *TokenService) GenerateTokens(adminID int) (gin.H, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	accessTokenString, err := accessToken.SignedString(s.JWTSecret)
	if err != nil {
		return nil, err
	}

	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	refreshToken := hex.EncodeToString(bytes)

	if _, err := s.DB.Exec(
		`INSERT INTO refresh_tokens (admin_id, token, expires_at) VALUES ($1, $2, $3)`,
		adminID, refreshToken, time.Now().Add(30*24*time.Hour),
	); err != nil {
		return nil, err
	}

	return gin.H{"access_token": accessTokenString, "refresh_token": refreshToken}, nil
}

// ValidateRefreshToken checks if a refresh token is valid and returns the admin ID
func (s *TokenService) ValidateRefreshToken(refreshToken string) (int, error) {
	var adminID int
	err := s.DB.QueryRow(
		`SELECT admin_id FROM refresh_tokens WHERE token = $1 AND expires_at > NOW()`,
		refreshToken,
	).Scan(&adminID)

	if err != nil {
		return 0, err
	}

	return adminID, nil
}

// InvalidateRefreshToken invalidates a refresh token
func (s *TokenService) InvalidateRefreshToken(refreshToken string) error {
	_, err := s.DB.Exec(`DELETE FROM refresh_tokens WHERE token = $1`, refreshToken)
	return err
}

// VerifyPassword checks if a password matches the hashed version
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
