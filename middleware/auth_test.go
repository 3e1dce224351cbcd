package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"attendx_backend/models"
)

var testSecret = []byte("test-secret")

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// db is nil: the token paths under test fail before any query
	r.GET("/protected", AuthMiddleware(nil, testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin_id": c.GetInt("adminID")})
	})
	return r
}

func request(r *gin.Engine, authHeader string) (int, string) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		ErrorCode string `json:"error_code"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body.ErrorCode
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		AdminID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	s, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	code, errCode := request(authRouter(), "")
	if code != http.StatusUnauthorized || errCode != "AUTH_REQUIRED" {
		t.Fatalf("Expected 401 AUTH_REQUIRED, got %d %s", code, errCode)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	code, errCode := request(authRouter(), "NotBearer xyz")
	if code != http.StatusUnauthorized || errCode != "INVALID_TOKEN" {
		t.Fatalf("Expected 401 INVALID_TOKEN, got %d %s", code, errCode)
	}
}

func TestAuthMiddlewareTamperedToken(t *testing.T) {
	code, errCode := request(authRouter(), "Bearer not.a.jwt")
	if code != http.StatusUnauthorized || errCode != "INVALID_TOKEN" {
		t.Fatalf("Expected 401 INVALID_TOKEN, got %d %s", code, errCode)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Hour))
	code, errCode := request(authRouter(), "Bearer "+token)
	if code != http.StatusUnauthorized || errCode != "TOKEN_EXPIRED" {
		t.Fatalf("Expected 401 TOKEN_EXPIRED, got %d %s", code, errCode)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("Expected password to verify against its own hash")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("Wrong password must not verify")
	}
}
