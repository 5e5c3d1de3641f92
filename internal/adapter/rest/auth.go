package rest

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/phuslu/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	sessionCookieName = "patrimonio_session"
	sessionDuration   = 24 * time.Hour
)

// loginLimiter throttles login attempts per client IP to slow down
// password guessing against the shared password.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*rate.Limiter)}
}

// allow reports whether the client may attempt a login right now.
// Each IP gets 5 attempts per minute with a burst of 5.
func (l *loginLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/5), 5)
		l.limiters[clientIP] = limiter
	}
	return limiter.Allow()
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// handleLogin validates the shared password and issues a session JWT.
// The token is returned in the body and also set as a cookie so both API
// clients and the browser UI can authenticate.
func (s *Server) handleLogin(c *gin.Context) {
	if !s.loginLimiter.allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if !s.passwordMatches(req.Password) {
		log.Warn().Str("ip", c.ClientIP()).Msg("failed login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, err := signSessionToken(s.Auth.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.SetCookie(sessionCookieName, token, int(sessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleVerify reports whether the presented session token is valid
func (s *Server) handleVerify(c *gin.Context) {
	token := bearerToken(c)
	if token == "" || validateSessionToken(token, s.Auth.JWTSecret) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// passwordMatches checks the submitted password against the configured hash,
// or the plain password in constant time when no hash is configured.
func (s *Server) passwordMatches(password string) bool {
	if s.Auth.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.Auth.PasswordHash), []byte(password)) == nil
	}
	if s.Auth.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.Auth.Password), []byte(password)) == 1
}

// signSessionToken creates a signed HMAC-SHA256 session JWT
func signSessionToken(secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"authenticated": true,
		"iss":           "patrimonio-server",
		"iat":           now.Unix(),
		"exp":           now.Add(sessionDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
