package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware turns the bearer token minted by the external identity
// provider into the opaque caller identity the core consumes. Token issuing
// and session policy live outside this service.
type AuthMiddleware struct {
	userRepo repository.UserRepository
	secret   string
}

func NewAuthMiddleware(userRepo repository.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.userFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(response.CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present but
// never rejects the request. Read endpoints that personalize their response
// (like status checks) use this so anonymous readers still get the public
// view.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := m.userFromRequest(c); err == nil {
			c.Set(response.CurrentUserKey, user)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := response.GetCurrentUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		if !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) userFromRequest(c *gin.Context) (*model.User, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		return nil, errors.New("authorization required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("invalid token subject")
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, errors.New("unknown user")
	}
	return user, nil
}
