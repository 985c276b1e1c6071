package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campuslink.cn/community/internal/handler"
	"campuslink.cn/community/internal/middleware"
	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret"

func setupLikeRouter(t *testing.T) (*gin.Engine, *gorm.DB, service.LikeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.TreeholePost{},
		&model.TreeholeComment{},
	))

	userRepo := repository.NewUserRepository(db)
	registry := repository.NewTargetRegistry(db)
	likeRepo := repository.NewLikeRepository(db, registry)
	likeService := service.NewLikeService(likeRepo, registry, nil)
	likeHandler := handler.NewLikeHandler(likeService)
	authMiddleware := middleware.NewAuthMiddleware(userRepo, testJWTSecret)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/likes/status", authMiddleware.OptionalAuth(), likeHandler.Status)
	auth := api.Group("")
	auth.Use(authMiddleware.RequireAuth())
	auth.POST("/likes/toggle", likeHandler.Toggle)

	return router, db, likeService
}

func bearerToken(t *testing.T, user *model.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestLikeStatusReflectsCaller(t *testing.T) {
	router, db, likeService := setupLikeRouter(t)

	liker := &model.User{Username: "liker", Email: "liker@campus.edu.cn"}
	require.NoError(t, db.Create(liker).Error)
	post := &model.Post{AuthorID: liker.ID, Title: "t", Content: "c"}
	require.NoError(t, db.Create(post).Error)

	_, err := likeService.Toggle(context.Background(), liker.ID, model.TargetPost, post.ID)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/likes/status?target_type=post&target_id=%s", post.ID)

	// The holder of the like sees their own state when they send a token.
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", bearerToken(t, liker))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Liked)
	assert.Equal(t, int64(1), body.Count)

	// Anonymous readers still get the count, just no personal state.
	req = httptest.NewRequest(http.MethodGet, url, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Liked)
	assert.Equal(t, int64(1), body.Count)

	// A garbage token degrades to the anonymous view instead of a 401.
	req = httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLikeToggleRequiresAuth(t *testing.T) {
	router, db, _ := setupLikeRouter(t)

	author := &model.User{Username: "author", Email: "author@campus.edu.cn"}
	require.NoError(t, db.Create(author).Error)
	post := &model.Post{AuthorID: author.ID, Title: "t", Content: "c"}
	require.NoError(t, db.Create(post).Error)

	payload := fmt.Sprintf(`{"target_type":"post","target_id":"%s"}`, post.ID)

	req := httptest.NewRequest(http.MethodPost, "/api/likes/toggle", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/likes/toggle", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, author))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
