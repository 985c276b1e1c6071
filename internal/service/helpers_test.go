package service_test

import (
	"fmt"
	"testing"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/internal/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory instance for the lifetime of the test.
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
		&model.Tag{},
		&model.Teacher{},
		&model.Canteen{},
		&model.Rating{},
		&model.HelpfulMark{},
		&model.TreeholePost{},
		&model.TreeholeComment{},
		&model.AnonymousIdentity{},
	))
	return db
}

type testEnv struct {
	db *gorm.DB

	likeService     service.LikeService
	ratingService   service.RatingService
	postService     service.PostService
	commentService  service.CommentService
	treeholeService service.TreeholeService
	catalogService  service.CatalogService
	anonService     service.AnonymousNameService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	registry := repository.NewTargetRegistry(db)
	likeRepo := repository.NewLikeRepository(db, registry)
	ratingRepo := repository.NewRatingRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	treeholeRepo := repository.NewTreeholeRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	anonRepo := repository.NewAnonymousIdentityRepository(db)

	anonService := service.NewAnonymousNameService(anonRepo)

	return &testEnv{
		db:              db,
		likeService:     service.NewLikeService(likeRepo, registry, nil),
		ratingService:   service.NewRatingService(ratingRepo, registry),
		postService:     service.NewPostService(postRepo),
		commentService:  service.NewCommentService(commentRepo, postRepo),
		treeholeService: service.NewTreeholeService(treeholeRepo, anonService),
		catalogService:  service.NewCatalogService(catalogRepo),
		anonService:     anonService,
	}
}

func (e *testEnv) createUser(t *testing.T, username string, staff bool) *model.User {
	t.Helper()
	user := &model.User{
		Username:   username,
		Email:      username + "@campus.edu.cn",
		IsStaff:    staff,
		IsVerified: true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createPost(t *testing.T, author *model.User, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID: author.ID,
		Title:    title,
		Content:  "content of " + title,
	}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func (e *testEnv) createTeacher(t *testing.T, name string) *model.Teacher {
	t.Helper()
	teacher := &model.Teacher{Name: name, Department: "计算机学院"}
	require.NoError(t, e.db.Create(teacher).Error)
	return teacher
}

func (e *testEnv) createCanteen(t *testing.T, name string) *model.Canteen {
	t.Helper()
	canteen := &model.Canteen{Name: name, Building: "第一食堂"}
	require.NoError(t, e.db.Create(canteen).Error)
	return canteen
}

func (e *testEnv) createTag(t *testing.T, name string, category model.TagCategory) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, Category: category}
	require.NoError(t, e.db.Create(tag).Error)
	return tag
}
