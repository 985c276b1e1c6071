package main

import (
	"campuslink.cn/community/internal/config"
	"campuslink.cn/community/internal/handler"
	"campuslink.cn/community/internal/middleware"
	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/internal/repository"
	"campuslink.cn/community/internal/service"
	"campuslink.cn/community/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db := database.Connect(cfg.DatabaseURL)
	if err := migrate(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
	if err := seedTags(db); err != nil {
		logrus.WithError(err).Fatal("failed to seed rating tags")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Fatal("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(opts)
	}

	userRepo := repository.NewUserRepository(db)
	registry := repository.NewTargetRegistry(db)

	likeRepo := repository.NewLikeRepository(db, registry)
	likeService := service.NewLikeService(likeRepo, registry, redisClient)
	likeHandler := handler.NewLikeHandler(likeService)

	ratingRepo := repository.NewRatingRepository(db)
	ratingService := service.NewRatingService(ratingRepo, registry)
	ratingHandler := handler.NewRatingHandler(ratingService)

	postRepo := repository.NewPostRepository(db)
	postService := service.NewPostService(postRepo)
	postHandler := handler.NewPostHandler(postService)

	commentRepo := repository.NewCommentRepository(db)
	commentService := service.NewCommentService(commentRepo, postRepo)
	commentHandler := handler.NewCommentHandler(commentService)

	anonRepo := repository.NewAnonymousIdentityRepository(db)
	anonService := service.NewAnonymousNameService(anonRepo)

	treeholeRepo := repository.NewTreeholeRepository(db)
	treeholeService := service.NewTreeholeService(treeholeRepo, anonService)
	treeholeHandler := handler.NewTreeholeHandler(treeholeService)

	catalogRepo := repository.NewCatalogRepository(db)
	catalogService := service.NewCatalogService(catalogRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Like status personalizes the response when a token is supplied but
	// stays readable without one.
	api.GET("/likes/status", authMiddleware.OptionalAuth(), likeHandler.Status)

	// Public reads
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.GET("/posts/:id/comments", commentHandler.Thread)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/teachers", catalogHandler.ListTeachers)
	api.GET("/teachers/:id", catalogHandler.GetTeacher)
	api.GET("/canteens", catalogHandler.ListCanteens)
	api.GET("/canteens/:id", catalogHandler.GetCanteen)
	api.GET("/tags", ratingHandler.ListTags)
	api.GET("/ratings", ratingHandler.ListByTarget)
	api.GET("/ratings/statistics", ratingHandler.Statistics)
	api.GET("/treehole/posts", treeholeHandler.ListPosts)
	api.GET("/treehole/posts/:id", treeholeHandler.GetPost)
	api.GET("/treehole/posts/:id/comments", treeholeHandler.Thread)

	// Authenticated mutations
	auth := api.Group("")
	auth.Use(authMiddleware.RequireAuth())
	{
		auth.POST("/posts", postHandler.Create)
		auth.PUT("/posts/:id", postHandler.Update)
		auth.DELETE("/posts/:id", postHandler.Delete)

		auth.POST("/comments", commentHandler.Create)
		auth.DELETE("/comments/:id", commentHandler.Delete)

		auth.POST("/likes/toggle", likeHandler.Toggle)

		auth.POST("/ratings", ratingHandler.Create)
		auth.PATCH("/ratings/:id", ratingHandler.Update)
		auth.DELETE("/ratings/:id", ratingHandler.Delete)
		auth.POST("/ratings/:id/helpful", ratingHandler.MarkHelpful)
		auth.GET("/ratings/mine", ratingHandler.MyRatings)

		auth.POST("/treehole/posts", treeholeHandler.CreatePost)
		auth.DELETE("/treehole/posts/:id", treeholeHandler.DeletePost)
		auth.POST("/treehole/comments", treeholeHandler.CreateComment)
		auth.DELETE("/treehole/comments/:id", treeholeHandler.DeleteComment)

		staff := auth.Group("")
		staff.Use(authMiddleware.RequireStaff())
		{
			staff.POST("/teachers", catalogHandler.CreateTeacher)
			staff.DELETE("/teachers/:id", catalogHandler.DeleteTeacher)
			staff.POST("/canteens", catalogHandler.CreateCanteen)
			staff.DELETE("/canteens/:id", catalogHandler.DeleteCanteen)
			staff.PATCH("/comments/:id/hidden", commentHandler.SetHidden)
		}
	}

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
	)
}

func seedTags(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	teacherTags := []string{"讲课生动", "作业适量", "给分友好", "答疑耐心", "严格要求", "课件详细"}
	canteenTags := []string{"味道好", "分量足", "价格实惠", "排队快", "干净卫生", "菜品丰富"}

	var tags []model.Tag
	for i, name := range teacherTags {
		tags = append(tags, model.Tag{Name: name, Category: model.TagCategoryTeacher, Order: i})
	}
	for i, name := range canteenTags {
		tags = append(tags, model.Tag{Name: name, Category: model.TagCategoryCanteen, Order: i})
	}
	return db.Create(&tags).Error
}
